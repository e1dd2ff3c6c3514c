package invariant

import (
	"context"
	"errors"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/krazyTry/invariant-go/invariant/codec"
	"github.com/krazyTry/invariant-go/invariant/shared"
	"github.com/krazyTry/invariant-go/invariant/state"
)

var ErrNoRPC = errors.New("rpc client not configured")

func (c *Client) accountData(ctx context.Context, address solanago.PublicKey) ([]byte, error) {
	if c.rpcClient == nil {
		return nil, ErrNoRPC
	}
	acc, err := c.rpcClient.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{Commitment: c.commitment})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", address, shared.ErrAccountNotFound)
		}
		return nil, err
	}
	if acc == nil || acc.Value == nil {
		return nil, fmt.Errorf("%s: %w", address, shared.ErrAccountNotFound)
	}
	return acc.Value.Data.GetBinary(), nil
}

func fetch[T any](ctx context.Context, c *Client, address solanago.PublicKey, decode func([]byte) (*T, error)) (*T, error) {
	data, err := c.accountData(ctx, address)
	if err != nil {
		return nil, err
	}
	out, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", address, err)
	}
	return out, nil
}

func (c *Client) FetchPool(ctx context.Context, address solanago.PublicKey) (*state.Pool, error) {
	return fetch(ctx, c, address, state.DecodePool)
}

func (c *Client) FetchTickmap(ctx context.Context, address solanago.PublicKey) (*state.Tickmap, error) {
	return fetch(ctx, c, address, state.DecodeTickmap)
}

func (c *Client) FetchFeeTier(ctx context.Context, address solanago.PublicKey) (*state.FeeTier, error) {
	return fetch(ctx, c, address, state.DecodeFeeTier)
}

func (c *Client) FetchState(ctx context.Context) (*state.State, error) {
	address, _, err := DeriveStateAddress(c.programID)
	if err != nil {
		return nil, err
	}
	return fetch(ctx, c, address, state.DecodeState)
}

// ProgramAccountFilter selects the program accounts of one record kind,
// optionally narrowed to a key stored at offset.
func ProgramAccountFilter(name string, key solanago.PublicKey, offset uint64) *rpc.GetProgramAccountsOpts {
	disc := codec.Discriminator(name)
	opt := &rpc.GetProgramAccountsOpts{
		Commitment: rpc.CommitmentFinalized,
		Encoding:   solanago.EncodingBase64,
		Filters: []rpc.RPCFilter{
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: 0,
					Bytes:  disc[:],
				},
			},
		},
	}
	if key.IsZero() {
		return opt
	}

	opt.Filters = append(opt.Filters, rpc.RPCFilter{
		Memcmp: &rpc.RPCFilterMemcmp{
			Offset: offset,
			Bytes:  key[:],
		},
	})
	return opt
}

// ListPools returns every pool of the program, or only those whose token x is
// tokenX when it is not the zero key. Accounts that fail to decode are skipped.
func (c *Client) ListPools(ctx context.Context, tokenX solanago.PublicKey) (map[solanago.PublicKey]*state.Pool, error) {
	if c.rpcClient == nil {
		return nil, ErrNoRPC
	}
	opt := ProgramAccountFilter("Pool", tokenX, codec.DiscriminatorSize)
	opt.Commitment = c.commitment
	accounts, err := c.rpcClient.GetProgramAccountsWithOpts(ctx, c.programID, opt)
	if err != nil {
		return nil, err
	}
	out := make(map[solanago.PublicKey]*state.Pool, len(accounts))
	for _, acc := range accounts {
		pool, err := state.DecodePool(acc.Account.Data.GetBinary())
		if err != nil {
			c.logger.Warn("skip pool account", zap.String("pool", acc.Pubkey.String()), zap.Error(err))
			continue
		}
		out[acc.Pubkey] = pool
	}
	return out, nil
}

// SyncPool fetches a pool and its tickmap and saves both to the store.
func (c *Client) SyncPool(ctx context.Context, address solanago.PublicKey) (*state.Pool, error) {
	if c.store == nil {
		return nil, errors.New("store not configured")
	}
	pool, err := c.FetchPool(ctx, address)
	if err != nil {
		return nil, err
	}
	tickmap, err := c.FetchTickmap(ctx, pool.Tickmap)
	if err != nil {
		return nil, err
	}
	if err := c.store.SavePool(ctx, address, pool); err != nil {
		return nil, err
	}
	if err := c.store.SaveTickmap(ctx, pool.Tickmap, tickmap); err != nil {
		return nil, err
	}
	c.logger.Info("pool synced",
		zap.String("pool", address.String()),
		zap.Int32("tick", pool.CurrentTickIndex()),
		zap.String("liquidity", pool.Liquidity().String()),
	)
	return pool, nil
}
