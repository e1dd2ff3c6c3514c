package invariant

import (
	"context"
	"fmt"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/krazyTry/invariant-go/invariant/decimals"
	"github.com/krazyTry/invariant-go/invariant/shared"
	"github.com/krazyTry/invariant-go/invariant/staker"
	"github.com/krazyTry/invariant-go/invariant/state"
)

// CurrentTime is the block time of the latest slot at the client commitment,
// in unix seconds.
func (c *Client) CurrentTime(ctx context.Context) (int64, error) {
	if c.rpcClient == nil {
		return 0, ErrNoRPC
	}
	slot, err := c.rpcClient.GetSlot(ctx, c.commitment)
	if err != nil {
		return 0, fmt.Errorf("failed to get slot: %w", err)
	}
	blockTime, err := c.rpcClient.GetBlockTime(ctx, slot)
	if err != nil {
		return 0, fmt.Errorf("failed to get block time: %w", err)
	}
	if blockTime == nil {
		return 0, fmt.Errorf("slot %d has no block time", slot)
	}
	return blockTime.Time().Unix(), nil
}

type Reserves struct {
	X decimals.TokenAmount
	Y decimals.TokenAmount
}

// FetchReserves reads the balances of the pool's two reserve token accounts.
func (c *Client) FetchReserves(ctx context.Context, pool *state.Pool) (Reserves, error) {
	if c.rpcClient == nil {
		return Reserves{}, ErrNoRPC
	}
	accounts := []solanago.PublicKey{pool.TokenXReserve, pool.TokenYReserve}
	mints := []solanago.PublicKey{pool.TokenX, pool.TokenY}

	out, err := c.rpcClient.GetMultipleAccountsWithOpts(ctx, accounts, &rpc.GetMultipleAccountsOpts{
		Commitment: c.commitment,
		Encoding:   solanago.EncodingBase64,
	})
	if err != nil {
		return Reserves{}, err
	}
	if len(out.Value) != len(accounts) {
		return Reserves{}, fmt.Errorf("expected %d accounts, got %d", len(accounts), len(out.Value))
	}

	var amounts [2]decimals.TokenAmount
	for i, acc := range out.Value {
		if acc == nil {
			return Reserves{}, fmt.Errorf("%s: %w", accounts[i], shared.ErrAccountNotFound)
		}
		var reserve token.Account
		if err := binary.NewBinDecoder(acc.Data.GetBinary()).Decode(&reserve); err != nil {
			return Reserves{}, fmt.Errorf("%s: %w", accounts[i], err)
		}
		if !reserve.Mint.Equals(mints[i]) {
			return Reserves{}, fmt.Errorf("%s mint %s: %w", accounts[i], reserve.Mint, shared.ErrInvalidReserve)
		}
		amounts[i] = decimals.TokenAmount(reserve.Amount)
	}
	return Reserves{X: amounts[0], Y: amounts[1]}, nil
}

func (c *Client) FetchIncentive(ctx context.Context, address solanago.PublicKey) (*staker.Incentive, error) {
	return fetch(ctx, c, address, staker.DecodeIncentive)
}

// CheckIncentiveEnd loads an incentive and validates that founder may close it
// at the current chain time. It returns the reward that would go back to the
// founder; no transfer is made.
func (c *Client) CheckIncentiveEnd(ctx context.Context, address, founder solanago.PublicKey) (decimals.TokenAmount, error) {
	incentive, err := c.FetchIncentive(ctx, address)
	if err != nil {
		return 0, err
	}
	now, err := c.CurrentTime(ctx)
	if err != nil {
		return 0, err
	}
	if err := incentive.ValidateEnd(now, founder); err != nil {
		return 0, err
	}

	amount := incentive.ReturnAmount()
	c.logger.Info("incentive can end",
		zap.String("incentive", address.String()),
		zap.Int64("now", now),
		zap.Uint64("return_amount", amount.Get()),
	)
	return amount, nil
}
