// Package invariant wires the pool core to addresses, persistence and an RPC
// node.
package invariant

import (
	"context"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/krazyTry/invariant-go/invariant/decimals"
	"github.com/krazyTry/invariant-go/invariant/shared"
	"github.com/krazyTry/invariant-go/invariant/state"
	"github.com/krazyTry/invariant-go/storage"
)

type Client struct {
	rpcClient  *rpc.Client
	commitment rpc.CommitmentType
	store      storage.PoolStore
	logger     *zap.Logger
	programID  solanago.PublicKey
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		commitment: rpc.CommitmentFinalized,
		logger:     zap.NewNop(),
		programID:  ProgramID,
	}
	for _, fn := range opts {
		fn(c)
	}
	return c
}

type Option func(*Client)

func WithRPC(rpcClient *rpc.Client) Option {
	return func(c *Client) {
		c.rpcClient = rpcClient
	}
}

func WithCommitment(commitment rpc.CommitmentType) Option {
	return func(c *Client) {
		c.commitment = commitment
	}
}

func WithStore(store storage.PoolStore) Option {
	return func(c *Client) {
		c.store = store
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithProgramID(programID solanago.PublicKey) Option {
	return func(c *Client) {
		c.programID = programID
	}
}

func (c *Client) ProgramID() solanago.PublicKey { return c.programID }

type CreatePoolParams struct {
	TokenX        solanago.PublicKey
	TokenY        solanago.PublicKey
	TokenXReserve solanago.PublicKey
	TokenYReserve solanago.PublicKey
	// Tickmap is the account that will hold the tick bitmap.
	Tickmap     solanago.PublicKey
	FeeReceiver solanago.PublicKey
	FeeTier     state.FeeTier
	InitTick    int32
	Nonce       uint8
}

type CreatedPool struct {
	Address        solanago.PublicKey
	FeeTierAddress solanago.PublicKey
	Pool           *state.Pool
	Tickmap        *state.Tickmap
}

// CreatePool derives the pool address and builds the pool and its empty
// tickmap. When a store is configured both records are saved.
func (c *Client) CreatePool(ctx context.Context, p CreatePoolParams) (*CreatedPool, error) {
	if p.FeeTier.Fee.Cmp(decimals.FixedPointOne()) >= 0 {
		return nil, fmt.Errorf("fee %s: %w", p.FeeTier.Fee, shared.ErrInvalidFeeTier)
	}
	if x, _ := SortTokens(p.TokenX, p.TokenY); !x.Equals(p.TokenX) || p.TokenX.Equals(p.TokenY) {
		return nil, shared.ErrInvalidTokenOrder
	}

	feeTierAddress, _, err := DeriveFeeTierAddress(c.programID, p.FeeTier.Fee, p.FeeTier.TickSpacing)
	if err != nil {
		return nil, fmt.Errorf("derive fee tier: %w", err)
	}
	address, bump, err := DerivePoolAddress(c.programID, feeTierAddress, p.TokenX, p.TokenY)
	if err != nil {
		return nil, fmt.Errorf("derive pool: %w", err)
	}
	authority, _, err := DeriveProgramAuthority(c.programID)
	if err != nil {
		return nil, fmt.Errorf("derive authority: %w", err)
	}

	pool, err := state.NewPool(state.PoolParams{
		TokenX:        p.TokenX,
		TokenY:        p.TokenY,
		TokenXReserve: p.TokenXReserve,
		TokenYReserve: p.TokenYReserve,
		Tickmap:       p.Tickmap,
		Authority:     authority,
		FeeReceiver:   p.FeeReceiver,
		FeeTier:       p.FeeTier,
		InitTick:      p.InitTick,
		Bump:          bump,
		Nonce:         p.Nonce,
	})
	if err != nil {
		return nil, err
	}
	tickmap, err := state.NewTickmap(p.FeeTier.TickSpacing)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		if err := c.store.SavePool(ctx, address, pool); err != nil {
			return nil, fmt.Errorf("save pool: %w", err)
		}
		if err := c.store.SaveTickmap(ctx, p.Tickmap, tickmap); err != nil {
			return nil, fmt.Errorf("save tickmap: %w", err)
		}
	}

	c.logger.Info("pool created",
		zap.String("pool", address.String()),
		zap.String("fee_tier", feeTierAddress.String()),
		zap.Int32("tick", p.InitTick),
		zap.Uint16("tick_spacing", p.FeeTier.TickSpacing),
		zap.String("sqrt_price", pool.SqrtPrice().String()),
	)

	return &CreatedPool{
		Address:        address,
		FeeTierAddress: feeTierAddress,
		Pool:           pool,
		Tickmap:        tickmap,
	}, nil
}

// AccrueFee charges a swap fee of amount to the pool. The protocol share,
// amount times the pool's protocol fee rounded down, is owed to the protocol
// and the rest is spread over liquidity providers. The pool is left unchanged
// if either step fails.
func (c *Client) AccrueFee(pool *state.Pool, amount decimals.TokenAmount, inX bool) error {
	protocol, err := amount.BigMul(pool.ProtocolFee)
	if err != nil {
		return err
	}
	providers, err := amount.Sub(protocol)
	if err != nil {
		return err
	}

	next := *pool
	if err := next.AddProtocolFee(protocol, inX); err != nil {
		return err
	}
	if err := next.AddFee(providers, inX); err != nil {
		return err
	}
	*pool = next

	c.logger.Debug("fee accrued",
		zap.Uint64("amount", amount.Get()),
		zap.Uint64("protocol", protocol.Get()),
		zap.Bool("x", inX),
	)
	return nil
}

// ChangeFeeReceiver points the pool's protocol fees at receiver. Only the
// program admin may do it.
func (c *Client) ChangeFeeReceiver(st *state.State, pool *state.Pool, admin, receiver solanago.PublicKey) error {
	if !st.Admin.Equals(admin) {
		return fmt.Errorf("%s: %w", admin, shared.ErrInvalidAdmin)
	}
	if !st.Authority.Equals(pool.Authority) {
		return fmt.Errorf("%s: %w", pool.Authority, shared.ErrInvalidAuthority)
	}
	pool.FeeReceiver = receiver

	c.logger.Info("fee receiver changed",
		zap.String("receiver", receiver.String()),
		zap.String("token_x", pool.TokenX.String()),
		zap.String("token_y", pool.TokenY.String()),
	)
	return nil
}
