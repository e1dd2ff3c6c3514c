package state

import (
	"fmt"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/invariant-go/invariant/codec"
	"github.com/krazyTry/invariant-go/invariant/decimals"
	"github.com/krazyTry/invariant-go/invariant/math"
	"github.com/krazyTry/invariant-go/invariant/shared"
)

const poolAccount = "Pool"

// Pool is the persisted state of one token pair under one fee tier.
//
// Liquidity, price and fee growth are reachable only through methods so that
// every change goes through the checked update paths below.
type Pool struct {
	TokenX           solanago.PublicKey
	TokenY           solanago.PublicKey
	TokenXReserve    solanago.PublicKey
	TokenYReserve    solanago.PublicKey
	PositionIterator uint64
	TickSpacing      uint16
	Fee              decimals.FixedPoint
	ProtocolFee      decimals.FixedPoint

	liquidity        decimals.Liquidity
	sqrtPrice        decimals.Price
	currentTickIndex int32

	Tickmap solanago.PublicKey

	feeGrowthGlobalX  decimals.FeeGrowth
	feeGrowthGlobalY  decimals.FeeGrowth
	feeProtocolTokenX decimals.TokenAmount
	feeProtocolTokenY decimals.TokenAmount

	Bump        uint8
	Nonce       uint8
	Authority   solanago.PublicKey
	FeeReceiver solanago.PublicKey
}

// PoolParams are the accounts and arguments a pool is created from.
type PoolParams struct {
	TokenX        solanago.PublicKey
	TokenY        solanago.PublicKey
	TokenXReserve solanago.PublicKey
	TokenYReserve solanago.PublicKey
	Tickmap       solanago.PublicKey
	Authority     solanago.PublicKey
	FeeReceiver   solanago.PublicKey
	FeeTier       FeeTier
	InitTick      int32
	Bump          uint8
	Nonce         uint8
}

// DefaultProtocolFee is the share of every swap fee kept by the protocol.
func DefaultProtocolFee() decimals.FixedPoint {
	f, _ := decimals.FixedPointFromScale(1, 1)
	return f
}

// NewPool builds a pool with zero liquidity at the price of InitTick.
func NewPool(p PoolParams) (*Pool, error) {
	spacing := p.FeeTier.TickSpacing
	if err := validateSpacing(spacing); err != nil {
		return nil, err
	}
	if p.InitTick%int32(spacing) != 0 {
		return nil, fmt.Errorf("init tick %d spacing %d: %w", p.InitTick, spacing, shared.ErrTickNotAligned)
	}
	sqrtPrice, err := math.CalculatePriceSqrt(p.InitTick)
	if err != nil {
		return nil, fmt.Errorf("init tick %d: %w", p.InitTick, err)
	}
	return &Pool{
		TokenX:           p.TokenX,
		TokenY:           p.TokenY,
		TokenXReserve:    p.TokenXReserve,
		TokenYReserve:    p.TokenYReserve,
		TickSpacing:      spacing,
		Fee:              p.FeeTier.Fee,
		ProtocolFee:      DefaultProtocolFee(),
		sqrtPrice:        sqrtPrice,
		currentTickIndex: p.InitTick,
		Tickmap:          p.Tickmap,
		Bump:             p.Bump,
		Nonce:            p.Nonce,
		Authority:        p.Authority,
		FeeReceiver:      p.FeeReceiver,
	}, nil
}

func (p *Pool) Liquidity() decimals.Liquidity { return p.liquidity }

func (p *Pool) SqrtPrice() decimals.Price { return p.sqrtPrice }

// CurrentTickIndex is the nearest tick at or below the current price.
func (p *Pool) CurrentTickIndex() int32 { return p.currentTickIndex }

func (p *Pool) FeeGrowthGlobalX() decimals.FeeGrowth { return p.feeGrowthGlobalX }

func (p *Pool) FeeGrowthGlobalY() decimals.FeeGrowth { return p.feeGrowthGlobalY }

func (p *Pool) FeeProtocolTokenX() decimals.TokenAmount { return p.feeProtocolTokenX }

func (p *Pool) FeeProtocolTokenY() decimals.TokenAmount { return p.feeProtocolTokenY }

// AddFee spreads amount over the pool's liquidity by raising the global fee
// growth of token X or token Y. Zero amount or zero liquidity is a no-op.
func (p *Pool) AddFee(amount decimals.TokenAmount, inX bool) error {
	if amount.IsZero() || p.liquidity.IsZero() {
		return nil
	}
	growth, err := decimals.FeeGrowthFromFee(p.liquidity, amount)
	if err != nil {
		return err
	}
	if inX {
		next, err := p.feeGrowthGlobalX.Add(growth)
		if err != nil {
			return err
		}
		p.feeGrowthGlobalX = next
		return nil
	}
	next, err := p.feeGrowthGlobalY.Add(growth)
	if err != nil {
		return err
	}
	p.feeGrowthGlobalY = next
	return nil
}

// AddProtocolFee records amount as owed to the protocol.
func (p *Pool) AddProtocolFee(amount decimals.TokenAmount, inX bool) error {
	if inX {
		next, err := p.feeProtocolTokenX.Add(amount)
		if err != nil {
			return err
		}
		p.feeProtocolTokenX = next
		return nil
	}
	next, err := p.feeProtocolTokenY.Add(amount)
	if err != nil {
		return err
	}
	p.feeProtocolTokenY = next
	return nil
}

// UpdateLiquiditySafely adds or removes delta. Removing more than the pool
// holds fails with ErrInvalidPoolLiquidity and leaves the pool unchanged.
func (p *Pool) UpdateLiquiditySafely(delta decimals.Liquidity, add bool) error {
	if !add && p.liquidity.Cmp(delta) < 0 {
		return shared.ErrInvalidPoolLiquidity
	}
	var (
		next decimals.Liquidity
		err  error
	)
	if add {
		next, err = p.liquidity.Add(delta)
	} else {
		next, err = p.liquidity.Sub(delta)
	}
	if err != nil {
		return err
	}
	p.liquidity = next
	return nil
}

func (p *Pool) MarshalWithEncoder(enc *binary.Encoder) error {
	e := codec.NewWriter(enc)
	e.Key(p.TokenX)
	e.Key(p.TokenY)
	e.Key(p.TokenXReserve)
	e.Key(p.TokenYReserve)
	e.U64(p.PositionIterator)
	e.U16(p.TickSpacing)
	e.Value(p.Fee)
	e.Value(p.ProtocolFee)
	e.Value(p.liquidity)
	e.Value(p.sqrtPrice)
	e.I32(p.currentTickIndex)
	e.Key(p.Tickmap)
	e.Value(p.feeGrowthGlobalX)
	e.Value(p.feeGrowthGlobalY)
	e.Value(p.feeProtocolTokenX)
	e.Value(p.feeProtocolTokenY)
	e.U8(p.Bump)
	e.U8(p.Nonce)
	e.Key(p.Authority)
	e.Key(p.FeeReceiver)
	return e.Err()
}

func (p *Pool) UnmarshalWithDecoder(dec *binary.Decoder) error {
	d := codec.NewReader(dec)
	d.Key(&p.TokenX)
	d.Key(&p.TokenY)
	d.Key(&p.TokenXReserve)
	d.Key(&p.TokenYReserve)
	d.U64(&p.PositionIterator)
	d.U16(&p.TickSpacing)
	d.Value(&p.Fee)
	d.Value(&p.ProtocolFee)
	d.Value(&p.liquidity)
	d.Value(&p.sqrtPrice)
	d.I32(&p.currentTickIndex)
	d.Key(&p.Tickmap)
	d.Value(&p.feeGrowthGlobalX)
	d.Value(&p.feeGrowthGlobalY)
	d.Value(&p.feeProtocolTokenX)
	d.Value(&p.feeProtocolTokenY)
	d.U8(&p.Bump)
	d.U8(&p.Nonce)
	d.Key(&p.Authority)
	d.Key(&p.FeeReceiver)
	return d.Err()
}

// Encode returns the pool account data.
func (p *Pool) Encode() ([]byte, error) {
	return codec.Encode(poolAccount, p)
}

func DecodePool(data []byte) (*Pool, error) {
	p := new(Pool)
	if err := codec.Decode(poolAccount, data, p); err != nil {
		return nil, err
	}
	return p, nil
}

// PoolSize is the encoded length of a pool including its discriminator.
const PoolSize = codec.DiscriminatorSize + 4*32 + 8 + 2 + 16*4 + 4 + 32 + 16*2 + 8*2 + 1 + 1 + 32 + 32
