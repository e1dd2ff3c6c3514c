package decimals

import (
	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"github.com/krazyTry/invariant-go/invariant/shared"
	"github.com/krazyTry/invariant-go/invariant/wide"
)

// Liquidity measures pool depth, scaled by 10^6.
type Liquidity struct {
	v uint128.Uint128
}

func NewLiquidity(v uint128.Uint128) Liquidity {
	return Liquidity{v: v}
}

func LiquidityFromInteger(n uint64) (Liquidity, error) {
	v, err := fromInteger(n, shared.LiquidityScale)
	if err != nil {
		return Liquidity{}, err
	}
	u, err := narrow(v, shared.ErrArithmeticOverflow)
	return Liquidity{u}, err
}

// LiquidityFromScale builds value / 10^scale, e.g. LiquidityFromScale(5, 1) is 0.5.
func LiquidityFromScale(value uint64, scale uint8) (Liquidity, error) {
	v, err := fromScale(value, scale, shared.LiquidityScale)
	if err != nil {
		return Liquidity{}, err
	}
	u, err := narrow(v, shared.ErrArithmeticOverflow)
	return Liquidity{u}, err
}

func LiquidityFromDecimal(d Decimal) (Liquidity, error) {
	v, err := fromDecimal(d, shared.LiquidityScale)
	if err != nil {
		return Liquidity{}, err
	}
	u, err := narrow(v, shared.ErrUnrepresentable)
	return Liquidity{u}, err
}

func ParseLiquidity(s string) (Liquidity, error) {
	v, err := parse(s, shared.LiquidityScale)
	if err != nil {
		return Liquidity{}, err
	}
	u, err := narrow(v, shared.ErrArithmeticOverflow)
	return Liquidity{u}, err
}

func LiquidityOne() Liquidity {
	u, _ := wide.ToU128(one(shared.LiquidityScale))
	return Liquidity{u}
}

func LiquidityAlmostOne() Liquidity {
	return Liquidity{LiquidityOne().v.SubWrap(uint128.From64(1))}
}

func (l Liquidity) Get() uint128.Uint128 { return l.v }

func (Liquidity) Scale() uint8 { return shared.LiquidityScale }

func (l Liquidity) Wide() *uint256.Int { return wide.FromU128(l.v) }

func (Liquidity) sealed() {}

func (l Liquidity) IsZero() bool { return l.v.IsZero() }

func (l Liquidity) Cmp(o Liquidity) int { return l.v.Cmp(o.v) }

func (l Liquidity) ToDecimal() decimal.Decimal { return toDecimal(l.v.Big(), shared.LiquidityScale) }

func (l Liquidity) String() string { return l.ToDecimal().String() }

func (l Liquidity) Add(o Liquidity) (Liquidity, error) {
	v, err := checkedAdd(l.v, o.v)
	return Liquidity{v}, err
}

func (l Liquidity) Sub(o Liquidity) (Liquidity, error) {
	v, err := checkedSub(l.v, o.v)
	return Liquidity{v}, err
}

func (l Liquidity) UncheckedAdd(o Liquidity) Liquidity { return Liquidity{l.v.AddWrap(o.v)} }

func (l Liquidity) UncheckedSub(o Liquidity) Liquidity { return Liquidity{l.v.SubWrap(o.v)} }

func (l Liquidity) BigMul(rhs Decimal) (Liquidity, error) {
	return l.bigOp(bigMul, rhs, shared.RoundingDown)
}

func (l Liquidity) BigMulUp(rhs Decimal) (Liquidity, error) {
	return l.bigOp(bigMul, rhs, shared.RoundingUp)
}

func (l Liquidity) BigDiv(rhs Decimal) (Liquidity, error) {
	return l.bigOp(bigDiv, rhs, shared.RoundingDown)
}

func (l Liquidity) BigDivUp(rhs Decimal) (Liquidity, error) {
	return l.bigOp(bigDiv, rhs, shared.RoundingUp)
}

func (l Liquidity) bigOp(op bigOpFunc, rhs Decimal, rounding shared.Rounding) (Liquidity, error) {
	v, err := op(l, rhs, rounding)
	if err != nil {
		return Liquidity{}, err
	}
	u, err := narrow(v, shared.ErrUnrepresentable)
	return Liquidity{u}, err
}

func (l Liquidity) MarshalWithEncoder(enc *binary.Encoder) error {
	return encode128(enc, l.v)
}

func (l *Liquidity) UnmarshalWithDecoder(dec *binary.Decoder) error {
	v, err := decode128(dec)
	if err != nil {
		return err
	}
	l.v = v
	return nil
}
