package decimals

import (
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"github.com/krazyTry/invariant-go/invariant/shared"
	"github.com/krazyTry/invariant-go/invariant/wide"
)

// FeeGrowth is fee accrued per unit of liquidity, scaled by 10^24.
type FeeGrowth struct {
	v uint128.Uint128
}

func NewFeeGrowth(v uint128.Uint128) FeeGrowth {
	return FeeGrowth{v: v}
}

func FeeGrowthFromInteger(n uint64) (FeeGrowth, error) {
	v, err := fromInteger(n, shared.FeeGrowthScale)
	if err != nil {
		return FeeGrowth{}, err
	}
	u, err := narrow(v, shared.ErrArithmeticOverflow)
	return FeeGrowth{u}, err
}

// FeeGrowthFromScale builds value / 10^scale, e.g. FeeGrowthFromScale(5, 1) is 0.5.
func FeeGrowthFromScale(value uint64, scale uint8) (FeeGrowth, error) {
	v, err := fromScale(value, scale, shared.FeeGrowthScale)
	if err != nil {
		return FeeGrowth{}, err
	}
	u, err := narrow(v, shared.ErrArithmeticOverflow)
	return FeeGrowth{u}, err
}

func FeeGrowthFromDecimal(d Decimal) (FeeGrowth, error) {
	v, err := fromDecimal(d, shared.FeeGrowthScale)
	if err != nil {
		return FeeGrowth{}, err
	}
	u, err := narrow(v, shared.ErrUnrepresentable)
	return FeeGrowth{u}, err
}

func FeeGrowthOne() FeeGrowth {
	u, _ := wide.ToU128(one(shared.FeeGrowthScale))
	return FeeGrowth{u}
}

func FeeGrowthAlmostOne() FeeGrowth {
	return FeeGrowth{FeeGrowthOne().v.SubWrap(uint128.From64(1))}
}

func (g FeeGrowth) Get() uint128.Uint128 { return g.v }

func (FeeGrowth) Scale() uint8 { return shared.FeeGrowthScale }

func (g FeeGrowth) Wide() *uint256.Int { return wide.FromU128(g.v) }

func (FeeGrowth) sealed() {}

func (g FeeGrowth) IsZero() bool { return g.v.IsZero() }

func (g FeeGrowth) Cmp(o FeeGrowth) int { return g.v.Cmp(o.v) }

func (g FeeGrowth) ToDecimal() decimal.Decimal { return toDecimal(g.v.Big(), shared.FeeGrowthScale) }

func (g FeeGrowth) String() string { return g.ToDecimal().String() }

func (g FeeGrowth) Add(o FeeGrowth) (FeeGrowth, error) {
	v, err := checkedAdd(g.v, o.v)
	return FeeGrowth{v}, err
}

func (g FeeGrowth) Sub(o FeeGrowth) (FeeGrowth, error) {
	v, err := checkedSub(g.v, o.v)
	return FeeGrowth{v}, err
}

func (g FeeGrowth) UncheckedAdd(o FeeGrowth) FeeGrowth { return FeeGrowth{g.v.AddWrap(o.v)} }

func (g FeeGrowth) UncheckedSub(o FeeGrowth) FeeGrowth { return FeeGrowth{g.v.SubWrap(o.v)} }

func (g FeeGrowth) BigMul(rhs Decimal) (FeeGrowth, error) {
	return g.bigOp(bigMul, rhs, shared.RoundingDown)
}

func (g FeeGrowth) BigMulUp(rhs Decimal) (FeeGrowth, error) {
	return g.bigOp(bigMul, rhs, shared.RoundingUp)
}

func (g FeeGrowth) BigDiv(rhs Decimal) (FeeGrowth, error) {
	return g.bigOp(bigDiv, rhs, shared.RoundingDown)
}

func (g FeeGrowth) BigDivUp(rhs Decimal) (FeeGrowth, error) {
	return g.bigOp(bigDiv, rhs, shared.RoundingUp)
}

func (g FeeGrowth) bigOp(op bigOpFunc, rhs Decimal, rounding shared.Rounding) (FeeGrowth, error) {
	v, err := op(g, rhs, rounding)
	if err != nil {
		return FeeGrowth{}, err
	}
	u, err := narrow(v, shared.ErrUnrepresentable)
	return FeeGrowth{u}, err
}

func (g FeeGrowth) MarshalWithEncoder(enc *binary.Encoder) error {
	return encode128(enc, g.v)
}

func (g *FeeGrowth) UnmarshalWithDecoder(dec *binary.Decoder) error {
	v, err := decode128(dec)
	if err != nil {
		return err
	}
	g.v = v
	return nil
}

// toFeeExponent is the number of digits dropped when growth * liquidity is
// expressed as a FixedPoint. A negative value fails to compile below.
const toFeeExponent = int(shared.FeeGrowthScale) + int(shared.LiquidityScale) - int(shared.FixedPointScale)

var _ [toFeeExponent]struct{}

// FeeGrowthFromFee is the fee accrued per unit of liquidity present when fee
// was collected: fee * 10^24 * 10^6 / liquidity, rounded down.
func FeeGrowthFromFee(liquidity Liquidity, fee TokenAmount) (FeeGrowth, error) {
	if liquidity.IsZero() {
		return FeeGrowth{}, shared.ErrDivisionByZero
	}
	v, err := wide.Mul(fee.Wide(), one(shared.FeeGrowthScale))
	if err != nil {
		return FeeGrowth{}, err
	}
	v, err = wide.MulDiv(v, one(shared.LiquidityScale), liquidity.Wide(), shared.RoundingDown)
	if err != nil {
		return FeeGrowth{}, err
	}
	u, err := narrow(v, shared.ErrUnrepresentable)
	return FeeGrowth{u}, err
}

// ToFee is the total fee owed to liquidity for growth g, as a FixedPoint.
func (g FeeGrowth) ToFee(liquidity Liquidity) (FixedPoint, error) {
	v, err := wide.MulDiv(g.Wide(), liquidity.Wide(), one(uint8(toFeeExponent)), shared.RoundingDown)
	if err != nil {
		return FixedPoint{}, err
	}
	u, err := narrow(v, shared.ErrUnrepresentable)
	if err != nil {
		return FixedPoint{}, fmt.Errorf("fee growth %s to fee: %w", g, err)
	}
	return FixedPoint{u}, nil
}
