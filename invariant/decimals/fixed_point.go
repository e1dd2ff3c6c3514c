package decimals

import (
	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"github.com/krazyTry/invariant-go/invariant/shared"
	"github.com/krazyTry/invariant-go/invariant/wide"
)

// FixedPoint is a generic fraction such as a fee rate, scaled by 10^12.
type FixedPoint struct {
	v uint128.Uint128
}

func NewFixedPoint(v uint128.Uint128) FixedPoint {
	return FixedPoint{v: v}
}

func FixedPointFromInteger(n uint64) (FixedPoint, error) {
	v, err := fromInteger(n, shared.FixedPointScale)
	if err != nil {
		return FixedPoint{}, err
	}
	u, err := narrow(v, shared.ErrArithmeticOverflow)
	return FixedPoint{u}, err
}

// FixedPointFromScale builds value / 10^scale, e.g. FixedPointFromScale(5, 1) is 0.5.
func FixedPointFromScale(value uint64, scale uint8) (FixedPoint, error) {
	v, err := fromScale(value, scale, shared.FixedPointScale)
	if err != nil {
		return FixedPoint{}, err
	}
	u, err := narrow(v, shared.ErrArithmeticOverflow)
	return FixedPoint{u}, err
}

func FixedPointFromDecimal(d Decimal) (FixedPoint, error) {
	v, err := fromDecimal(d, shared.FixedPointScale)
	if err != nil {
		return FixedPoint{}, err
	}
	u, err := narrow(v, shared.ErrUnrepresentable)
	return FixedPoint{u}, err
}

// ParseFixedPoint reads a decimal string such as "0.0005".
func ParseFixedPoint(s string) (FixedPoint, error) {
	v, err := parse(s, shared.FixedPointScale)
	if err != nil {
		return FixedPoint{}, err
	}
	u, err := narrow(v, shared.ErrArithmeticOverflow)
	return FixedPoint{u}, err
}

func FixedPointOne() FixedPoint {
	u, _ := wide.ToU128(one(shared.FixedPointScale))
	return FixedPoint{u}
}

func FixedPointAlmostOne() FixedPoint {
	return FixedPoint{FixedPointOne().v.SubWrap(uint128.From64(1))}
}

func (f FixedPoint) Get() uint128.Uint128 { return f.v }

func (FixedPoint) Scale() uint8 { return shared.FixedPointScale }

func (f FixedPoint) Wide() *uint256.Int { return wide.FromU128(f.v) }

func (FixedPoint) sealed() {}

func (f FixedPoint) IsZero() bool { return f.v.IsZero() }

func (f FixedPoint) Cmp(o FixedPoint) int { return f.v.Cmp(o.v) }

func (f FixedPoint) ToDecimal() decimal.Decimal { return toDecimal(f.v.Big(), shared.FixedPointScale) }

func (f FixedPoint) String() string { return f.ToDecimal().String() }

func (f FixedPoint) Add(o FixedPoint) (FixedPoint, error) {
	v, err := checkedAdd(f.v, o.v)
	return FixedPoint{v}, err
}

func (f FixedPoint) Sub(o FixedPoint) (FixedPoint, error) {
	v, err := checkedSub(f.v, o.v)
	return FixedPoint{v}, err
}

func (f FixedPoint) UncheckedAdd(o FixedPoint) FixedPoint { return FixedPoint{f.v.AddWrap(o.v)} }

func (f FixedPoint) UncheckedSub(o FixedPoint) FixedPoint { return FixedPoint{f.v.SubWrap(o.v)} }

func (f FixedPoint) BigMul(rhs Decimal) (FixedPoint, error) {
	return f.bigOp(bigMul, rhs, shared.RoundingDown)
}

func (f FixedPoint) BigMulUp(rhs Decimal) (FixedPoint, error) {
	return f.bigOp(bigMul, rhs, shared.RoundingUp)
}

func (f FixedPoint) BigDiv(rhs Decimal) (FixedPoint, error) {
	return f.bigOp(bigDiv, rhs, shared.RoundingDown)
}

func (f FixedPoint) BigDivUp(rhs Decimal) (FixedPoint, error) {
	return f.bigOp(bigDiv, rhs, shared.RoundingUp)
}

func (f FixedPoint) bigOp(op bigOpFunc, rhs Decimal, rounding shared.Rounding) (FixedPoint, error) {
	v, err := op(f, rhs, rounding)
	if err != nil {
		return FixedPoint{}, err
	}
	u, err := narrow(v, shared.ErrUnrepresentable)
	return FixedPoint{u}, err
}

func (f FixedPoint) MarshalWithEncoder(enc *binary.Encoder) error {
	return encode128(enc, f.v)
}

func (f *FixedPoint) UnmarshalWithDecoder(dec *binary.Decoder) error {
	v, err := decode128(dec)
	if err != nil {
		return err
	}
	f.v = v
	return nil
}
