package decimals

import (
	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"github.com/krazyTry/invariant-go/invariant/shared"
	"github.com/krazyTry/invariant-go/invariant/wide"
)

// Price is the square root of the token Y / token X exchange rate, scaled by 10^24.
type Price struct {
	v uint128.Uint128
}

func NewPrice(v uint128.Uint128) Price {
	return Price{v: v}
}

func PriceFromInteger(n uint64) (Price, error) {
	v, err := fromInteger(n, shared.PriceScale)
	if err != nil {
		return Price{}, err
	}
	u, err := narrow(v, shared.ErrArithmeticOverflow)
	return Price{u}, err
}

// PriceFromScale builds value / 10^scale, e.g. PriceFromScale(5, 1) is 0.5.
func PriceFromScale(value uint64, scale uint8) (Price, error) {
	v, err := fromScale(value, scale, shared.PriceScale)
	if err != nil {
		return Price{}, err
	}
	u, err := narrow(v, shared.ErrArithmeticOverflow)
	return Price{u}, err
}

func PriceFromDecimal(d Decimal) (Price, error) {
	v, err := fromDecimal(d, shared.PriceScale)
	if err != nil {
		return Price{}, err
	}
	u, err := narrow(v, shared.ErrUnrepresentable)
	return Price{u}, err
}

func PriceOne() Price {
	u, _ := wide.ToU128(one(shared.PriceScale))
	return Price{u}
}

func PriceAlmostOne() Price {
	return Price{PriceOne().v.SubWrap(uint128.From64(1))}
}

func (p Price) Get() uint128.Uint128 { return p.v }

func (Price) Scale() uint8 { return shared.PriceScale }

func (p Price) Wide() *uint256.Int { return wide.FromU128(p.v) }

func (Price) sealed() {}

func (p Price) IsZero() bool { return p.v.IsZero() }

func (p Price) Cmp(o Price) int { return p.v.Cmp(o.v) }

func (p Price) ToDecimal() decimal.Decimal { return toDecimal(p.v.Big(), shared.PriceScale) }

func (p Price) String() string { return p.ToDecimal().String() }

func (p Price) Add(o Price) (Price, error) {
	v, err := checkedAdd(p.v, o.v)
	return Price{v}, err
}

func (p Price) Sub(o Price) (Price, error) {
	v, err := checkedSub(p.v, o.v)
	return Price{v}, err
}

func (p Price) UncheckedAdd(o Price) Price { return Price{p.v.AddWrap(o.v)} }

func (p Price) UncheckedSub(o Price) Price { return Price{p.v.SubWrap(o.v)} }

func (p Price) BigMul(rhs Decimal) (Price, error) {
	return p.bigOp(bigMul, rhs, shared.RoundingDown)
}

func (p Price) BigMulUp(rhs Decimal) (Price, error) {
	return p.bigOp(bigMul, rhs, shared.RoundingUp)
}

func (p Price) BigDiv(rhs Decimal) (Price, error) {
	return p.bigOp(bigDiv, rhs, shared.RoundingDown)
}

func (p Price) BigDivUp(rhs Decimal) (Price, error) {
	return p.bigOp(bigDiv, rhs, shared.RoundingUp)
}

func (p Price) bigOp(op bigOpFunc, rhs Decimal, rounding shared.Rounding) (Price, error) {
	v, err := op(p, rhs, rounding)
	if err != nil {
		return Price{}, err
	}
	u, err := narrow(v, shared.ErrUnrepresentable)
	return Price{u}, err
}

// BigMulToValue is p * rhs / 10^scale(rhs) left in 256 bits.
func (p Price) BigMulToValue(rhs Decimal) (*uint256.Int, error) {
	return bigMul(p, rhs, shared.RoundingDown)
}

func (p Price) BigMulToValueUp(rhs Decimal) (*uint256.Int, error) {
	return bigMul(p, rhs, shared.RoundingUp)
}

// PriceBigDivValuesToToken computes nominator / denominator as a token amount,
// where nominator is a price-scaled 256-bit value. ok is false when the
// extended nominator overflows or the amount does not fit in 64 bits.
//
// ceil(log2(max_nominator)) = 224, the smallest denominator is 232835005780624.
func PriceBigDivValuesToToken(nominator, denominator *uint256.Int) (TokenAmount, bool) {
	extended, err := wide.Mul(nominator, one(shared.PriceScale))
	if err != nil {
		return 0, false
	}
	q, err := wide.Div(extended, denominator, shared.RoundingDown)
	if err != nil {
		return 0, false
	}
	q, _ = wide.Div(q, one(shared.PriceScale), shared.RoundingDown)
	amount, ok := wide.ToU64(q)
	if !ok {
		return 0, false
	}
	return TokenAmount(amount), true
}

func PriceBigDivValuesToTokenUp(nominator, denominator *uint256.Int) (TokenAmount, bool) {
	extended, err := wide.Mul(nominator, one(shared.PriceScale))
	if err != nil {
		return 0, false
	}
	q, err := wide.Div(extended, denominator, shared.RoundingUp)
	if err != nil {
		return 0, false
	}
	q, _ = wide.Div(q, one(shared.PriceScale), shared.RoundingUp)
	amount, ok := wide.ToU64(q)
	if !ok {
		return 0, false
	}
	return TokenAmount(amount), true
}

// PriceBigDivValuesUp computes nominator / denominator rounded up as a Price.
func PriceBigDivValuesUp(nominator, denominator *uint256.Int) (Price, error) {
	extended, err := wide.Mul(nominator, one(shared.PriceScale))
	if err != nil {
		return Price{}, err
	}
	q, err := wide.Div(extended, denominator, shared.RoundingUp)
	if err != nil {
		return Price{}, err
	}
	u, err := narrow(q, shared.ErrUnrepresentable)
	return Price{u}, err
}

func (p Price) MarshalWithEncoder(enc *binary.Encoder) error {
	return encode128(enc, p.v)
}

func (p *Price) UnmarshalWithDecoder(dec *binary.Decoder) error {
	v, err := decode128(dec)
	if err != nil {
		return err
	}
	p.v = v
	return nil
}
