// Package decimals implements the scaled fixed-point types used by pools.
//
// Each type is an unsigned integer magnitude with a fixed number of implied
// decimal digits. The types are distinct on purpose; moving a value between
// them always goes through FromDecimal or one of the cross-type operations.
package decimals

import (
	bin "encoding/binary"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"github.com/krazyTry/invariant-go/invariant/shared"
	"github.com/krazyTry/invariant-go/invariant/wide"
	"github.com/krazyTry/invariant-go/u128"
)

// Decimal is implemented by every scaled type in this package.
type Decimal interface {
	// Scale is the number of implied fractional digits.
	Scale() uint8
	// Wide returns the raw magnitude widened to 256 bits.
	Wide() *uint256.Int

	sealed()
}

func one(scale uint8) *uint256.Int {
	p, err := wide.Pow10(scale)
	if err != nil {
		// Decimal is sealed and every scale constant is at most 24
		panic(err)
	}
	return p
}

func narrow(v *uint256.Int, onOverflow error) (uint128.Uint128, error) {
	u, ok := wide.ToU128(v)
	if !ok {
		return uint128.Zero, onOverflow
	}
	return u, nil
}

func narrow64(v *uint256.Int, onOverflow error) (uint64, error) {
	u, ok := wide.ToU64(v)
	if !ok {
		return 0, onOverflow
	}
	return u, nil
}

// rescale moves a raw magnitude between scales, truncating toward zero when
// digits are dropped.
func rescale(v *uint256.Int, from, to uint8) (*uint256.Int, error) {
	switch {
	case from == to:
		return new(uint256.Int).Set(v), nil
	case from > to:
		return new(uint256.Int).Div(v, one(from-to)), nil
	default:
		return wide.Mul(v, one(to-from))
	}
}

func fromInteger(n uint64, scale uint8) (*uint256.Int, error) {
	return wide.Mul(wide.FromU64(n), one(scale))
}

func fromScale(v uint64, srcScale, scale uint8) (*uint256.Int, error) {
	return rescale(wide.FromU64(v), srcScale, scale)
}

func fromDecimal(d Decimal, scale uint8) (*uint256.Int, error) {
	return rescale(d.Wide(), d.Scale(), scale)
}

type bigOpFunc func(lhs, rhs Decimal, rounding shared.Rounding) (*uint256.Int, error)

// bigMul is lhs * rhs / 10^scale(rhs), so the result keeps the scale of lhs.
func bigMul(lhs, rhs Decimal, rounding shared.Rounding) (*uint256.Int, error) {
	return wide.MulDiv(lhs.Wide(), rhs.Wide(), one(rhs.Scale()), rounding)
}

// bigDiv is lhs * 10^scale(rhs) / rhs, so the result keeps the scale of lhs.
func bigDiv(lhs, rhs Decimal, rounding shared.Rounding) (*uint256.Int, error) {
	return wide.MulDiv(lhs.Wide(), one(rhs.Scale()), rhs.Wide(), rounding)
}

func checkedAdd(a, b uint128.Uint128) (uint128.Uint128, error) {
	sum := a.AddWrap(b)
	if sum.Cmp(a) < 0 {
		return uint128.Zero, shared.ErrArithmeticOverflow
	}
	return sum, nil
}

func checkedSub(a, b uint128.Uint128) (uint128.Uint128, error) {
	if b.Cmp(a) > 0 {
		return uint128.Zero, shared.ErrArithmeticOverflow
	}
	return a.SubWrap(b), nil
}

// parse reads a non-negative decimal string at the given scale. Digits past
// the scale are truncated.
func parse(s string, scale uint8) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%s: %w", s, shared.ErrUnrepresentable)
	}
	v, overflow := uint256.FromBig(d.Shift(int32(scale)).Truncate(0).BigInt())
	if overflow {
		return nil, shared.ErrArithmeticOverflow
	}
	return v, nil
}

func toDecimal(v *big.Int, scale uint8) decimal.Decimal {
	return decimal.NewFromBigInt(v, -int32(scale))
}

func encode128(enc *binary.Encoder, v uint128.Uint128) error {
	return enc.WriteUint128(u128.ToBinary(v), bin.LittleEndian)
}

func decode128(dec *binary.Decoder) (uint128.Uint128, error) {
	v, err := dec.ReadUint128(bin.LittleEndian)
	if err != nil {
		return uint128.Zero, err
	}
	return u128.FromBinary(v), nil
}
