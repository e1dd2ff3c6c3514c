// Package wide holds the 256-bit intermediate arithmetic used when two 128-bit
// scaled values are combined. Every operation reports overflow instead of wrapping.
package wide

import (
	"github.com/holiman/uint256"
	"lukechampine.com/uint128"

	"github.com/krazyTry/invariant-go/invariant/shared"
)

// 10^77 is the largest power of ten below 2^256.
var pow10 [78]uint256.Int

func init() {
	p := uint256.NewInt(1)
	ten := uint256.NewInt(10)
	for i := range pow10 {
		pow10[i] = *p
		p = new(uint256.Int).Mul(p, ten)
	}
}

func Pow10(n uint8) (*uint256.Int, error) {
	if int(n) >= len(pow10) {
		return nil, shared.ErrArithmeticOverflow
	}
	return new(uint256.Int).Set(&pow10[n]), nil
}

func FromU128(v uint128.Uint128) *uint256.Int {
	return &uint256.Int{v.Lo, v.Hi, 0, 0}
}

func FromU64(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

// ToU128 narrows v; ok is false when v needs more than 128 bits.
func ToU128(v *uint256.Int) (uint128.Uint128, bool) {
	if v[2] != 0 || v[3] != 0 {
		return uint128.Zero, false
	}
	return uint128.New(v[0], v[1]), true
}

func ToU64(v *uint256.Int) (uint64, bool) {
	if !v.IsUint64() {
		return 0, false
	}
	return v.Uint64(), true
}

func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, shared.ErrArithmeticOverflow
	}
	return z, nil
}

func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, shared.ErrArithmeticOverflow
	}
	return z, nil
}

func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, shared.ErrArithmeticOverflow
	}
	return z, nil
}

// Div divides x by y, rounding the quotient in the requested direction.
func Div(x, y *uint256.Int, rounding shared.Rounding) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, shared.ErrDivisionByZero
	}
	q := new(uint256.Int).Div(x, y)
	if rounding == shared.RoundingUp && !new(uint256.Int).Mod(x, y).IsZero() {
		q.AddUint64(q, 1)
	}
	return q, nil
}

// MulDiv computes x*y/denominator with a full 256-bit product.
func MulDiv(x, y, denominator *uint256.Int, rounding shared.Rounding) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, shared.ErrDivisionByZero
	}
	prod, err := Mul(x, y)
	if err != nil {
		return nil, err
	}
	return Div(prod, denominator, rounding)
}
