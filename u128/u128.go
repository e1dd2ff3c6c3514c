package u128

import (
	bin "encoding/binary"
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"lukechampine.com/uint128"
)

var (
	errNegative = errors.New("value cannot be negative")
	errOverflow = errors.New("value overflows Uint128")
)

type scanner uint128.Uint128

func (u *scanner) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	}
	v, err := FromBig(i)
	if err != nil {
		return err
	}
	*u = scanner(v)
	return nil
}

// Parse reads a base-10 string into a Uint128.
func Parse(num string) (uint128.Uint128, error) {
	var u scanner
	if _, err := fmt.Sscan(num, &u); err != nil {
		return uint128.Zero, err
	}
	return uint128.Uint128(u), nil
}

// MustParse is Parse for package-level constants and fixtures.
func MustParse(num string) uint128.Uint128 {
	u, err := Parse(num)
	if err != nil {
		panic(err)
	}
	return u
}

func FromBig(i *big.Int) (uint128.Uint128, error) {
	if i.Sign() < 0 {
		return uint128.Zero, errNegative
	} else if i.BitLen() > 128 {
		return uint128.Zero, errOverflow
	}
	lo := new(big.Int).And(i, new(big.Int).SetUint64(^uint64(0))).Uint64()
	hi := new(big.Int).Rsh(i, 64).Uint64()
	return uint128.New(lo, hi), nil
}

// ToBinary converts to the little-endian wire representation.
func ToBinary(v uint128.Uint128) binary.Uint128 {
	return binary.Uint128{Lo: v.Lo, Hi: v.Hi, Endianness: bin.LittleEndian}
}

func FromBinary(v binary.Uint128) uint128.Uint128 {
	return uint128.New(v.Lo, v.Hi)
}
