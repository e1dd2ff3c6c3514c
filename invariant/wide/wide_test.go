package wide

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/krazyTry/invariant-go/invariant/shared"
)

func TestPow10(t *testing.T) {
	p, err := Pow10(24)
	require.NoError(t, err)
	require.Equal(t, "1000000000000000000000000", p.Dec())

	p, err = Pow10(77)
	require.NoError(t, err)
	require.Equal(t, 78, len(p.Dec()))

	_, err = Pow10(78)
	require.ErrorIs(t, err, shared.ErrArithmeticOverflow)
}

func TestNarrow(t *testing.T) {
	v := FromU128(uint128.Max)
	got, ok := ToU128(v)
	require.True(t, ok)
	require.Equal(t, uint128.Max, got)

	v.AddUint64(v, 1)
	_, ok = ToU128(v)
	require.False(t, ok)

	_, ok = ToU64(FromU128(uint128.New(0, 1)))
	require.False(t, ok)

	n, ok := ToU64(FromU64(42))
	require.True(t, ok)
	require.Equal(t, uint64(42), n)
}

func TestMulDiv(t *testing.T) {
	// 7 * 3 / 2 = 10.5
	down, err := MulDiv(uint256.NewInt(7), uint256.NewInt(3), uint256.NewInt(2), shared.RoundingDown)
	require.NoError(t, err)
	require.Equal(t, uint64(10), down.Uint64())

	up, err := MulDiv(uint256.NewInt(7), uint256.NewInt(3), uint256.NewInt(2), shared.RoundingUp)
	require.NoError(t, err)
	require.Equal(t, uint64(11), up.Uint64())

	// exact division never rounds up
	up, err = MulDiv(uint256.NewInt(8), uint256.NewInt(3), uint256.NewInt(2), shared.RoundingUp)
	require.NoError(t, err)
	require.Equal(t, uint64(12), up.Uint64())

	_, err = MulDiv(uint256.NewInt(1), uint256.NewInt(1), uint256.NewInt(0), shared.RoundingDown)
	require.ErrorIs(t, err, shared.ErrDivisionByZero)

	max := new(uint256.Int).SetAllOne()
	_, err = MulDiv(max, uint256.NewInt(2), uint256.NewInt(2), shared.RoundingDown)
	require.ErrorIs(t, err, shared.ErrArithmeticOverflow)
}

func TestAddSub(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	_, err := Add(max, uint256.NewInt(1))
	require.ErrorIs(t, err, shared.ErrArithmeticOverflow)

	_, err = Sub(uint256.NewInt(1), uint256.NewInt(2))
	require.ErrorIs(t, err, shared.ErrArithmeticOverflow)

	z, err := Sub(uint256.NewInt(5), uint256.NewInt(2))
	require.NoError(t, err)
	require.Equal(t, uint64(3), z.Uint64())
}
