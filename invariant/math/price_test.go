package math

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krazyTry/invariant-go/invariant/decimals"
	"github.com/krazyTry/invariant-go/invariant/shared"
	"github.com/krazyTry/invariant-go/u128"
)

func TestCalculatePriceSqrt(t *testing.T) {
	cases := []struct {
		tick int32
		want string
	}{
		{0, "1000000000000000000000000"},
		{1, "1000049998750000000000000"},
		{-1, "999950003749000000000000"},
		{100, "1005012269622000000000000"},
		{shared.MaxTick, "65535383934512647000000000000"},
		{-shared.MaxTick, "15258932000000000000"},
	}
	for _, c := range cases {
		got, err := CalculatePriceSqrt(c.tick)
		require.NoError(t, err)
		require.Equal(t, decimals.NewPrice(u128.MustParse(c.want)), got, "tick %d", c.tick)
	}
}

func TestCalculatePriceSqrtOutOfBounds(t *testing.T) {
	_, err := CalculatePriceSqrt(shared.MaxTick + 1)
	require.ErrorIs(t, err, shared.ErrTickOutOfBounds)

	_, err = CalculatePriceSqrt(-shared.MaxTick - 1)
	require.ErrorIs(t, err, shared.ErrTickOutOfBounds)
}

func TestCalculatePriceSqrtMonotonic(t *testing.T) {
	prev, err := CalculatePriceSqrt(-shared.MaxTick)
	require.NoError(t, err)

	for tick := -shared.MaxTick + 1; tick <= shared.MaxTick; tick += 37 {
		cur, err := CalculatePriceSqrt(tick)
		require.NoError(t, err)
		require.Equal(t, 1, cur.Cmp(prev), "tick %d", tick)
		prev = cur
	}

	// neighbours around zero and both ends
	for _, tick := range []int32{-shared.MaxTick, -2, -1, 0, 1, shared.MaxTick - 1} {
		lo, err := CalculatePriceSqrt(tick)
		require.NoError(t, err)
		hi, err := CalculatePriceSqrt(tick + 1)
		require.NoError(t, err)
		require.Equal(t, 1, hi.Cmp(lo), "tick %d", tick)
	}
}

func TestPriceOverflow(t *testing.T) {
	// max
	{
		maxSqrtPrice, err := CalculatePriceSqrt(shared.MaxTick)
		require.NoError(t, err)

		result, err := maxSqrtPrice.BigMulToValue(maxSqrtPrice)
		require.NoError(t, err)
		resultUp, err := maxSqrtPrice.BigMulToValueUp(maxSqrtPrice)
		require.NoError(t, err)

		require.Equal(t, "4294886547443978352291489402946609", result.Dec())
		require.Equal(t, "4294886547443978352291489402946609", resultUp.Dec())
	}
	// min
	{
		minSqrtPrice, err := CalculatePriceSqrt(-shared.MaxTick)
		require.NoError(t, err)

		result, err := minSqrtPrice.BigMulToValue(minSqrtPrice)
		require.NoError(t, err)
		resultUp, err := minSqrtPrice.BigMulToValueUp(minSqrtPrice)
		require.NoError(t, err)

		require.Equal(t, "232835005780624", result.Dec())
		require.Equal(t, "232835005780624", resultUp.Dec())
	}
}
