package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krazyTry/invariant-go/invariant/codec"
	"github.com/krazyTry/invariant-go/invariant/shared"
)

func newTickmap(t *testing.T, spacing uint16) *Tickmap {
	t.Helper()
	m, err := NewTickmap(spacing)
	require.NoError(t, err)
	return m
}

func TestTickmapSize(t *testing.T) {
	require.Equal(t, 443_637, TickmapSize(1))
	require.Equal(t, 44_364, TickmapSize(10))
	require.Equal(t, 45, TickmapSize(10_000))

	_, err := NewTickmap(0)
	require.ErrorIs(t, err, shared.ErrInvalidTickSpacing)
}

func TestTickmapFlip(t *testing.T) {
	m := newTickmap(t, 1)
	for _, tick := range []int32{shared.MinTick, -1, 0, 1, 7, 8, shared.MaxTick} {
		set, err := m.IsSet(tick)
		require.NoError(t, err)
		require.False(t, set)

		require.NoError(t, m.Set(tick))
		set, err = m.IsSet(tick)
		require.NoError(t, err)
		require.True(t, set, "tick %d", tick)

		require.NoError(t, m.Clear(tick))
		set, err = m.IsSet(tick)
		require.NoError(t, err)
		require.False(t, set)
	}
}

func TestTickmapRejects(t *testing.T) {
	m := newTickmap(t, 10)
	require.ErrorIs(t, m.Set(5), shared.ErrTickNotAligned)
	require.ErrorIs(t, m.Set(shared.MaxTick+10), shared.ErrTickOutOfBounds)
	require.ErrorIs(t, m.Clear(-shared.MaxTick-10), shared.ErrTickOutOfBounds)
	_, err := m.IsSet(-15)
	require.ErrorIs(t, err, shared.ErrTickNotAligned)
}

func TestTickmapNeighboursIndependent(t *testing.T) {
	m := newTickmap(t, 4)
	require.NoError(t, m.Set(-8))
	require.NoError(t, m.Set(4))

	for _, tick := range []int32{-12, -4, 0, 8} {
		set, err := m.IsSet(tick)
		require.NoError(t, err)
		require.False(t, set, "tick %d", tick)
	}
	require.NoError(t, m.Clear(-8))
	set, err := m.IsSet(4)
	require.NoError(t, err)
	require.True(t, set)
}

func TestNextInitialized(t *testing.T) {
	m := newTickmap(t, 10)

	_, ok := m.NextInitialized(0, shared.DirectionUp)
	require.False(t, ok)
	_, ok = m.NextInitialized(0, shared.DirectionDown)
	require.False(t, ok)

	for _, tick := range []int32{-2000, -50, 0, 70, 3000} {
		require.NoError(t, m.Set(tick))
	}

	cases := []struct {
		from      int32
		direction shared.Direction
		want      int32
		ok        bool
	}{
		{0, shared.DirectionUp, 70, true},
		{0, shared.DirectionDown, 0, true},
		{-1, shared.DirectionUp, 0, true},
		{-1, shared.DirectionDown, -50, true},
		{-55, shared.DirectionDown, -2000, true},
		{-50, shared.DirectionDown, -50, true},
		{-50, shared.DirectionUp, 0, true},
		{69, shared.DirectionUp, 70, true},
		{70, shared.DirectionUp, 3000, true},
		{3000, shared.DirectionUp, 0, false},
		{-2001, shared.DirectionDown, 0, false},
		{shared.MinTick, shared.DirectionUp, -2000, true},
		{shared.MaxTick, shared.DirectionDown, 3000, true},
	}
	for _, c := range cases {
		got, ok := m.NextInitialized(c.from, c.direction)
		require.Equal(t, c.ok, ok, "from %d direction %d", c.from, c.direction)
		if c.ok {
			require.Equal(t, c.want, got, "from %d direction %d", c.from, c.direction)
		}
	}
}

func TestNextInitializedAtEdges(t *testing.T) {
	m := newTickmap(t, 1)
	require.NoError(t, m.Set(shared.MaxTick))
	require.NoError(t, m.Set(shared.MinTick))

	got, ok := m.NextInitialized(0, shared.DirectionUp)
	require.True(t, ok)
	require.Equal(t, shared.MaxTick, got)

	got, ok = m.NextInitialized(0, shared.DirectionDown)
	require.True(t, ok)
	require.Equal(t, shared.MinTick, got)

	_, ok = m.NextInitialized(shared.MaxTick, shared.DirectionUp)
	require.False(t, ok)
}

func TestNextInitializedWithin(t *testing.T) {
	m := newTickmap(t, 1)
	require.NoError(t, m.Set(300))
	require.NoError(t, m.Set(-100))

	_, ok := m.NextInitializedWithin(0, shared.DirectionUp, shared.TickSearchRange)
	require.False(t, ok)

	got, ok := m.NextInitializedWithin(50, shared.DirectionUp, shared.TickSearchRange)
	require.True(t, ok)
	require.Equal(t, int32(300), got)

	got, ok = m.NextInitializedWithin(0, shared.DirectionDown, 100)
	require.True(t, ok)
	require.Equal(t, int32(-100), got)

	_, ok = m.NextInitializedWithin(0, shared.DirectionDown, 99)
	require.False(t, ok)
}

func TestTickmapCodec(t *testing.T) {
	m := newTickmap(t, 100)
	require.NoError(t, m.Set(-221_800))
	require.NoError(t, m.Set(1_000))

	data, err := m.Encode()
	require.NoError(t, err)
	require.Len(t, data, codec.DiscriminatorSize+2+(TickmapSize(100)+7)/8)

	decoded, err := DecodeTickmap(data)
	require.NoError(t, err)
	require.Equal(t, m, decoded)
	require.Equal(t, uint16(100), decoded.TickSpacing())

	got, ok := decoded.NextInitialized(-221_800, shared.DirectionUp)
	require.True(t, ok)
	require.Equal(t, int32(1_000), got)
}
