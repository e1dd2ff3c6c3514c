package state

import (
	bin "encoding/binary"
	"fmt"
	"math/bits"

	binary "github.com/gagliardetto/binary"

	"github.com/krazyTry/invariant-go/invariant/codec"
	"github.com/krazyTry/invariant-go/invariant/shared"
)

const tickmapAccount = "Tickmap"

// Tickmap records which ticks of one pool are initialized, one bit per tick
// that is a multiple of the spacing.
type Tickmap struct {
	spacing int32
	bitmap  []byte
}

// TickmapSize is the number of bits needed for the given spacing.
func TickmapSize(tickSpacing uint16) int {
	return int(2*shared.MaxTick)/int(tickSpacing) + 1
}

func validateSpacing(tickSpacing uint16) error {
	if tickSpacing == 0 || tickSpacing > shared.MaxTickSpacing {
		return fmt.Errorf("tick spacing %d: %w", tickSpacing, shared.ErrInvalidTickSpacing)
	}
	return nil
}

func NewTickmap(tickSpacing uint16) (*Tickmap, error) {
	if err := validateSpacing(tickSpacing); err != nil {
		return nil, err
	}
	return &Tickmap{
		spacing: int32(tickSpacing),
		bitmap:  make([]byte, (TickmapSize(tickSpacing)+7)/8),
	}, nil
}

func (m *Tickmap) TickSpacing() uint16 { return uint16(m.spacing) }

func (m *Tickmap) offset() int32 { return shared.MaxTick / m.spacing }

func (m *Tickmap) maxIndex() int32 { return 2 * m.offset() }

func (m *Tickmap) index(tick int32) (int32, error) {
	if tick > shared.MaxTick || tick < shared.MinTick {
		return 0, fmt.Errorf("tick %d: %w", tick, shared.ErrTickOutOfBounds)
	}
	if tick%m.spacing != 0 {
		return 0, fmt.Errorf("tick %d spacing %d: %w", tick, m.spacing, shared.ErrTickNotAligned)
	}
	return tick/m.spacing + m.offset(), nil
}

func (m *Tickmap) tickAt(index int32) int32 {
	return (index - m.offset()) * m.spacing
}

func (m *Tickmap) get(index int32) bool {
	return m.bitmap[index>>3]&(1<<(index&7)) != 0
}

func (m *Tickmap) Set(tick int32) error {
	i, err := m.index(tick)
	if err != nil {
		return err
	}
	m.bitmap[i>>3] |= 1 << (i & 7)
	return nil
}

func (m *Tickmap) Clear(tick int32) error {
	i, err := m.index(tick)
	if err != nil {
		return err
	}
	m.bitmap[i>>3] &^= 1 << (i & 7)
	return nil
}

func (m *Tickmap) IsSet(tick int32) (bool, error) {
	i, err := m.index(tick)
	if err != nil {
		return false, err
	}
	return m.get(i), nil
}

// NextInitialized finds the nearest initialized tick from tick in direction.
// Up looks strictly above tick, Down at or below it. tick does not have to be
// aligned to the spacing.
func (m *Tickmap) NextInitialized(tick int32, direction shared.Direction) (int32, bool) {
	return m.search(tick, direction)
}

// NextInitializedWithin is NextInitialized restricted to ticks no further than
// limit from tick.
func (m *Tickmap) NextInitializedWithin(tick int32, direction shared.Direction, limit int32) (int32, bool) {
	if limit < 0 {
		return 0, false
	}
	next, ok := m.search(tick, direction)
	if !ok {
		return 0, false
	}
	if direction == shared.DirectionUp && int64(next)-int64(tick) > int64(limit) {
		return 0, false
	}
	if direction == shared.DirectionDown && int64(tick)-int64(next) > int64(limit) {
		return 0, false
	}
	return next, true
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func (m *Tickmap) search(tick int32, direction shared.Direction) (int32, bool) {
	switch direction {
	case shared.DirectionUp:
		start := int64(floorDiv(tick, m.spacing)) + 1 + int64(m.offset())
		if start < 0 {
			start = 0
		}
		if start > int64(m.maxIndex()) {
			return 0, false
		}
		i, ok := m.scanUp(int32(start))
		if !ok {
			return 0, false
		}
		return m.tickAt(i), true
	case shared.DirectionDown:
		start := int64(floorDiv(tick, m.spacing)) + int64(m.offset())
		if start > int64(m.maxIndex()) {
			start = int64(m.maxIndex())
		}
		if start < 0 {
			return 0, false
		}
		i, ok := m.scanDown(int32(start))
		if !ok {
			return 0, false
		}
		return m.tickAt(i), true
	}
	return 0, false
}

func (m *Tickmap) scanUp(from int32) (int32, bool) {
	last := m.maxIndex()
	for i := from; i <= last; {
		if i&7 == 0 && m.bitmap[i>>3] == 0 {
			i += 8
			continue
		}
		if b := m.bitmap[i>>3] >> (i & 7); b != 0 {
			j := i + int32(bits.TrailingZeros8(b))
			return j, j <= last
		}
		i = (i | 7) + 1
	}
	return 0, false
}

func (m *Tickmap) scanDown(from int32) (int32, bool) {
	for i := from; i >= 0; {
		if i&7 == 7 && m.bitmap[i>>3] == 0 {
			i -= 8
			continue
		}
		if b := m.bitmap[i>>3] << (7 - i&7); b != 0 {
			return i - int32(bits.LeadingZeros8(b)), true
		}
		i = (i &^ 7) - 1
	}
	return 0, false
}

func (m *Tickmap) MarshalWithEncoder(enc *binary.Encoder) error {
	if err := enc.WriteUint16(uint16(m.spacing), bin.LittleEndian); err != nil {
		return err
	}
	return enc.WriteBytes(m.bitmap, false)
}

func (m *Tickmap) UnmarshalWithDecoder(dec *binary.Decoder) error {
	spacing, err := dec.ReadUint16(bin.LittleEndian)
	if err != nil {
		return err
	}
	if err := validateSpacing(spacing); err != nil {
		return err
	}
	bitmap, err := dec.ReadNBytes((TickmapSize(spacing) + 7) / 8)
	if err != nil {
		return err
	}
	m.spacing = int32(spacing)
	m.bitmap = append([]byte(nil), bitmap...)
	return nil
}

// Encode returns the tickmap account data.
func (m *Tickmap) Encode() ([]byte, error) {
	return codec.Encode(tickmapAccount, m)
}

func DecodeTickmap(data []byte) (*Tickmap, error) {
	m := new(Tickmap)
	if err := codec.Decode(tickmapAccount, data, m); err != nil {
		return nil, err
	}
	return m, nil
}
