package state

import (
	binary "github.com/gagliardetto/binary"

	"github.com/krazyTry/invariant-go/invariant/codec"
	"github.com/krazyTry/invariant-go/invariant/decimals"
)

const feeTierAccount = "FeeTier"

// FeeTier pairs a swap fee with the tick spacing pools created under it use.
// It is not changed after creation.
type FeeTier struct {
	Fee         decimals.FixedPoint
	TickSpacing uint16
	Bump        uint8
}

func NewFeeTier(fee decimals.FixedPoint, tickSpacing uint16, bump uint8) (*FeeTier, error) {
	if err := validateSpacing(tickSpacing); err != nil {
		return nil, err
	}
	return &FeeTier{Fee: fee, TickSpacing: tickSpacing, Bump: bump}, nil
}

func (f *FeeTier) MarshalWithEncoder(enc *binary.Encoder) error {
	e := codec.NewWriter(enc)
	e.Value(f.Fee)
	e.U16(f.TickSpacing)
	e.U8(f.Bump)
	return e.Err()
}

func (f *FeeTier) UnmarshalWithDecoder(dec *binary.Decoder) error {
	d := codec.NewReader(dec)
	d.Value(&f.Fee)
	d.U16(&f.TickSpacing)
	d.U8(&f.Bump)
	return d.Err()
}

func (f *FeeTier) Encode() ([]byte, error) {
	return codec.Encode(feeTierAccount, f)
}

func DecodeFeeTier(data []byte) (*FeeTier, error) {
	f := new(FeeTier)
	if err := codec.Decode(feeTierAccount, data, f); err != nil {
		return nil, err
	}
	return f, nil
}
