package codec

import (
	"bytes"
	"testing"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/invariant-go/invariant/shared"
)

func TestDiscriminator(t *testing.T) {
	require.Equal(t, [DiscriminatorSize]byte{241, 154, 109, 4, 17, 177, 109, 188}, Discriminator("Pool"))
	require.Equal(t, [DiscriminatorSize]byte{56, 75, 159, 76, 142, 68, 190, 105}, Discriminator("FeeTier"))
}

type sample struct {
	Owner solanago.PublicKey
	Tick  int32
	Stamp int64
	Count uint64
	Flag  uint8
}

func (s *sample) MarshalWithEncoder(enc *binary.Encoder) error {
	w := NewWriter(enc)
	w.Key(s.Owner)
	w.I32(s.Tick)
	w.I64(s.Stamp)
	w.U64(s.Count)
	w.U8(s.Flag)
	return w.Err()
}

func (s *sample) UnmarshalWithDecoder(dec *binary.Decoder) error {
	r := NewReader(dec)
	r.Key(&s.Owner)
	r.I32(&s.Tick)
	r.I64(&s.Stamp)
	r.U64(&s.Count)
	r.U8(&s.Flag)
	return r.Err()
}

func TestEncodeDecode(t *testing.T) {
	in := &sample{
		Owner: solanago.NewWallet().PublicKey(),
		Tick:  -7,
		Stamp: -1_700_000_000,
		Count: 3,
		Flag:  1,
	}
	data, err := Encode("Sample", in)
	require.NoError(t, err)
	require.Len(t, data, DiscriminatorSize+32+4+8+8+1)

	// little-endian two's complement tick right after the key
	require.True(t, bytes.Equal([]byte{0xf9, 0xff, 0xff, 0xff}, data[DiscriminatorSize+32:DiscriminatorSize+36]))

	out := new(sample)
	require.NoError(t, Decode("Sample", data, out))
	require.Equal(t, in, out)

	require.ErrorIs(t, Decode("Other", data, out), shared.ErrInvalidDiscriminator)
	require.ErrorIs(t, Decode("Sample", data[:4], out), shared.ErrInvalidDiscriminator)
	require.Error(t, Decode("Sample", data[:DiscriminatorSize+33], new(sample)))
}
