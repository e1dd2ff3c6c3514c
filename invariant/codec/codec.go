// Package codec writes and reads the fixed-width little-endian account records.
package codec

import (
	"bytes"
	"crypto/sha256"
	bin "encoding/binary"
	"fmt"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/invariant-go/invariant/shared"
)

// DiscriminatorSize is the length of the account tag that prefixes every record.
const DiscriminatorSize = 8

// Discriminator returns the anchor account tag for name.
func Discriminator(name string) [DiscriminatorSize]byte {
	hash := sha256.Sum256([]byte("account:" + name))
	var out [DiscriminatorSize]byte
	copy(out[:], hash[:DiscriminatorSize])
	return out
}

// Record is an account body that can be written and read field by field.
type Record interface {
	binary.BinaryMarshaler
	binary.BinaryUnmarshaler
}

// Encode writes the discriminator for name followed by r.
func Encode(name string, r Record) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := binary.NewBinEncoder(buf)
	d := Discriminator(name)
	if err := enc.WriteBytes(d[:], false); err != nil {
		return nil, err
	}
	if err := r.MarshalWithEncoder(enc); err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Decode checks the discriminator for name and reads r from the rest of data.
func Decode(name string, data []byte, r Record) error {
	d := Discriminator(name)
	if len(data) < DiscriminatorSize || !bytes.Equal(data[:DiscriminatorSize], d[:]) {
		return fmt.Errorf("%s: %w", name, shared.ErrInvalidDiscriminator)
	}
	if err := r.UnmarshalWithDecoder(binary.NewBinDecoder(data[DiscriminatorSize:])); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func writeKey(enc *binary.Encoder, k solanago.PublicKey) error {
	return enc.WriteBytes(k[:], false)
}

func readKey(dec *binary.Decoder) (solanago.PublicKey, error) {
	b, err := dec.ReadNBytes(solanago.PublicKeyLength)
	if err != nil {
		return solanago.PublicKey{}, err
	}
	return solanago.PublicKeyFromBytes(b), nil
}

// Writer keeps the first error so field lists read top to bottom.
type Writer struct {
	enc *binary.Encoder
	err error
}

func NewWriter(enc *binary.Encoder) *Writer { return &Writer{enc: enc} }

func (e *Writer) Err() error { return e.err }

func (e *Writer) Key(k solanago.PublicKey) {
	if e.err == nil {
		e.err = writeKey(e.enc, k)
	}
}

func (e *Writer) U8(v uint8) {
	if e.err == nil {
		e.err = e.enc.WriteUint8(v)
	}
}

func (e *Writer) U16(v uint16) {
	if e.err == nil {
		e.err = e.enc.WriteUint16(v, bin.LittleEndian)
	}
}

func (e *Writer) I32(v int32) {
	if e.err == nil {
		e.err = e.enc.WriteInt32(v, bin.LittleEndian)
	}
}

func (e *Writer) U64(v uint64) {
	if e.err == nil {
		e.err = e.enc.WriteUint64(v, bin.LittleEndian)
	}
}

func (e *Writer) I64(v int64) {
	if e.err == nil {
		e.err = e.enc.WriteInt64(v, bin.LittleEndian)
	}
}

func (e *Writer) Value(m binary.BinaryMarshaler) {
	if e.err == nil {
		e.err = m.MarshalWithEncoder(e.enc)
	}
}

type Reader struct {
	dec *binary.Decoder
	err error
}

func NewReader(dec *binary.Decoder) *Reader { return &Reader{dec: dec} }

func (d *Reader) Err() error { return d.err }

func (d *Reader) Key(k *solanago.PublicKey) {
	if d.err == nil {
		*k, d.err = readKey(d.dec)
	}
}

func (d *Reader) U8(v *uint8) {
	if d.err == nil {
		*v, d.err = d.dec.ReadUint8()
	}
}

func (d *Reader) U16(v *uint16) {
	if d.err == nil {
		*v, d.err = d.dec.ReadUint16(bin.LittleEndian)
	}
}

func (d *Reader) I32(v *int32) {
	if d.err == nil {
		*v, d.err = d.dec.ReadInt32(bin.LittleEndian)
	}
}

func (d *Reader) U64(v *uint64) {
	if d.err == nil {
		*v, d.err = d.dec.ReadUint64(bin.LittleEndian)
	}
}

func (d *Reader) I64(v *int64) {
	if d.err == nil {
		*v, d.err = d.dec.ReadInt64(bin.LittleEndian)
	}
}

func (d *Reader) Value(u binary.BinaryUnmarshaler) {
	if d.err == nil {
		d.err = u.UnmarshalWithDecoder(d.dec)
	}
}
