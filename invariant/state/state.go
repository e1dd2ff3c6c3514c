package state

import (
	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/invariant-go/invariant/codec"
)

const stateAccount = "State"

// State is the program-wide record naming the admin and the program authority.
type State struct {
	Admin     solanago.PublicKey
	Nonce     uint8
	Authority solanago.PublicKey
	Bump      uint8
}

func (s *State) MarshalWithEncoder(enc *binary.Encoder) error {
	e := codec.NewWriter(enc)
	e.Key(s.Admin)
	e.U8(s.Nonce)
	e.Key(s.Authority)
	e.U8(s.Bump)
	return e.Err()
}

func (s *State) UnmarshalWithDecoder(dec *binary.Decoder) error {
	d := codec.NewReader(dec)
	d.Key(&s.Admin)
	d.U8(&s.Nonce)
	d.Key(&s.Authority)
	d.U8(&s.Bump)
	return d.Err()
}

func (s *State) Encode() ([]byte, error) {
	return codec.Encode(stateAccount, s)
}

func DecodeState(data []byte) (*State, error) {
	s := new(State)
	if err := codec.Decode(stateAccount, data, s); err != nil {
		return nil, err
	}
	return s, nil
}
