// Package staker holds the liquidity-mining incentive record and the checks
// run before an ended incentive is closed.
package staker

import (
	"fmt"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/invariant-go/invariant/codec"
	"github.com/krazyTry/invariant-go/invariant/decimals"
	"github.com/krazyTry/invariant-go/invariant/shared"
)

const incentiveAccount = "Incentive"

// AuthoritySeed derives the account that owns every incentive token account.
const AuthoritySeed = "staker"

type Incentive struct {
	Founder              solanago.PublicKey
	TokenAccount         solanago.PublicKey
	TotalRewardUnclaimed decimals.TokenAmount
	TotalSecondsClaimed  decimals.FixedPoint
	StartTime            int64
	EndTime              int64
	EndClaimTime         int64
	NumOfStakes          uint64
	Pool                 solanago.PublicKey
	Nonce                uint8
}

// ValidateEnd reports whether founder may close the incentive at now (unix
// seconds). The claim window must be over and every stake withdrawn.
func (i *Incentive) ValidateEnd(now int64, founder solanago.PublicKey) error {
	if !i.Founder.Equals(founder) {
		return fmt.Errorf("%s: %w", founder, shared.ErrInvalidFounder)
	}
	if now <= i.EndClaimTime {
		return fmt.Errorf("now %d end claim time %d: %w", now, i.EndClaimTime, shared.ErrTooEarly)
	}
	if i.NumOfStakes != 0 {
		return fmt.Errorf("%d stakes left: %w", i.NumOfStakes, shared.ErrStakeExist)
	}
	return nil
}

// ReturnAmount is what goes back to the founder once ValidateEnd passes.
func (i *Incentive) ReturnAmount() decimals.TokenAmount {
	return i.TotalRewardUnclaimed
}

func (i *Incentive) MarshalWithEncoder(enc *binary.Encoder) error {
	w := codec.NewWriter(enc)
	w.Key(i.Founder)
	w.Key(i.TokenAccount)
	w.Value(i.TotalRewardUnclaimed)
	w.Value(i.TotalSecondsClaimed)
	w.I64(i.StartTime)
	w.I64(i.EndTime)
	w.I64(i.EndClaimTime)
	w.U64(i.NumOfStakes)
	w.Key(i.Pool)
	w.U8(i.Nonce)
	return w.Err()
}

func (i *Incentive) UnmarshalWithDecoder(dec *binary.Decoder) error {
	r := codec.NewReader(dec)
	r.Key(&i.Founder)
	r.Key(&i.TokenAccount)
	r.Value(&i.TotalRewardUnclaimed)
	r.Value(&i.TotalSecondsClaimed)
	r.I64(&i.StartTime)
	r.I64(&i.EndTime)
	r.I64(&i.EndClaimTime)
	r.U64(&i.NumOfStakes)
	r.Key(&i.Pool)
	r.U8(&i.Nonce)
	return r.Err()
}

func (i *Incentive) Encode() ([]byte, error) {
	return codec.Encode(incentiveAccount, i)
}

func DecodeIncentive(data []byte) (*Incentive, error) {
	i := new(Incentive)
	if err := codec.Decode(incentiveAccount, data, i); err != nil {
		return nil, err
	}
	return i, nil
}
