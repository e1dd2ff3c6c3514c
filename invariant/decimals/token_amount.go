package decimals

import (
	bin "encoding/binary"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/invariant-go/invariant/shared"
	"github.com/krazyTry/invariant-go/invariant/wide"
)

// TokenAmount is a raw amount of token units, with no fractional digits.
type TokenAmount uint64

func TokenAmountFromInteger(n uint64) TokenAmount { return TokenAmount(n) }

func TokenAmountFromDecimal(d Decimal) (TokenAmount, error) {
	v, err := fromDecimal(d, shared.TokenAmountScale)
	if err != nil {
		return 0, err
	}
	u, err := narrow64(v, shared.ErrUnrepresentable)
	return TokenAmount(u), err
}

func TokenAmountOne() TokenAmount { return 1 }

func TokenAmountAlmostOne() TokenAmount { return 0 }

func (t TokenAmount) Get() uint64 { return uint64(t) }

func (TokenAmount) Scale() uint8 { return shared.TokenAmountScale }

func (t TokenAmount) Wide() *uint256.Int { return wide.FromU64(uint64(t)) }

func (TokenAmount) sealed() {}

func (t TokenAmount) IsZero() bool { return t == 0 }

func (t TokenAmount) ToDecimal() decimal.Decimal {
	return toDecimal(new(big.Int).SetUint64(uint64(t)), shared.TokenAmountScale)
}

func (t TokenAmount) Add(o TokenAmount) (TokenAmount, error) {
	sum := t + o
	if sum < t {
		return 0, shared.ErrArithmeticOverflow
	}
	return sum, nil
}

func (t TokenAmount) Sub(o TokenAmount) (TokenAmount, error) {
	if o > t {
		return 0, shared.ErrArithmeticOverflow
	}
	return t - o, nil
}

func (t TokenAmount) UncheckedAdd(o TokenAmount) TokenAmount { return t + o }

func (t TokenAmount) UncheckedSub(o TokenAmount) TokenAmount { return t - o }

func (t TokenAmount) BigMul(rhs Decimal) (TokenAmount, error) {
	return t.bigOp(bigMul, rhs, shared.RoundingDown)
}

func (t TokenAmount) BigMulUp(rhs Decimal) (TokenAmount, error) {
	return t.bigOp(bigMul, rhs, shared.RoundingUp)
}

func (t TokenAmount) BigDiv(rhs Decimal) (TokenAmount, error) {
	return t.bigOp(bigDiv, rhs, shared.RoundingDown)
}

func (t TokenAmount) BigDivUp(rhs Decimal) (TokenAmount, error) {
	return t.bigOp(bigDiv, rhs, shared.RoundingUp)
}

func (t TokenAmount) bigOp(op bigOpFunc, rhs Decimal, rounding shared.Rounding) (TokenAmount, error) {
	v, err := op(t, rhs, rounding)
	if err != nil {
		return 0, err
	}
	u, err := narrow64(v, shared.ErrUnrepresentable)
	return TokenAmount(u), err
}

func (t TokenAmount) MarshalWithEncoder(enc *binary.Encoder) error {
	return enc.WriteUint64(uint64(t), bin.LittleEndian)
}

func (t *TokenAmount) UnmarshalWithDecoder(dec *binary.Decoder) error {
	v, err := dec.ReadUint64(bin.LittleEndian)
	if err != nil {
		return err
	}
	*t = TokenAmount(v)
	return nil
}
