package shared

import "errors"

var (
	ErrArithmeticOverflow   = errors.New("arithmetic overflow")
	ErrUnrepresentable      = errors.New("value does not fit the target type")
	ErrDivisionByZero       = errors.New("division by zero")
	ErrInvalidPoolLiquidity = errors.New("invalid pool liquidity")
	ErrTickOutOfBounds      = errors.New("tick over bounds")
	ErrTickNotAligned       = errors.New("tick not divisible by spacing")
	ErrInvalidTickSpacing   = errors.New("invalid tick spacing")
	ErrInvalidDiscriminator = errors.New("invalid account discriminator")
	ErrInvalidAdmin         = errors.New("invalid admin")
	ErrInvalidAuthority     = errors.New("invalid authority")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidFeeTier       = errors.New("invalid fee tier")
	ErrInvalidTokenOrder    = errors.New("token x must sort before token y")
	ErrInvalidFounder       = errors.New("invalid founder")
	ErrTooEarly             = errors.New("too early")
	ErrStakeExist           = errors.New("stake exist")
	ErrInvalidReserve       = errors.New("reserve account does not hold the pool token")
)
