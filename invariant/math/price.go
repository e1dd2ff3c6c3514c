package math

import (
	"github.com/holiman/uint256"

	"github.com/krazyTry/invariant-go/invariant/decimals"
	"github.com/krazyTry/invariant-go/invariant/shared"
	"github.com/krazyTry/invariant-go/invariant/wide"
)

// sqrtPowers[k] is sqrt(1.0001)^(2^k) as a FixedPoint raw value.
var sqrtPowers = [18]uint64{
	1000049998750,
	1000100000000,
	1000200010000,
	1000400060004,
	1000800280056,
	1001601200560,
	1003204964963,
	1006420201726,
	1012881622442,
	1025929181080,
	1052530684591,
	1107820842005,
	1227267017980,
	1506184333421,
	2268591246242,
	5146506242525,
	26486526504348,
	701536086265529,
}

// CalculatePriceSqrt returns sqrt(1.0001^tick) as a Price.
//
// Each multiplication and the reciprocal for negative ticks truncate, so the
// result is a lower bound on the exact value at FixedPoint precision.
func CalculatePriceSqrt(tick int32) (decimals.Price, error) {
	if tick > shared.MaxTick || tick < shared.MinTick {
		return decimals.Price{}, shared.ErrTickOutOfBounds
	}

	abs := uint32(tick)
	if tick < 0 {
		abs = uint32(-tick)
	}

	one, _ := wide.Pow10(shared.FixedPointScale)
	price := new(uint256.Int).Set(one)
	for k, c := range sqrtPowers {
		if abs&(1<<k) == 0 {
			continue
		}
		next, err := wide.MulDiv(price, uint256.NewInt(c), one, shared.RoundingDown)
		if err != nil {
			return decimals.Price{}, err
		}
		price = next
	}

	if tick < 0 {
		oneSquared := new(uint256.Int).Mul(one, one)
		inv, err := wide.Div(oneSquared, price, shared.RoundingDown)
		if err != nil {
			return decimals.Price{}, err
		}
		price = inv
	}

	u, ok := wide.ToU128(price)
	if !ok {
		return decimals.Price{}, shared.ErrUnrepresentable
	}
	return decimals.PriceFromDecimal(decimals.NewFixedPoint(u))
}
