package shared

// Enums and constants shared by the invariant packages.
type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)

type Direction uint8

const (
	DirectionUp   Direction = 0
	DirectionDown Direction = 1
)

const (
	// MaxTick is log(1.0001, sqrt(2^64-1)); |tick| above it cannot be priced.
	MaxTick int32 = 221_818
	MinTick int32 = -MaxTick

	// TickSearchRange bounds a single tickmap scan during swap traversal.
	TickSearchRange int32 = 256

	MaxTickSpacing = 10_000

	PriceScale       uint8 = 24
	LiquidityScale   uint8 = 6
	FeeGrowthScale   uint8 = 24
	FixedPointScale  uint8 = 12
	TokenAmountScale uint8 = 0
)
