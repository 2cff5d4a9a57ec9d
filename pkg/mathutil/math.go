package mathutil

import (
	"github.com/shopspring/decimal"
)

func init() {
	decimal.DivisionPrecision = 18
}

// FromUnits converts an amount in base units to human units for the given
// precision.
func FromUnits(amount uint64, decimals uint32) decimal.Decimal {
	return decimal.NewFromUint64(amount).Div(decimal.New(1, int32(decimals)))
}

// ToUnits converts a human unit amount to base units, truncating any digit
// beyond the precision.
func ToUnits(amount decimal.Decimal, decimals uint32) uint64 {
	return uint64(amount.Mul(decimal.New(1, int32(decimals))).Truncate(0).IntPart())
}

// RoundDown truncates the amount at the given number of decimal digits.
func RoundDown(amount decimal.Decimal, decimals uint32) decimal.Decimal {
	return amount.Truncate(int32(decimals))
}

// ApplySlippage reduces the amount by the given percentage.
func ApplySlippage(amount decimal.Decimal, percentage decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(100).Sub(percentage).Div(decimal.NewFromInt(100))
	return amount.Mul(factor)
}
