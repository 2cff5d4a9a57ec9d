package domain

import (
	"github.com/shopspring/decimal"
)

// Token is a registry entry for an accepted asset kind.
type Token struct {
	AssetId   string
	Ticker    string
	Decimals  uint32
	MinAmount uint64
	// AcceptedForDeposit marks the token as depositable. A token removed from
	// deposit acceptance can still be withdrawn and claimed.
	AcceptedForDeposit bool
	// AcceptedForOrders marks the token as usable on either side of an order.
	AcceptedForOrders bool
	// IsUsd marks the single reference currency all prices are expressed in.
	IsUsd bool
	// Position is the insertion sequence of the registry. Re-enabling a
	// disabled token appends it back at the end of the list.
	Position uint64
}

// Precision returns 10^Decimals as a decimal.
func (t *Token) Precision() decimal.Decimal {
	return decimal.New(1, int32(t.Decimals))
}

// FromBaseUnits converts an amount in the token's smallest unit to human units.
func (t *Token) FromBaseUnits(amount uint64) decimal.Decimal {
	return decimal.NewFromUint64(amount).Div(t.Precision())
}

// ToBaseUnits converts a human unit amount to the token's smallest unit,
// truncating any digit beyond the token precision.
func (t *Token) ToBaseUnits(amount decimal.Decimal) uint64 {
	units := amount.Mul(t.Precision()).Truncate(0)
	return uint64(units.IntPart())
}
