package mathutil_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/payerswap/payerd/pkg/mathutil"
)

func TestUnitsRoundTrip(t *testing.T) {
	amount := uint64(123456789)
	human := mathutil.FromUnits(amount, 6)
	require.Equal(t, "123.456789", human.String())
	require.Equal(t, amount, mathutil.ToUnits(human, 6))
}

func TestToUnitsTruncates(t *testing.T) {
	human := decimal.RequireFromString("1.0000019")
	require.Equal(t, uint64(1000001), mathutil.ToUnits(human, 6))
}

func TestRoundDown(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals uint32
		expected string
	}{
		{"no_op", "14250", 6, "14250"},
		{"truncates_below_precision", "0.95000095", 6, "0.950000"},
		{"negative_digits_kept", "123.999999", 2, "123.99"},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			got := mathutil.RoundDown(
				decimal.RequireFromString(tt.amount), tt.decimals,
			)
			require.True(t, got.Equal(decimal.RequireFromString(tt.expected)))
		})
	}
}

func TestApplySlippage(t *testing.T) {
	amount := decimal.NewFromInt(15000)
	got := mathutil.ApplySlippage(amount, decimal.NewFromInt(5))
	require.True(t, got.Equal(decimal.NewFromInt(14250)))

	unchanged := mathutil.ApplySlippage(amount, decimal.Zero)
	require.True(t, unchanged.Equal(amount))
}
