package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// SwapRouter is the consumed interface of the external swap facility. The
// engine trusts it to execute swaps atomically and to enforce the given
// output floor, failing the whole call otherwise.
type SwapRouter interface {
	// Quote returns the current exchange rate for the directed pair as the
	// amount of tokenOut human units paid for one tokenIn human unit.
	Quote(ctx context.Context, tokenIn, tokenOut string) (decimal.Decimal, error)
	// Swap converts amountIn of tokenIn into tokenOut, both in base units,
	// and returns the realized output. It fails if the output would be below
	// amountOutMin. Partial fills are not modeled.
	Swap(
		ctx context.Context,
		tokenIn, tokenOut string,
		amountIn, amountOutMin uint64,
		poolFee uint32,
	) (uint64, error)
}
