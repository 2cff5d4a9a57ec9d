package application

// SwapBound is the caller-supplied minimum acceptable output for a directed
// asset pair, aggregated across all orders of the batch sharing that pair.
type SwapBound struct {
	TokenIn      string
	TokenOut     string
	AmountOutMin uint64
}

// ExecuteOrdersRequest carries everything the executor pre-computes off-chain
// for one settlement batch. OrderIds, ForceExpire and AdditionalAmounts are
// parallel slices.
type ExecuteOrdersRequest struct {
	OrderIds []uint64
	// ForceExpire marks the orders to unwind instead of swapping.
	ForceExpire []bool
	// AdditionalAmounts are the per-order reference currency supplements, in
	// USD base units, re-validated against the engine's own computation.
	AdditionalAmounts []uint64
	// MinAmountsOut are the per-pair slippage floors, re-validated against
	// live quotes.
	MinAmountsOut []SwapBound
	// ClaimImmediately also performs the claim transition for every order of
	// the batch in the same call.
	ClaimImmediately bool
	// FeeAsset designates the asset realizing the additional amount flow; it
	// must be the registered reference currency.
	FeeAsset string
}
