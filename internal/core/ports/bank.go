package ports

import "context"

// AssetBank is the consumed interface of the fungible asset transfer layer.
// Every deposit, withdrawal and emergency sweep goes through it; the native
// currency is wrapped into its canonical form before entering the ledger.
type AssetBank interface {
	// TransferIn moves the given amount from the account into custody. It
	// fails if the account has not granted enough allowance or balance.
	TransferIn(ctx context.Context, from, assetId string, amount uint64) error
	// TransferOut moves the given amount from custody to the account.
	TransferOut(ctx context.Context, to, assetId string, amount uint64) error
	// WrapNative converts the account's native currency into the wrapped
	// asset held in custody.
	WrapNative(ctx context.Context, from string, amount uint64) error
	// UnwrapNative converts the wrapped asset held in custody back to native
	// currency sent to the account.
	UnwrapNative(ctx context.Context, to string, amount uint64) error
	// Exchange settles a swap against external liquidity: amountIn of assetIn
	// leaves custody and amountOut of assetOut enters it.
	Exchange(ctx context.Context, assetIn, assetOut string, amountIn, amountOut uint64) error
}
