package domain

import "context"

// BalanceRepository is the abstraction for any kind of database intended to
// persist ledger entries.
type BalanceRepository interface {
	// GetOrCreateBalance returns the entry for the given account and asset,
	// creating a zero one if not found.
	GetOrCreateBalance(ctx context.Context, account, assetId string) (*Balance, error)
	// GetBalance returns the entry for the given account and asset, or a zero
	// one if not found. It never creates.
	GetBalance(ctx context.Context, account, assetId string) (*Balance, error)
	// GetAllBalancesForAccount returns every non-zero entry of an account.
	GetAllBalancesForAccount(ctx context.Context, account string) ([]Balance, error)
	// UpdateBalance commits multiple changes to the same entry transactionally.
	UpdateBalance(
		ctx context.Context,
		account, assetId string,
		updateFn func(b *Balance) (*Balance, error),
	) error
}
