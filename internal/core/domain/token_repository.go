package domain

import "context"

// TokenRepository is the abstraction for any kind of database intended to
// persist the token registry.
type TokenRepository interface {
	// GetOrCreateToken returns the token with the given asset id, inserting
	// the provided one at the end of the registry if not found.
	GetOrCreateToken(ctx context.Context, token Token) (*Token, error)
	// GetToken returns the token with the given asset id, or ErrTokenNotFound.
	GetToken(ctx context.Context, assetId string) (*Token, error)
	// GetAllTokens returns every registered token ordered by insertion.
	GetAllTokens(ctx context.Context) ([]Token, error)
	// GetAcceptableTokens returns the tokens currently accepted for deposits,
	// ordered by insertion.
	GetAcceptableTokens(ctx context.Context) ([]Token, error)
	// GetUsdToken returns the token holding the reference currency
	// designation, or ErrIsNotUsdToken if none does.
	GetUsdToken(ctx context.Context) (*Token, error)
	// UpdateToken commits multiple changes to the same token transactionally.
	UpdateToken(
		ctx context.Context,
		assetId string,
		updateFn func(t *Token) (*Token, error),
	) error
}
