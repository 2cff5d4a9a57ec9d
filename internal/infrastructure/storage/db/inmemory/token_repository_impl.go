package inmemory

import (
	"context"
	"sort"

	"github.com/payerswap/payerd/internal/core/domain"
)

type tokenRepositoryImpl struct {
	store *tokenInmemoryStore
}

// newTokenRepositoryImpl returns a new inmemory TokenRepository implementation.
func newTokenRepositoryImpl(store *tokenInmemoryStore) domain.TokenRepository {
	return &tokenRepositoryImpl{store}
}

func (r tokenRepositoryImpl) GetOrCreateToken(
	_ context.Context, token domain.Token,
) (*domain.Token, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if existing, ok := r.store.tokens[token.AssetId]; ok {
		return &existing, nil
	}

	token.Position = r.store.nextPosition
	r.store.nextPosition++
	r.store.tokens[token.AssetId] = token
	return &token, nil
}

func (r tokenRepositoryImpl) GetToken(
	_ context.Context, assetId string,
) (*domain.Token, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	token, ok := r.store.tokens[assetId]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	return &token, nil
}

func (r tokenRepositoryImpl) GetAllTokens(
	_ context.Context,
) ([]domain.Token, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	return r.sortedTokens(func(domain.Token) bool { return true }), nil
}

func (r tokenRepositoryImpl) GetAcceptableTokens(
	_ context.Context,
) ([]domain.Token, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	return r.sortedTokens(func(t domain.Token) bool {
		return t.AcceptedForDeposit
	}), nil
}

func (r tokenRepositoryImpl) GetUsdToken(
	_ context.Context,
) (*domain.Token, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	for _, token := range r.store.tokens {
		if token.IsUsd {
			t := token
			return &t, nil
		}
	}
	return nil, domain.ErrIsNotUsdToken
}

func (r tokenRepositoryImpl) UpdateToken(
	_ context.Context,
	assetId string,
	updateFn func(t *domain.Token) (*domain.Token, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	token, ok := r.store.tokens[assetId]
	if !ok {
		return domain.ErrTokenNotFound
	}

	updated, err := updateFn(&token)
	if err != nil {
		return err
	}
	if updated.Position >= r.store.nextPosition {
		r.store.nextPosition = updated.Position + 1
	}

	r.store.tokens[assetId] = *updated
	return nil
}

func (r tokenRepositoryImpl) sortedTokens(
	keep func(domain.Token) bool,
) []domain.Token {
	tokens := make([]domain.Token, 0, len(r.store.tokens))
	for _, token := range r.store.tokens {
		if keep(token) {
			tokens = append(tokens, token)
		}
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Position < tokens[j].Position
	})
	return tokens
}
