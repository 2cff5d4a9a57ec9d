package dbbadger

import (
	"context"
	"errors"

	"github.com/timshannon/badgerhold/v4"

	"github.com/payerswap/payerd/internal/core/domain"
)

type tokenRepositoryImpl struct {
	db *DbManager
}

func newTokenRepositoryImpl(db *DbManager) domain.TokenRepository {
	return tokenRepositoryImpl{db}
}

func (r tokenRepositoryImpl) GetOrCreateToken(
	ctx context.Context, token domain.Token,
) (*domain.Token, error) {
	existing, err := r.GetToken(ctx, token.AssetId)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrTokenNotFound) {
		return nil, err
	}

	position, err := r.nextPosition(ctx)
	if err != nil {
		return nil, err
	}
	token.Position = position

	if err := r.db.MainStore.Insert(token.AssetId, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r tokenRepositoryImpl) GetToken(
	_ context.Context, assetId string,
) (*domain.Token, error) {
	var token domain.Token
	if err := r.db.MainStore.Get(assetId, &token); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r tokenRepositoryImpl) GetAllTokens(
	_ context.Context,
) ([]domain.Token, error) {
	var tokens []domain.Token
	query := (&badgerhold.Query{}).SortBy("Position")
	if err := r.db.MainStore.Find(&tokens, query); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r tokenRepositoryImpl) GetAcceptableTokens(
	_ context.Context,
) ([]domain.Token, error) {
	var tokens []domain.Token
	query := badgerhold.Where("AcceptedForDeposit").Eq(true).SortBy("Position")
	if err := r.db.MainStore.Find(&tokens, query); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r tokenRepositoryImpl) GetUsdToken(
	_ context.Context,
) (*domain.Token, error) {
	var tokens []domain.Token
	query := badgerhold.Where("IsUsd").Eq(true)
	if err := r.db.MainStore.Find(&tokens, query); err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, domain.ErrIsNotUsdToken
	}
	return &tokens[0], nil
}

func (r tokenRepositoryImpl) UpdateToken(
	ctx context.Context,
	assetId string,
	updateFn func(t *domain.Token) (*domain.Token, error),
) error {
	token, err := r.GetToken(ctx, assetId)
	if err != nil {
		return err
	}

	updated, err := updateFn(token)
	if err != nil {
		return err
	}

	return r.db.MainStore.Update(assetId, *updated)
}

// nextPosition appends at the end of the registry list, also accounting for
// positions bumped by a re-enabled token.
func (r tokenRepositoryImpl) nextPosition(ctx context.Context) (uint64, error) {
	tokens, err := r.GetAllTokens(ctx)
	if err != nil {
		return 0, err
	}

	var next uint64
	for _, t := range tokens {
		if t.Position >= next {
			next = t.Position + 1
		}
	}
	return next, nil
}
