package inmemory

import (
	"context"
	"sort"

	"github.com/payerswap/payerd/internal/core/domain"
)

type balanceRepositoryImpl struct {
	store *balanceInmemoryStore
}

// newBalanceRepositoryImpl returns a new inmemory BalanceRepository implementation.
func newBalanceRepositoryImpl(store *balanceInmemoryStore) domain.BalanceRepository {
	return &balanceRepositoryImpl{store}
}

func (r balanceRepositoryImpl) GetOrCreateBalance(
	_ context.Context, account, assetId string,
) (*domain.Balance, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	return r.getOrCreateBalance(account, assetId), nil
}

func (r balanceRepositoryImpl) GetBalance(
	_ context.Context, account, assetId string,
) (*domain.Balance, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	key := domain.BalanceKey{Account: account, AssetId: assetId}
	if balance, ok := r.store.balances[key]; ok {
		return &balance, nil
	}
	return &domain.Balance{Account: account, AssetId: assetId}, nil
}

func (r balanceRepositoryImpl) GetAllBalancesForAccount(
	_ context.Context, account string,
) ([]domain.Balance, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	balances := make([]domain.Balance, 0)
	for _, balance := range r.store.balances {
		if balance.Account == account && balance.Amount > 0 {
			balances = append(balances, balance)
		}
	}
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].AssetId < balances[j].AssetId
	})
	return balances, nil
}

func (r balanceRepositoryImpl) UpdateBalance(
	_ context.Context,
	account, assetId string,
	updateFn func(b *domain.Balance) (*domain.Balance, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	balance := r.getOrCreateBalance(account, assetId)
	updated, err := updateFn(balance)
	if err != nil {
		return err
	}

	r.store.balances[updated.Key()] = *updated
	return nil
}

func (r balanceRepositoryImpl) getOrCreateBalance(
	account, assetId string,
) *domain.Balance {
	key := domain.BalanceKey{Account: account, AssetId: assetId}
	if balance, ok := r.store.balances[key]; ok {
		return &balance
	}

	balance := domain.Balance{Account: account, AssetId: assetId}
	r.store.balances[key] = balance
	return &balance
}
