package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"

	"github.com/payerswap/payerd/internal/core/domain"
)

type balanceRepositoryImpl struct {
	db *DbManager
}

func newBalanceRepositoryImpl(db *DbManager) domain.BalanceRepository {
	return balanceRepositoryImpl{db}
}

func (r balanceRepositoryImpl) GetOrCreateBalance(
	ctx context.Context, account, assetId string,
) (*domain.Balance, error) {
	balance, found, err := r.getBalance(account, assetId)
	if err != nil {
		return nil, err
	}
	if found {
		return balance, nil
	}

	if err := r.db.LedgerStore.Insert(balance.Key(), balance); err != nil {
		return nil, err
	}
	return balance, nil
}

func (r balanceRepositoryImpl) GetBalance(
	_ context.Context, account, assetId string,
) (*domain.Balance, error) {
	balance, _, err := r.getBalance(account, assetId)
	return balance, err
}

func (r balanceRepositoryImpl) GetAllBalancesForAccount(
	_ context.Context, account string,
) ([]domain.Balance, error) {
	var balances []domain.Balance
	query := badgerhold.Where("Account").Eq(account).
		And("Amount").Gt(uint64(0)).
		SortBy("AssetId")
	if err := r.db.LedgerStore.Find(&balances, query); err != nil {
		return nil, err
	}
	return balances, nil
}

func (r balanceRepositoryImpl) UpdateBalance(
	_ context.Context,
	account, assetId string,
	updateFn func(b *domain.Balance) (*domain.Balance, error),
) error {
	balance, found, err := r.getBalance(account, assetId)
	if err != nil {
		return err
	}

	updated, err := updateFn(balance)
	if err != nil {
		return err
	}

	if !found {
		return r.db.LedgerStore.Insert(updated.Key(), *updated)
	}
	return r.db.LedgerStore.Update(updated.Key(), *updated)
}

func (r balanceRepositoryImpl) getBalance(
	account, assetId string,
) (*domain.Balance, bool, error) {
	key := domain.BalanceKey{Account: account, AssetId: assetId}

	var balance domain.Balance
	if err := r.db.LedgerStore.Get(key, &balance); err != nil {
		if err == badgerhold.ErrNotFound {
			return &domain.Balance{Account: account, AssetId: assetId}, false, nil
		}
		return nil, false, err
	}
	return &balance, true, nil
}
