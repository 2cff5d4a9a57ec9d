package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"

	"github.com/payerswap/payerd/internal/core/domain"
)

type depositRepositoryImpl struct {
	db *DbManager
}

func newDepositRepositoryImpl(db *DbManager) domain.DepositRepository {
	return depositRepositoryImpl{db}
}

func (r depositRepositoryImpl) AddDeposit(
	_ context.Context, deposit domain.Deposit,
) error {
	return r.db.MainStore.Insert(deposit.Id, deposit)
}

func (r depositRepositoryImpl) ListDepositsForAccount(
	_ context.Context, account string,
) ([]domain.Deposit, error) {
	var deposits []domain.Deposit
	query := badgerhold.Where("Account").Eq(account).SortBy("Timestamp")
	if err := r.db.MainStore.Find(&deposits, query); err != nil {
		return nil, err
	}
	return deposits, nil
}

type withdrawalRepositoryImpl struct {
	db *DbManager
}

func newWithdrawalRepositoryImpl(db *DbManager) domain.WithdrawalRepository {
	return withdrawalRepositoryImpl{db}
}

func (r withdrawalRepositoryImpl) AddWithdrawal(
	_ context.Context, withdrawal domain.Withdrawal,
) error {
	return r.db.MainStore.Insert(withdrawal.Id, withdrawal)
}

func (r withdrawalRepositoryImpl) ListWithdrawalsForAccount(
	_ context.Context, account string,
) ([]domain.Withdrawal, error) {
	var withdrawals []domain.Withdrawal
	query := badgerhold.Where("Account").Eq(account).SortBy("Timestamp")
	if err := r.db.MainStore.Find(&withdrawals, query); err != nil {
		return nil, err
	}
	return withdrawals, nil
}
