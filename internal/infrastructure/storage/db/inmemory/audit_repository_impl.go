package inmemory

import (
	"context"

	"github.com/payerswap/payerd/internal/core/domain"
)

type depositRepositoryImpl struct {
	store *auditInmemoryStore
}

// newDepositRepositoryImpl returns a new inmemory DepositRepository implementation.
func newDepositRepositoryImpl(store *auditInmemoryStore) domain.DepositRepository {
	return &depositRepositoryImpl{store}
}

func (r depositRepositoryImpl) AddDeposit(
	_ context.Context, deposit domain.Deposit,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.deposits = append(r.store.deposits, deposit)
	return nil
}

func (r depositRepositoryImpl) ListDepositsForAccount(
	_ context.Context, account string,
) ([]domain.Deposit, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	deposits := make([]domain.Deposit, 0)
	for _, deposit := range r.store.deposits {
		if deposit.Account == account {
			deposits = append(deposits, deposit)
		}
	}
	return deposits, nil
}

type withdrawalRepositoryImpl struct {
	store *auditInmemoryStore
}

// newWithdrawalRepositoryImpl returns a new inmemory WithdrawalRepository implementation.
func newWithdrawalRepositoryImpl(store *auditInmemoryStore) domain.WithdrawalRepository {
	return &withdrawalRepositoryImpl{store}
}

func (r withdrawalRepositoryImpl) AddWithdrawal(
	_ context.Context, withdrawal domain.Withdrawal,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.withdrawals = append(r.store.withdrawals, withdrawal)
	return nil
}

func (r withdrawalRepositoryImpl) ListWithdrawalsForAccount(
	_ context.Context, account string,
) ([]domain.Withdrawal, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	withdrawals := make([]domain.Withdrawal, 0)
	for _, withdrawal := range r.store.withdrawals {
		if withdrawal.Account == account {
			withdrawals = append(withdrawals, withdrawal)
		}
	}
	return withdrawals, nil
}
