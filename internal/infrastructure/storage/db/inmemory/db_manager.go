package inmemory

import (
	"sync"

	"github.com/payerswap/payerd/internal/core/domain"
	"github.com/payerswap/payerd/internal/core/ports"
)

type tokenInmemoryStore struct {
	tokens map[string]domain.Token
	// nextPosition is the registry insertion sequence.
	nextPosition uint64
	locker       *sync.Mutex
}

type balanceInmemoryStore struct {
	balances map[domain.BalanceKey]domain.Balance
	locker   *sync.Mutex
}

type orderInmemoryStore struct {
	orders map[uint64]domain.Order
	nextId uint64
	locker *sync.Mutex
}

type settingsInmemoryStore struct {
	settings *domain.Settings
	locker   *sync.Mutex
}

type auditInmemoryStore struct {
	deposits    []domain.Deposit
	withdrawals []domain.Withdrawal
	locker      *sync.Mutex
}

// RepoManager is the volatile implementation of ports.RepoManager, used by
// tests and by the daemon when no datadir persistence is wanted.
type RepoManager struct {
	tokenRepository      domain.TokenRepository
	balanceRepository    domain.BalanceRepository
	orderRepository      domain.OrderRepository
	settingsRepository   domain.SettingsRepository
	depositRepository    domain.DepositRepository
	withdrawalRepository domain.WithdrawalRepository
}

func NewRepoManager() ports.RepoManager {
	tokenStore := &tokenInmemoryStore{
		tokens: make(map[string]domain.Token),
		locker: &sync.Mutex{},
	}
	balanceStore := &balanceInmemoryStore{
		balances: make(map[domain.BalanceKey]domain.Balance),
		locker:   &sync.Mutex{},
	}
	orderStore := &orderInmemoryStore{
		orders: make(map[uint64]domain.Order),
		locker: &sync.Mutex{},
	}
	settingsStore := &settingsInmemoryStore{locker: &sync.Mutex{}}
	auditStore := &auditInmemoryStore{locker: &sync.Mutex{}}

	return &RepoManager{
		tokenRepository:      newTokenRepositoryImpl(tokenStore),
		balanceRepository:    newBalanceRepositoryImpl(balanceStore),
		orderRepository:      newOrderRepositoryImpl(orderStore),
		settingsRepository:   newSettingsRepositoryImpl(settingsStore),
		depositRepository:    newDepositRepositoryImpl(auditStore),
		withdrawalRepository: newWithdrawalRepositoryImpl(auditStore),
	}
}

func (d *RepoManager) TokenRepository() domain.TokenRepository {
	return d.tokenRepository
}

func (d *RepoManager) BalanceRepository() domain.BalanceRepository {
	return d.balanceRepository
}

func (d *RepoManager) OrderRepository() domain.OrderRepository {
	return d.orderRepository
}

func (d *RepoManager) SettingsRepository() domain.SettingsRepository {
	return d.settingsRepository
}

func (d *RepoManager) DepositRepository() domain.DepositRepository {
	return d.depositRepository
}

func (d *RepoManager) WithdrawalRepository() domain.WithdrawalRepository {
	return d.withdrawalRepository
}

func (d *RepoManager) Close() {}
