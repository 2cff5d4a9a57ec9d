package ports

import (
	"github.com/payerswap/payerd/internal/core/domain"
)

// RepoManager gives access to every repository of the engine in a single
// data structure, backed either by badger or by volatile memory.
type RepoManager interface {
	TokenRepository() domain.TokenRepository
	BalanceRepository() domain.BalanceRepository
	OrderRepository() domain.OrderRepository
	SettingsRepository() domain.SettingsRepository
	DepositRepository() domain.DepositRepository
	WithdrawalRepository() domain.WithdrawalRepository

	Close()
}
