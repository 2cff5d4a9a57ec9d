package application

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/payerswap/payerd/internal/core/domain"
	"github.com/payerswap/payerd/internal/core/ports"
)

// LedgerService exposes the custodial balance operations: deposits,
// withdrawals and the native currency variants. Every mutation runs under
// the engine lock shared with the other services, so no ledger entry is ever
// observed in a partially updated state.
type LedgerService struct {
	repoManager ports.RepoManager
	bank        ports.AssetBank
	locker      *sync.Mutex
}

func NewLedgerService(
	repoManager ports.RepoManager,
	bank ports.AssetBank,
	locker *sync.Mutex,
) *LedgerService {
	return &LedgerService{
		repoManager: repoManager,
		bank:        bank,
		locker:      locker,
	}
}

// Deposit moves the given amount from the account into custody and credits
// its ledger entry.
func (s *LedgerService) Deposit(
	ctx context.Context, account, assetId string, amount uint64,
) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	return s.deposit(ctx, account, assetId, amount)
}

// DepositNative wraps the account's native currency into the canonical
// wrapped asset before crediting it.
func (s *LedgerService) DepositNative(
	ctx context.Context, account string, amount uint64,
) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	return s.depositNative(ctx, account, amount)
}

// Withdraw debits the account's ledger entry and transfers the asset out of
// custody.
func (s *LedgerService) Withdraw(
	ctx context.Context, account, assetId string, amount uint64,
) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	if amount == 0 {
		return domain.ErrZeroAmount
	}

	balanceRepo := s.repoManager.BalanceRepository()
	if err := balanceRepo.UpdateBalance(
		ctx, account, assetId,
		func(b *domain.Balance) (*domain.Balance, error) {
			if err := b.Debit(amount); err != nil {
				return nil, err
			}
			return b, nil
		},
	); err != nil {
		return err
	}

	if err := s.bank.TransferOut(ctx, account, assetId, amount); err != nil {
		log.WithError(err).Debugf("withdrawal transfer failed for %s", account)
		s.rollbackDebit(ctx, account, assetId, amount)
		return domain.ErrTransferFailed
	}

	withdrawal := domain.NewWithdrawal(account, assetId, amount, time.Now().Unix())
	if err := s.repoManager.WithdrawalRepository().AddWithdrawal(ctx, withdrawal); err != nil {
		log.WithError(err).Warn("could not persist withdrawal record")
	}

	log.Debugf("withdrawn %d of %s for %s", amount, assetId, account)
	return nil
}

// WithdrawNative debits the wrapped asset entry and unwraps it back to
// native currency.
func (s *LedgerService) WithdrawNative(
	ctx context.Context, account string, amount uint64,
) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	if amount == 0 {
		return domain.ErrZeroAmount
	}

	settings, err := s.repoManager.SettingsRepository().GetSettings(ctx)
	if err != nil {
		return err
	}

	balanceRepo := s.repoManager.BalanceRepository()
	if err := balanceRepo.UpdateBalance(
		ctx, account, settings.WrappedNativeAsset,
		func(b *domain.Balance) (*domain.Balance, error) {
			if err := b.Debit(amount); err != nil {
				return nil, err
			}
			return b, nil
		},
	); err != nil {
		return err
	}

	if err := s.bank.UnwrapNative(ctx, account, amount); err != nil {
		log.WithError(err).Debugf("native withdrawal failed for %s", account)
		s.rollbackDebit(ctx, account, settings.WrappedNativeAsset, amount)
		return domain.ErrTransferFailed
	}

	withdrawal := domain.NewWithdrawal(
		account, settings.WrappedNativeAsset, amount, time.Now().Unix(),
	)
	if err := s.repoManager.WithdrawalRepository().AddWithdrawal(ctx, withdrawal); err != nil {
		log.WithError(err).Warn("could not persist withdrawal record")
	}
	return nil
}

// FundReserve deposits the reference currency into the reserve account the
// additional amounts are paid from. Owners only.
func (s *LedgerService) FundReserve(
	ctx context.Context, caller string, amount uint64,
) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	if amount == 0 {
		return domain.ErrZeroAmount
	}

	settings, err := s.repoManager.SettingsRepository().GetSettings(ctx)
	if err != nil {
		return err
	}
	if !settings.IsOwner(caller) {
		return domain.ErrNotTheOwners
	}

	usdToken, err := s.repoManager.TokenRepository().GetUsdToken(ctx)
	if err != nil {
		return err
	}

	if err := s.bank.TransferIn(ctx, caller, usdToken.AssetId, amount); err != nil {
		log.WithError(err).Debug("reserve funding transfer failed")
		return domain.ErrTransferFailed
	}

	return s.credit(ctx, domain.ReserveAccount, usdToken.AssetId, amount)
}

// BalanceOf returns the ledger entry amount for the account and asset.
func (s *LedgerService) BalanceOf(
	ctx context.Context, account, assetId string,
) (uint64, error) {
	balance, err := s.repoManager.BalanceRepository().GetBalance(ctx, account, assetId)
	if err != nil {
		return 0, err
	}
	return balance.Amount, nil
}

// Balances returns every non-zero ledger entry of the account.
func (s *LedgerService) Balances(
	ctx context.Context, account string,
) ([]domain.Balance, error) {
	return s.repoManager.BalanceRepository().GetAllBalancesForAccount(ctx, account)
}

func (s *LedgerService) deposit(
	ctx context.Context, account, assetId string, amount uint64,
) error {
	if amount == 0 {
		return domain.ErrZeroAmount
	}

	token, err := s.repoManager.TokenRepository().GetToken(ctx, assetId)
	if err != nil {
		return domain.ErrTokenNotAllowed
	}
	if !token.AcceptedForDeposit {
		return domain.ErrTokenNotAllowed
	}

	if err := s.bank.TransferIn(ctx, account, assetId, amount); err != nil {
		log.WithError(err).Debugf("deposit transfer failed for %s", account)
		return domain.ErrTransferFailed
	}

	return s.credit(ctx, account, assetId, amount)
}

func (s *LedgerService) depositNative(
	ctx context.Context, account string, amount uint64,
) error {
	if amount == 0 {
		return domain.ErrZeroAmount
	}

	settings, err := s.repoManager.SettingsRepository().GetSettings(ctx)
	if err != nil {
		return err
	}

	if err := s.bank.WrapNative(ctx, account, amount); err != nil {
		log.WithError(err).Debugf("native deposit failed for %s", account)
		return domain.ErrTransferFailed
	}

	return s.credit(ctx, account, settings.WrappedNativeAsset, amount)
}

// rollbackDebit re-credits a debited entry after a failed transfer out of
// custody, so the failure leaves the ledger untouched.
func (s *LedgerService) rollbackDebit(
	ctx context.Context, account, assetId string, amount uint64,
) {
	if err := s.repoManager.BalanceRepository().UpdateBalance(
		ctx, account, assetId,
		func(b *domain.Balance) (*domain.Balance, error) {
			if err := b.Credit(amount); err != nil {
				return nil, err
			}
			return b, nil
		},
	); err != nil {
		log.WithError(err).Errorf(
			"could not roll back debit of %d %s for %s", amount, assetId, account,
		)
	}
}

func (s *LedgerService) credit(
	ctx context.Context, account, assetId string, amount uint64,
) error {
	if err := s.repoManager.BalanceRepository().UpdateBalance(
		ctx, account, assetId,
		func(b *domain.Balance) (*domain.Balance, error) {
			if err := b.Credit(amount); err != nil {
				return nil, err
			}
			return b, nil
		},
	); err != nil {
		return err
	}

	deposit := domain.NewDeposit(account, assetId, amount, time.Now().Unix())
	if err := s.repoManager.DepositRepository().AddDeposit(ctx, deposit); err != nil {
		log.WithError(err).Warn("could not persist deposit record")
	}

	log.Debugf("credited %d of %s to %s", amount, assetId, account)
	return nil
}
