package application

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/payerswap/payerd/internal/core/domain"
	"github.com/payerswap/payerd/internal/core/ports"
)

// OperatorService exposes the owner-gated administrative surface: protocol
// parameters, role rotation, registry edits and the time-locked emergency
// recovery path.
type OperatorService struct {
	repoManager ports.RepoManager
	bank        ports.AssetBank
	locker      *sync.Mutex
}

func NewOperatorService(
	repoManager ports.RepoManager,
	bank ports.AssetBank,
	locker *sync.Mutex,
) *OperatorService {
	return &OperatorService{
		repoManager: repoManager,
		bank:        bank,
		locker:      locker,
	}
}

// SetPoolFee updates the fee tier forwarded to the swap facility and returns
// the new value.
func (s *OperatorService) SetPoolFee(
	ctx context.Context, caller string, poolFee uint32,
) (uint32, error) {
	if err := s.updateSettings(ctx, caller, func(st *domain.Settings) {
		st.PoolFee = poolFee
	}); err != nil {
		return 0, err
	}
	return poolFee, nil
}

// SetMaxAdditionalAmountPercentage updates the additional amount cap and
// returns the new value.
func (s *OperatorService) SetMaxAdditionalAmountPercentage(
	ctx context.Context, caller string, percentage uint32,
) (uint32, error) {
	if err := s.updateSettings(ctx, caller, func(st *domain.Settings) {
		st.MaxAdditionalAmountPercentage = percentage
	}); err != nil {
		return 0, err
	}
	return percentage, nil
}

// SetMaxDuration updates the longest validity window an order may request.
func (s *OperatorService) SetMaxDuration(
	ctx context.Context, caller string, maxDuration int64,
) (int64, error) {
	if err := s.updateSettings(ctx, caller, func(st *domain.Settings) {
		st.MaxDuration = maxDuration
	}); err != nil {
		return 0, err
	}
	return maxDuration, nil
}

// SetMaxExecutionTime updates the post-expiration settlement window.
func (s *OperatorService) SetMaxExecutionTime(
	ctx context.Context, caller string, maxExecutionTime int64,
) (int64, error) {
	if err := s.updateSettings(ctx, caller, func(st *domain.Settings) {
		st.MaxExecutionTime = maxExecutionTime
	}); err != nil {
		return 0, err
	}
	return maxExecutionTime, nil
}

// SetFullAccessAfter updates the emergency time lock.
func (s *OperatorService) SetFullAccessAfter(
	ctx context.Context, caller string, fullAccessAfter int64,
) (int64, error) {
	if err := s.updateSettings(ctx, caller, func(st *domain.Settings) {
		st.FullAccessAfter = fullAccessAfter
	}); err != nil {
		return 0, err
	}
	return fullAccessAfter, nil
}

// SetOwner1Address rotates the first administrator identity.
func (s *OperatorService) SetOwner1Address(
	ctx context.Context, caller, address string,
) (string, error) {
	if err := s.updateSettings(ctx, caller, func(st *domain.Settings) {
		st.Owner1 = address
	}); err != nil {
		return "", err
	}
	return address, nil
}

// SetOwner2Address rotates the second administrator identity.
func (s *OperatorService) SetOwner2Address(
	ctx context.Context, caller, address string,
) (string, error) {
	if err := s.updateSettings(ctx, caller, func(st *domain.Settings) {
		st.Owner2 = address
	}); err != nil {
		return "", err
	}
	return address, nil
}

// SetServiceAddress rotates the automated executor identity.
func (s *OperatorService) SetServiceAddress(
	ctx context.Context, caller, address string,
) (string, error) {
	if err := s.updateSettings(ctx, caller, func(st *domain.Settings) {
		st.Service = address
	}); err != nil {
		return "", err
	}
	return address, nil
}

// SetPayerAddress rotates the operational relay identity.
func (s *OperatorService) SetPayerAddress(
	ctx context.Context, caller, address string,
) (string, error) {
	if err := s.updateSettings(ctx, caller, func(st *domain.Settings) {
		st.PayerAddress = address
	}); err != nil {
		return "", err
	}
	return address, nil
}

// EditAcceptableToken registers a token or updates its flags and minimum
// amount. Re-enabling a disabled token appends it back at the end of the
// registry list.
func (s *OperatorService) EditAcceptableToken(
	ctx context.Context, caller string, token domain.Token,
) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	settings, err := s.repoManager.SettingsRepository().GetSettings(ctx)
	if err != nil {
		return err
	}
	if !settings.IsOwner(caller) {
		return domain.ErrNotTheOwners
	}

	tokenRepo := s.repoManager.TokenRepository()

	if token.IsUsd {
		if usd, err := tokenRepo.GetUsdToken(ctx); err == nil &&
			usd.AssetId != token.AssetId {
			return domain.ErrUsdTokenAlreadySet
		}
	}

	existing, err := tokenRepo.GetToken(ctx, token.AssetId)
	if err != nil {
		_, err := tokenRepo.GetOrCreateToken(ctx, token)
		return err
	}

	reEnabled := !existing.AcceptedForDeposit && token.AcceptedForDeposit
	var nextPosition uint64
	if reEnabled {
		all, err := tokenRepo.GetAllTokens(ctx)
		if err != nil {
			return err
		}
		for _, t := range all {
			if t.Position >= nextPosition {
				nextPosition = t.Position + 1
			}
		}
	}

	return tokenRepo.UpdateToken(
		ctx, token.AssetId,
		func(t *domain.Token) (*domain.Token, error) {
			t.AcceptedForDeposit = token.AcceptedForDeposit
			t.AcceptedForOrders = token.AcceptedForOrders
			t.MinAmount = token.MinAmount
			if reEnabled {
				t.Position = nextPosition
			}
			return t, nil
		},
	)
}

// ListAcceptableTokens returns the ordered registry of tokens currently
// accepted for deposits.
func (s *OperatorService) ListAcceptableTokens(ctx context.Context) ([]domain.Token, error) {
	return s.repoManager.TokenRepository().GetAcceptableTokens(ctx)
}

// IsUsdToken returns whether the asset holds the reference currency
// designation.
func (s *OperatorService) IsUsdToken(ctx context.Context, assetId string) (bool, error) {
	token, err := s.repoManager.TokenRepository().GetToken(ctx, assetId)
	if err != nil {
		return false, err
	}
	return token.IsUsd, nil
}

// GetSettings returns the current role addresses and protocol parameters.
func (s *OperatorService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	return s.repoManager.SettingsRepository().GetSettings(ctx)
}

// EmergencyQuit sweeps a user's claimed balance to the calling owner once the
// full access time lock has elapsed. Balances retained by unclaimed orders
// are not sweepable.
func (s *OperatorService) EmergencyQuit(
	ctx context.Context, caller, account, assetId string, amount uint64,
) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	settings, err := s.repoManager.SettingsRepository().GetSettings(ctx)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	if !settings.EmergencyUnlocked(now) {
		return domain.ErrEmergencyLocked
	}
	if !settings.IsOwner(caller) {
		return domain.ErrAvailableOnlyOwner
	}

	unclaimed, err := s.repoManager.OrderRepository().
		GetUnclaimedOrdersForAccount(ctx, account)
	if err != nil {
		return err
	}
	for _, order := range unclaimed {
		if order.TokenIn == assetId || order.TokenOut == assetId {
			return domain.ErrOrderNotClaimed
		}
	}

	if err := s.repoManager.BalanceRepository().UpdateBalance(
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

	if err := s.bank.TransferOut(ctx, caller, assetId, amount); err != nil {
		// Re-credit the swept entry so the failed transfer leaves no trace.
		if rbErr := s.repoManager.BalanceRepository().UpdateBalance(
			ctx, account, assetId,
			func(b *domain.Balance) (*domain.Balance, error) {
				if err := b.Credit(amount); err != nil {
					return nil, err
				}
				return b, nil
			},
		); rbErr != nil {
			log.WithError(rbErr).Errorf(
				"could not roll back emergency debit of %d %s", amount, assetId,
			)
		}
		return domain.ErrTransferFailed
	}

	withdrawal := domain.NewWithdrawal(account, assetId, amount, now)
	if err := s.repoManager.WithdrawalRepository().AddWithdrawal(ctx, withdrawal); err != nil {
		log.WithError(err).Warn("could not persist withdrawal record")
	}

	log.Warnf(
		"emergency sweep of %d %s from %s by %s", amount, assetId, account, caller,
	)
	return nil
}

func (s *OperatorService) updateSettings(
	ctx context.Context, caller string, apply func(*domain.Settings),
) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	settings, err := s.repoManager.SettingsRepository().GetSettings(ctx)
	if err != nil {
		return err
	}
	if !settings.IsOwner(caller) {
		return domain.ErrNotTheOwners
	}

	return s.repoManager.SettingsRepository().UpdateSettings(
		ctx,
		func(st *domain.Settings) (*domain.Settings, error) {
			apply(st)
			return st, nil
		},
	)
}
