package application

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/payerswap/payerd/internal/core/domain"
	"github.com/payerswap/payerd/internal/core/ports"
)

// OrderService exposes the order lifecycle entry points: creation with
// escrow, the deposit-and-order convenience paths and claim resolution.
type OrderService struct {
	repoManager ports.RepoManager
	bank        ports.AssetBank
	ledgerSvc   *LedgerService
	locker      *sync.Mutex
}

func NewOrderService(
	repoManager ports.RepoManager,
	bank ports.AssetBank,
	ledgerSvc *LedgerService,
	locker *sync.Mutex,
) *OrderService {
	return &OrderService{
		repoManager: repoManager,
		bank:        bank,
		ledgerSvc:   ledgerSvc,
		locker:      locker,
	}
}

// MakeOrder escrows amountIn from the owner's ledger entry and creates a
// pending order, returning its id.
func (s *OrderService) MakeOrder(
	ctx context.Context,
	owner, tokenIn, tokenOut string,
	amountIn, price uint64,
	duration int64,
) (uint64, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	return s.makeOrder(ctx, owner, tokenIn, tokenOut, amountIn, price, duration)
}

// DepositAndOrder performs a deposit followed by an order creation as a
// single serialized call.
func (s *OrderService) DepositAndOrder(
	ctx context.Context,
	owner, tokenIn, tokenOut string,
	depositAmount, amountIn, price uint64,
	duration int64,
) (uint64, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	if err := s.ledgerSvc.deposit(ctx, owner, tokenIn, depositAmount); err != nil {
		return 0, err
	}
	return s.makeOrder(ctx, owner, tokenIn, tokenOut, amountIn, price, duration)
}

// DepositNativeAndOrder wraps and deposits native currency, then orders the
// wrapped asset against the target token.
func (s *OrderService) DepositNativeAndOrder(
	ctx context.Context,
	owner, tokenOut string,
	amountIn, price uint64,
	duration int64,
) (uint64, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	settings, err := s.repoManager.SettingsRepository().GetSettings(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.ledgerSvc.depositNative(ctx, owner, amountIn); err != nil {
		return 0, err
	}
	return s.makeOrder(
		ctx, owner, settings.WrappedNativeAsset, tokenOut, amountIn, price, duration,
	)
}

// ClaimOrder credits the order's payout to its owner and marks it claimed.
// A pending order whose settlement window lapsed is unwound back to its
// original token and amount first. A forced claim may only be invoked by the
// order's owner.
func (s *OrderService) ClaimOrder(
	ctx context.Context,
	caller string,
	orderId uint64,
	payoutAsset string,
	force bool,
) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	return s.claimOrder(ctx, caller, orderId, payoutAsset, force)
}

// GetOrder returns the order detail for the given id.
func (s *OrderService) GetOrder(ctx context.Context, orderId uint64) (*domain.Order, error) {
	return s.repoManager.OrderRepository().GetOrder(ctx, orderId)
}

// ListOrders returns every order ever created.
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repoManager.OrderRepository().GetAllOrders(ctx)
}

// ListOrdersForAccount returns every order owned by the account.
func (s *OrderService) ListOrdersForAccount(
	ctx context.Context, account string,
) ([]domain.Order, error) {
	return s.repoManager.OrderRepository().GetOrdersForAccount(ctx, account)
}

func (s *OrderService) makeOrder(
	ctx context.Context,
	owner, tokenIn, tokenOut string,
	amountIn, price uint64,
	duration int64,
) (uint64, error) {
	if amountIn == 0 {
		return 0, domain.ErrZeroAmount
	}
	if tokenIn == tokenOut {
		return 0, domain.ErrSameTokens
	}

	settings, err := s.repoManager.SettingsRepository().GetSettings(ctx)
	if err != nil {
		return 0, err
	}
	if duration > settings.MaxDuration {
		return 0, domain.ErrDurationTooLong
	}

	tokenRepo := s.repoManager.TokenRepository()
	inToken, err := tokenRepo.GetToken(ctx, tokenIn)
	if err != nil {
		return 0, domain.ErrTokenNotAllowed
	}
	outToken, err := tokenRepo.GetToken(ctx, tokenOut)
	if err != nil {
		return 0, domain.ErrTokenNotAllowed
	}
	if !inToken.AcceptedForOrders || !outToken.AcceptedForOrders {
		return 0, domain.ErrTokenNotAllowed
	}
	if amountIn < inToken.MinAmount {
		return 0, domain.ErrAmountBelowMinimum
	}

	// Escrow: the input moves out of the owner's general balance so it
	// cannot be double spent by another order or a withdrawal.
	if err := s.repoManager.BalanceRepository().UpdateBalance(
		ctx, owner, tokenIn,
		func(b *domain.Balance) (*domain.Balance, error) {
			if err := b.Debit(amountIn); err != nil {
				return nil, err
			}
			return b, nil
		},
	); err != nil {
		return 0, err
	}

	now := time.Now().Unix()
	order := domain.NewOrder(owner, tokenIn, tokenOut, amountIn, price, duration, now)
	id, err := s.repoManager.OrderRepository().AddOrder(ctx, order)
	if err != nil {
		return 0, err
	}

	log.Debugf(
		"order %d created: %s %d %s -> %s, expires at %d",
		id, owner, amountIn, tokenIn, tokenOut, order.EndTimestamp,
	)
	return id, nil
}

func (s *OrderService) claimOrder(
	ctx context.Context,
	caller string,
	orderId uint64,
	payoutAsset string,
	force bool,
) error {
	orderRepo := s.repoManager.OrderRepository()
	order, err := orderRepo.GetOrder(ctx, orderId)
	if err != nil {
		return err
	}

	if order.IsClaimed() {
		return domain.ErrOrderAlreadyClaimed
	}
	if force && caller != order.Owner {
		return domain.ErrAvailableOnlyOwner
	}

	settings, err := s.repoManager.SettingsRepository().GetSettings(ctx)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	if order.IsPending() {
		if !order.CanForceClaim(now, settings.MaxExecutionTime) {
			return domain.ErrOrderNotCompleted
		}
		// Settlement window lapsed without action: unwind back to the
		// original token and amount before crediting.
		if err := order.Expire(); err != nil {
			return err
		}
	}

	if payoutAsset != order.TokenOut {
		return domain.ErrIsNotUsdToken
	}

	// The reserve must cover the additional amount before anything is
	// persisted, so a failed claim leaves no partial effects behind.
	if order.AdditionalAmount > 0 {
		reserve, err := s.repoManager.BalanceRepository().GetBalance(
			ctx, domain.ReserveAccount, settings.UsdAsset,
		)
		if err != nil {
			return err
		}
		if reserve.Amount < order.AdditionalAmount {
			return domain.ErrInsufficientBalance
		}
	}

	if err := order.Claim(); err != nil {
		return err
	}
	if err := orderRepo.UpdateOrder(
		ctx, orderId,
		func(o *domain.Order) (*domain.Order, error) {
			return order, nil
		},
	); err != nil {
		return err
	}

	return s.payOut(ctx, order, settings)
}

// payOut credits the claimed order's output plus the additional amount,
// funded from the reserve account.
func (s *OrderService) payOut(
	ctx context.Context, order *domain.Order, settings *domain.Settings,
) error {
	balanceRepo := s.repoManager.BalanceRepository()

	if order.AmountOut > 0 {
		if err := balanceRepo.UpdateBalance(
			ctx, order.Owner, order.TokenOut,
			func(b *domain.Balance) (*domain.Balance, error) {
				if err := b.Credit(order.AmountOut); err != nil {
					return nil, err
				}
				return b, nil
			},
		); err != nil {
			return err
		}
	}

	if order.AdditionalAmount > 0 {
		if err := balanceRepo.UpdateBalance(
			ctx, domain.ReserveAccount, settings.UsdAsset,
			func(b *domain.Balance) (*domain.Balance, error) {
				if err := b.Debit(order.AdditionalAmount); err != nil {
					return nil, err
				}
				return b, nil
			},
		); err != nil {
			return err
		}
		if err := balanceRepo.UpdateBalance(
			ctx, order.Owner, settings.UsdAsset,
			func(b *domain.Balance) (*domain.Balance, error) {
				if err := b.Credit(order.AdditionalAmount); err != nil {
					return nil, err
				}
				return b, nil
			},
		); err != nil {
			return err
		}
	}

	log.Debugf("order %d claimed by %s", order.Id, order.Owner)
	return nil
}
