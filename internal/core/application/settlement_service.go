package application

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/payerswap/payerd/internal/core/domain"
	"github.com/payerswap/payerd/internal/core/ports"
	"github.com/payerswap/payerd/pkg/circuitbreaker"
	"github.com/payerswap/payerd/pkg/mathutil"
)

// SettlementService drives batched order execution: it re-validates every
// caller-supplied aggregate against live quotes, swaps once per directed
// asset pair through the external facility and transitions the referenced
// orders. A failed batch leaves no persisted effects behind.
type SettlementService struct {
	repoManager ports.RepoManager
	swapRouter  ports.SwapRouter
	bank        ports.AssetBank
	orderSvc    *OrderService
	// slippagePercentage is the protective margin subtracted from the summed
	// desired output of a pair before rounding, e.g. 5 for 5%.
	slippagePercentage decimal.Decimal
	cb                 *gobreaker.CircuitBreaker
	locker             *sync.Mutex
}

func NewSettlementService(
	repoManager ports.RepoManager,
	swapRouter ports.SwapRouter,
	bank ports.AssetBank,
	orderSvc *OrderService,
	slippagePercentage decimal.Decimal,
	locker *sync.Mutex,
) *SettlementService {
	return &SettlementService{
		repoManager:        repoManager,
		swapRouter:         swapRouter,
		bank:               bank,
		orderSvc:           orderSvc,
		slippagePercentage: slippagePercentage,
		cb:                 circuitbreaker.NewCircuitBreaker("swaprouter"),
		locker:             locker,
	}
}

type pairKey struct {
	tokenIn  string
	tokenOut string
}

type pairAggregate struct {
	amountIn   uint64
	desiredOut decimal.Decimal
	boundOut   uint64
	orders     []*domain.Order
}

// ExecuteOrders settles the batch described by req on behalf of caller.
// Orders flagged for force expiration are unwound; the others are swapped at
// or after their end timestamp but before abandonment.
func (s *SettlementService) ExecuteOrders(
	ctx context.Context, caller string, req ExecuteOrdersRequest,
) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	settings, err := s.repoManager.SettingsRepository().GetSettings(ctx)
	if err != nil {
		return err
	}
	if !settings.IsExecutor(caller) {
		return domain.ErrNotAllowedAddress
	}
	if len(req.OrderIds) != len(req.ForceExpire) ||
		len(req.OrderIds) != len(req.AdditionalAmounts) {
		return domain.ErrDifferentLength
	}

	tokenRepo := s.repoManager.TokenRepository()
	feeToken, err := tokenRepo.GetToken(ctx, req.FeeAsset)
	if err != nil || !feeToken.IsUsd {
		return domain.ErrIsNotUsdToken
	}

	now := time.Now().Unix()
	orders := make([]*domain.Order, 0, len(req.OrderIds))
	tokens := make(map[string]*domain.Token)

	orderRepo := s.repoManager.OrderRepository()
	seen := make(map[uint64]struct{}, len(req.OrderIds))
	for i, id := range req.OrderIds {
		if _, ok := seen[id]; ok {
			return domain.ErrOrderAlreadyCompleted
		}
		seen[id] = struct{}{}

		order, err := orderRepo.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if order.IsClaimed() {
			return domain.ErrOrderAlreadyClaimed
		}
		if !order.IsPending() {
			return domain.ErrOrderAlreadyCompleted
		}
		if !req.ForceExpire[i] {
			// The swap path is only open between expiration and abandonment.
			if now < order.EndTimestamp ||
				now > order.EndTimestamp+settings.MaxExecutionTime {
				return domain.ErrWrongExpirationTime
			}
		}
		orders = append(orders, order)

		for _, assetId := range []string{order.TokenIn, order.TokenOut} {
			if _, ok := tokens[assetId]; !ok {
				token, err := tokenRepo.GetToken(ctx, assetId)
				if err != nil {
					return domain.ErrTokenNotAllowed
				}
				tokens[assetId] = token
			}
		}
	}

	if err := s.validateAdditionalAmounts(
		req, orders, tokens, feeToken,
	); err != nil {
		return err
	}

	// Immediate claims draw additional amounts from the reserve right after
	// the commit: the whole batch must be covered before anything mutates.
	if req.ClaimImmediately {
		var total uint64
		for i := range orders {
			if !req.ForceExpire[i] {
				total += req.AdditionalAmounts[i]
			}
		}
		if total > 0 {
			reserve, err := s.repoManager.BalanceRepository().GetBalance(
				ctx, domain.ReserveAccount, settings.UsdAsset,
			)
			if err != nil {
				return err
			}
			if reserve.Amount < total {
				return domain.ErrInsufficientBalance
			}
		}
	}

	pairs, pairOrder, err := s.aggregatePairs(ctx, req, orders, tokens)
	if err != nil {
		return err
	}

	// All validation passed: run the swaps. The facility either satisfies
	// the floor or fails, aborting the whole batch before any state change.
	realized := make(map[pairKey]uint64, len(pairOrder))
	for _, key := range pairOrder {
		agg := pairs[key]
		out, err := s.swap(
			ctx, key.tokenIn, key.tokenOut,
			agg.amountIn, agg.boundOut, settings.PoolFee,
		)
		if err != nil {
			return err
		}
		realized[key] = out
	}

	// Stage every transition in memory so a bad order aborts the batch
	// before the first persisted write.
	for i, order := range orders {
		if req.ForceExpire[i] {
			if err := order.Expire(); err != nil {
				return err
			}
		} else {
			key := pairKey{order.TokenIn, order.TokenOut}
			agg := pairs[key]
			amountOut := distribute(realized[key], order.AmountIn, agg.amountIn)
			if err := order.Complete(
				order.TokenOut, amountOut, req.AdditionalAmounts[i],
			); err != nil {
				return err
			}
		}
	}

	// Move the custody assets: the escrowed inputs leave toward the venue
	// and the realized outputs enter, so claimed payouts stay withdrawable.
	for _, key := range pairOrder {
		agg := pairs[key]
		if err := s.bank.Exchange(
			ctx, key.tokenIn, key.tokenOut, agg.amountIn, realized[key],
		); err != nil {
			return err
		}
	}

	for _, order := range orders {
		toCommit := order
		if err := orderRepo.UpdateOrder(
			ctx, order.Id,
			func(o *domain.Order) (*domain.Order, error) {
				return toCommit, nil
			},
		); err != nil {
			return err
		}
	}

	if err := s.repoManager.SettingsRepository().UpdateSettings(
		ctx,
		func(st *domain.Settings) (*domain.Settings, error) {
			st.LastExecutionTime = now
			return st, nil
		},
	); err != nil {
		return err
	}

	if req.ClaimImmediately {
		for _, order := range orders {
			if err := s.orderSvc.claimOrder(
				ctx, order.Owner, order.Id, order.TokenOut, false,
			); err != nil {
				return err
			}
		}
	}

	log.Infof("settled batch of %d orders for %s", len(orders), caller)
	return nil
}

// validateAdditionalAmounts recomputes every per-order reference currency
// supplement and requires integer equality with the caller's figures.
func (s *SettlementService) validateAdditionalAmounts(
	req ExecuteOrdersRequest,
	orders []*domain.Order,
	tokens map[string]*domain.Token,
	feeToken *domain.Token,
) error {
	for i, order := range orders {
		if req.ForceExpire[i] {
			// Unwinding zeroes the additional amount, nothing to validate.
			continue
		}
		inToken := tokens[order.TokenIn]

		var usdValue uint64
		if inToken.IsUsd {
			// Direct USD-class flow: the supplement is the input itself.
			usdValue = order.AmountIn
		} else {
			amountInHuman := inToken.FromBaseUnits(order.AmountIn)
			priceHuman := feeToken.FromBaseUnits(order.Price)
			usdValue = feeToken.ToBaseUnits(amountInHuman.Mul(priceHuman))
		}

		if req.AdditionalAmounts[i] != usdValue {
			return domain.ErrWrongAdditionalAmount
		}
	}
	return nil
}

// aggregatePairs nets the swap-path orders by directed pair, recomputes the
// acceptable minimum output from live quotes and matches it against the
// caller-supplied bounds. The caller may be more conservative, never less.
func (s *SettlementService) aggregatePairs(
	ctx context.Context,
	req ExecuteOrdersRequest,
	orders []*domain.Order,
	tokens map[string]*domain.Token,
) (map[pairKey]*pairAggregate, []pairKey, error) {
	pairs := make(map[pairKey]*pairAggregate)
	pairOrder := make([]pairKey, 0)

	for i, order := range orders {
		if req.ForceExpire[i] {
			continue
		}
		key := pairKey{order.TokenIn, order.TokenOut}
		agg, ok := pairs[key]
		if !ok {
			agg = &pairAggregate{desiredOut: decimal.Zero}
			pairs[key] = agg
			pairOrder = append(pairOrder, key)
		}
		agg.amountIn += order.AmountIn
		agg.orders = append(agg.orders, order)

		rate, err := s.quote(ctx, order.TokenIn, order.TokenOut)
		if err != nil {
			return nil, nil, err
		}
		amountInHuman := tokens[order.TokenIn].FromBaseUnits(order.AmountIn)
		agg.desiredOut = agg.desiredOut.Add(amountInHuman.Mul(rate))
	}

	bounds := make(map[pairKey]uint64, len(req.MinAmountsOut))
	for _, bound := range req.MinAmountsOut {
		bounds[pairKey{bound.TokenIn, bound.TokenOut}] = bound.AmountOutMin
	}

	for _, key := range pairOrder {
		agg := pairs[key]
		outToken := tokens[key.tokenOut]
		minOutHuman := mathutil.RoundDown(
			mathutil.ApplySlippage(agg.desiredOut, s.slippagePercentage),
			outToken.Decimals,
		)
		minOut := outToken.ToBaseUnits(minOutHuman)

		supplied, ok := bounds[key]
		if !ok || supplied < minOut {
			return nil, nil, domain.ErrIncorrectAmountOut
		}
		agg.boundOut = supplied
	}

	return pairs, pairOrder, nil
}

func (s *SettlementService) quote(
	ctx context.Context, tokenIn, tokenOut string,
) (decimal.Decimal, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.swapRouter.Quote(ctx, tokenIn, tokenOut)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return res.(decimal.Decimal), nil
}

func (s *SettlementService) swap(
	ctx context.Context,
	tokenIn, tokenOut string,
	amountIn, amountOutMin uint64,
	poolFee uint32,
) (uint64, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.swapRouter.Swap(ctx, tokenIn, tokenOut, amountIn, amountOutMin, poolFee)
	})
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}

// distribute returns the order's pro-rata share of the realized pair output.
// Integer flooring leaves any remainder in custody.
func distribute(realized, amountIn, pairAmountIn uint64) uint64 {
	if pairAmountIn == 0 {
		return 0
	}
	share := decimal.NewFromUint64(realized).
		Mul(decimal.NewFromUint64(amountIn)).
		Div(decimal.NewFromUint64(pairAmountIn)).
		Truncate(0)
	return uint64(share.IntPart())
}
