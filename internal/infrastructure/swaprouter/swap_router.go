// Package swaprouter provides a deterministic in-process implementation of
// ports.SwapRouter backed by a table of fixed exchange rates. It is the
// default router for local deployments and tests; a production deployment
// plugs a real venue behind the same interface.
package swaprouter

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"

	"github.com/payerswap/payerd/internal/core/domain"
	"github.com/payerswap/payerd/internal/core/ports"
)

// quotesPerSecond caps how often the router serves quotes, mimicking the
// throttling of an external price source.
const quotesPerSecond = 10

type pairKey struct {
	tokenIn  string
	tokenOut string
}

var _ ports.SwapRouter = (*Service)(nil)

type Service struct {
	tokenRepository domain.TokenRepository

	lock    *sync.RWMutex
	rates   map[pairKey]decimal.Decimal
	limiter ratelimit.Limiter
}

// NewService returns a fixed-ratio swap router. Rates are set with SetRatio
// and read on both Quote and Swap.
func NewService(tokenRepository domain.TokenRepository) *Service {
	return &Service{
		tokenRepository: tokenRepository,
		lock:            &sync.RWMutex{},
		rates:           make(map[pairKey]decimal.Decimal),
		limiter:         ratelimit.New(quotesPerSecond),
	}
}

// SetRatio fixes the exchange rate for the directed pair, expressed as
// tokenOut human units per tokenIn human unit. The reverse direction is not
// derived automatically.
func (s *Service) SetRatio(tokenIn, tokenOut string, rate decimal.Decimal) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.rates[pairKey{tokenIn, tokenOut}] = rate
}

func (s *Service) Quote(
	_ context.Context, tokenIn, tokenOut string,
) (decimal.Decimal, error) {
	s.limiter.Take()

	s.lock.RLock()
	defer s.lock.RUnlock()

	rate, ok := s.rates[pairKey{tokenIn, tokenOut}]
	if !ok {
		return decimal.Zero, fmt.Errorf(
			"no rate set for pair %s -> %s", tokenIn, tokenOut,
		)
	}
	return rate, nil
}

func (s *Service) Swap(
	ctx context.Context,
	tokenIn, tokenOut string,
	amountIn, amountOutMin uint64,
	poolFee uint32,
) (uint64, error) {
	rate, err := s.Quote(ctx, tokenIn, tokenOut)
	if err != nil {
		return 0, err
	}

	inToken, err := s.tokenRepository.GetToken(ctx, tokenIn)
	if err != nil {
		return 0, err
	}
	outToken, err := s.tokenRepository.GetToken(ctx, tokenOut)
	if err != nil {
		return 0, err
	}

	amountOut := outToken.ToBaseUnits(
		inToken.FromBaseUnits(amountIn).Mul(rate),
	)
	if amountOut < amountOutMin {
		return 0, fmt.Errorf(
			"swap output %d below required minimum %d", amountOut, amountOutMin,
		)
	}

	log.WithFields(log.Fields{
		"token_in":   tokenIn,
		"token_out":  tokenOut,
		"amount_in":  amountIn,
		"amount_out": amountOut,
		"pool_fee":   poolFee,
	}).Debug("swap executed")

	return amountOut, nil
}
