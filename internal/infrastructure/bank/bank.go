// Package bank provides an in-process implementation of ports.AssetBank. It
// models external wallets as per-account asset balances with an explicit
// allowance step before funds can be pulled into custody, and converts the
// native currency into its wrapped form on the way in.
package bank

import (
	"context"
	"fmt"
	"sync"

	"github.com/payerswap/payerd/internal/core/ports"
)

// CustodyAccount is the synthetic account holding everything pulled in.
const CustodyAccount = "custody"

type holdingKey struct {
	account string
	assetId string
}

type Service struct {
	wrappedNativeAsset string

	lock       *sync.Mutex
	holdings   map[holdingKey]uint64
	allowances map[holdingKey]uint64
	native     map[string]uint64
}

var _ ports.AssetBank = (*Service)(nil)

// NewService returns an empty bank. wrappedNativeAsset is the asset id the
// native currency turns into when wrapped.
func NewService(wrappedNativeAsset string) *Service {
	return &Service{
		wrappedNativeAsset: wrappedNativeAsset,
		lock:               &sync.Mutex{},
		holdings:           make(map[holdingKey]uint64),
		allowances:         make(map[holdingKey]uint64),
		native:             make(map[string]uint64),
	}
}

// Mint credits the account's external wallet out of thin air.
func (s *Service) Mint(account, assetId string, amount uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.holdings[holdingKey{account, assetId}] += amount
}

// MintNative credits the account's native currency wallet.
func (s *Service) MintNative(account string, amount uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.native[account] += amount
}

// Approve grants custody the right to pull up to amount of the account's
// asset. It overwrites any previous allowance.
func (s *Service) Approve(account, assetId string, amount uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.allowances[holdingKey{account, assetId}] = amount
}

// HoldingOf reports the account's external wallet balance.
func (s *Service) HoldingOf(account, assetId string) uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.holdings[holdingKey{account, assetId}]
}

// NativeOf reports the account's native currency balance.
func (s *Service) NativeOf(account string) uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.native[account]
}

func (s *Service) TransferIn(
	_ context.Context, from, assetId string, amount uint64,
) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	key := holdingKey{from, assetId}
	if s.allowances[key] < amount {
		return fmt.Errorf(
			"allowance of %s for asset %s is below %d", from, assetId, amount,
		)
	}
	if s.holdings[key] < amount {
		return fmt.Errorf(
			"holding of %s for asset %s is below %d", from, assetId, amount,
		)
	}

	s.allowances[key] -= amount
	s.holdings[key] -= amount
	s.holdings[holdingKey{CustodyAccount, assetId}] += amount
	return nil
}

func (s *Service) TransferOut(
	_ context.Context, to, assetId string, amount uint64,
) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	custodyKey := holdingKey{CustodyAccount, assetId}
	if s.holdings[custodyKey] < amount {
		return fmt.Errorf(
			"custody holding for asset %s is below %d", assetId, amount,
		)
	}

	s.holdings[custodyKey] -= amount
	s.holdings[holdingKey{to, assetId}] += amount
	return nil
}

func (s *Service) Exchange(
	_ context.Context, assetIn, assetOut string, amountIn, amountOut uint64,
) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	custodyInKey := holdingKey{CustodyAccount, assetIn}
	if s.holdings[custodyInKey] < amountIn {
		return fmt.Errorf(
			"custody holding for asset %s is below %d", assetIn, amountIn,
		)
	}

	s.holdings[custodyInKey] -= amountIn
	s.holdings[holdingKey{CustodyAccount, assetOut}] += amountOut
	return nil
}

func (s *Service) WrapNative(
	_ context.Context, from string, amount uint64,
) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.native[from] < amount {
		return fmt.Errorf("native balance of %s is below %d", from, amount)
	}

	s.native[from] -= amount
	s.holdings[holdingKey{CustodyAccount, s.wrappedNativeAsset}] += amount
	return nil
}

func (s *Service) UnwrapNative(
	_ context.Context, to string, amount uint64,
) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	custodyKey := holdingKey{CustodyAccount, s.wrappedNativeAsset}
	if s.holdings[custodyKey] < amount {
		return fmt.Errorf("wrapped custody holding is below %d", amount)
	}

	s.holdings[custodyKey] -= amount
	s.native[to] += amount
	return nil
}
