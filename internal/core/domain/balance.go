package domain

import "math"

// ReserveAccount is the distinguished ledger account holding the
// operator-funded pool the additional amounts are paid from.
const ReserveAccount = "reserve"

// Balance is the custodial ledger entry for a (account, asset) pair. Amounts
// are expressed in the asset's smallest unit.
type Balance struct {
	Account string
	AssetId string
	Amount  uint64
}

// BalanceKey identifies a Balance.
type BalanceKey struct {
	Account string
	AssetId string
}

func (b Balance) Key() BalanceKey {
	return BalanceKey{Account: b.Account, AssetId: b.AssetId}
}

// Credit increases the entry by the given amount.
func (b *Balance) Credit(amount uint64) error {
	if amount > math.MaxUint64-b.Amount {
		return ErrTransferFailed
	}
	b.Amount += amount
	return nil
}

// Debit decreases the entry by the given amount, failing with
// ErrInsufficientBalance if the entry does not cover it.
func (b *Balance) Debit(amount uint64) error {
	if amount > b.Amount {
		return ErrInsufficientBalance
	}
	b.Amount -= amount
	return nil
}
