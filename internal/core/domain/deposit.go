package domain

import (
	"context"

	"github.com/google/uuid"
)

// Deposit is the audit record of funds entering custody.
type Deposit struct {
	Id        string
	Account   string
	AssetId   string
	Amount    uint64
	Timestamp int64
}

// NewDeposit returns a deposit record with a fresh id.
func NewDeposit(account, assetId string, amount uint64, now int64) Deposit {
	return Deposit{
		Id:        uuid.New().String(),
		Account:   account,
		AssetId:   assetId,
		Amount:    amount,
		Timestamp: now,
	}
}

// DepositRepository is the abstraction for persisting deposit records.
type DepositRepository interface {
	AddDeposit(ctx context.Context, deposit Deposit) error
	ListDepositsForAccount(ctx context.Context, account string) ([]Deposit, error)
}
