package domain

import (
	"context"

	"github.com/google/uuid"
)

// Withdrawal is the audit record of funds leaving custody.
type Withdrawal struct {
	Id        string
	Account   string
	AssetId   string
	Amount    uint64
	Timestamp int64
}

// NewWithdrawal returns a withdrawal record with a fresh id.
func NewWithdrawal(account, assetId string, amount uint64, now int64) Withdrawal {
	return Withdrawal{
		Id:        uuid.New().String(),
		Account:   account,
		AssetId:   assetId,
		Amount:    amount,
		Timestamp: now,
	}
}

// WithdrawalRepository is the abstraction for persisting withdrawal records.
type WithdrawalRepository interface {
	AddWithdrawal(ctx context.Context, withdrawal Withdrawal) error
	ListWithdrawalsForAccount(ctx context.Context, account string) ([]Withdrawal, error)
}
