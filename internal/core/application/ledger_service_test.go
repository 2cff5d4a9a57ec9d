package application_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/payerswap/payerd/internal/core/domain"
	"github.com/payerswap/payerd/internal/infrastructure/bank"
)

func TestDepositAndWithdraw(t *testing.T) {
	engine := newTestEngine(t)
	amount := uint64(1_000_000_000) // 1000 USDC

	engine.fundAndDeposit(t, user1, usdcAsset, amount)
	require.Equal(t, amount, engine.balanceOf(t, user1, usdcAsset))
	require.Equal(t, amount, engine.bank.HoldingOf(bank.CustodyAccount, usdcAsset))
	require.Zero(t, engine.bank.HoldingOf(user1, usdcAsset))

	err := engine.ledger.Withdraw(ctx, user1, usdcAsset, 400_000_000)
	require.NoError(t, err)
	require.Equal(t, uint64(600_000_000), engine.balanceOf(t, user1, usdcAsset))
	require.Equal(t, uint64(400_000_000), engine.bank.HoldingOf(user1, usdcAsset))

	deposits, err := engine.repoManager.DepositRepository().
		ListDepositsForAccount(ctx, user1)
	require.NoError(t, err)
	require.Len(t, deposits, 1)

	withdrawals, err := engine.repoManager.WithdrawalRepository().
		ListWithdrawalsForAccount(ctx, user1)
	require.NoError(t, err)
	require.Len(t, withdrawals, 1)
}

func TestFailingDeposit(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("zero_amount", func(t *testing.T) {
		err := engine.ledger.Deposit(ctx, user1, usdcAsset, 0)
		require.EqualError(t, err, domain.ErrZeroAmount.Error())
	})

	t.Run("unregistered_asset", func(t *testing.T) {
		err := engine.ledger.Deposit(ctx, user1, "unknown-asset", 100)
		require.EqualError(t, err, domain.ErrTokenNotAllowed.Error())
	})

	t.Run("not_accepted_for_deposit", func(t *testing.T) {
		_, err := engine.repoManager.TokenRepository().GetOrCreateToken(
			ctx, domain.Token{
				AssetId: "paused-asset", Ticker: "PAU", Decimals: 6,
				AcceptedForDeposit: false, AcceptedForOrders: true,
			},
		)
		require.NoError(t, err)

		err = engine.ledger.Deposit(ctx, user1, "paused-asset", 100)
		require.EqualError(t, err, domain.ErrTokenNotAllowed.Error())
	})

	t.Run("missing_allowance", func(t *testing.T) {
		engine.bank.Mint(user1, usdcAsset, 100)

		err := engine.ledger.Deposit(ctx, user1, usdcAsset, 100)
		require.EqualError(t, err, domain.ErrTransferFailed.Error())
		require.Zero(t, engine.balanceOf(t, user1, usdcAsset))
	})
}

func TestDepositAndWithdrawNative(t *testing.T) {
	engine := newTestEngine(t)
	amount := uint64(2_000_000_000_000_000_000) // 2 WETH

	engine.bank.MintNative(user1, amount)
	require.NoError(t, engine.ledger.DepositNative(ctx, user1, amount))
	require.Equal(t, amount, engine.balanceOf(t, user1, wethAsset))
	require.Zero(t, engine.bank.NativeOf(user1))

	err := engine.ledger.WithdrawNative(ctx, user1, amount/2)
	require.NoError(t, err)
	require.Equal(t, amount/2, engine.balanceOf(t, user1, wethAsset))
	require.Equal(t, amount/2, engine.bank.NativeOf(user1))
}

func TestFailingWithdraw(t *testing.T) {
	engine := newTestEngine(t)
	engine.fundAndDeposit(t, user1, usdcAsset, 100)

	t.Run("zero_amount", func(t *testing.T) {
		err := engine.ledger.Withdraw(ctx, user1, usdcAsset, 0)
		require.EqualError(t, err, domain.ErrZeroAmount.Error())
	})

	t.Run("insufficient_balance", func(t *testing.T) {
		err := engine.ledger.Withdraw(ctx, user1, usdcAsset, 101)
		require.EqualError(t, err, domain.ErrInsufficientBalance.Error())
		require.Equal(t, uint64(100), engine.balanceOf(t, user1, usdcAsset))
	})

	t.Run("failed_transfer_rolls_back_the_debit", func(t *testing.T) {
		// A ledger entry with no custody backing: the transfer out must fail
		// and leave the entry as it was.
		err := engine.repoManager.BalanceRepository().UpdateBalance(
			ctx, user2, wbtcAsset,
			func(b *domain.Balance) (*domain.Balance, error) {
				require.NoError(t, b.Credit(500))
				return b, nil
			},
		)
		require.NoError(t, err)

		err = engine.ledger.Withdraw(ctx, user2, wbtcAsset, 500)
		require.EqualError(t, err, domain.ErrTransferFailed.Error())
		require.Equal(t, uint64(500), engine.balanceOf(t, user2, wbtcAsset))
		require.Zero(t, engine.bank.HoldingOf(user2, wbtcAsset))
	})
}

func TestFundReserve(t *testing.T) {
	engine := newTestEngine(t)
	amount := uint64(50_000_000)

	engine.bank.Mint(stranger, usdcAsset, amount)
	engine.bank.Approve(stranger, usdcAsset, amount)
	err := engine.ledger.FundReserve(ctx, stranger, amount)
	require.EqualError(t, err, domain.ErrNotTheOwners.Error())

	engine.fundReserve(t, amount)
	require.Equal(t, amount, engine.balanceOf(t, domain.ReserveAccount, usdcAsset))
}

func TestBalances(t *testing.T) {
	engine := newTestEngine(t)
	engine.fundAndDeposit(t, user1, usdcAsset, 100)
	engine.fundAndDeposit(t, user1, wbtcAsset, 200)

	balances, err := engine.ledger.Balances(ctx, user1)
	require.NoError(t, err)
	require.Len(t, balances, 2)
}
