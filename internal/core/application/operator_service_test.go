package application_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/payerswap/payerd/internal/core/domain"
)

func TestSettingsSetters(t *testing.T) {
	engine := newTestEngine(t)

	poolFee, err := engine.operator.SetPoolFee(ctx, owner1, 500)
	require.NoError(t, err)
	require.Equal(t, uint32(500), poolFee)

	percentage, err := engine.operator.SetMaxAdditionalAmountPercentage(ctx, owner2, 20)
	require.NoError(t, err)
	require.Equal(t, uint32(20), percentage)

	maxDuration, err := engine.operator.SetMaxDuration(ctx, owner1, 7200)
	require.NoError(t, err)
	require.Equal(t, int64(7200), maxDuration)

	maxExecution, err := engine.operator.SetMaxExecutionTime(ctx, owner1, 120)
	require.NoError(t, err)
	require.Equal(t, int64(120), maxExecution)

	fullAccess, err := engine.operator.SetFullAccessAfter(ctx, owner1, 7776000)
	require.NoError(t, err)
	require.Equal(t, int64(7776000), fullAccess)

	serviceAddress, err := engine.operator.SetServiceAddress(ctx, owner1, "new-service")
	require.NoError(t, err)
	require.Equal(t, "new-service", serviceAddress)

	payerAddress, err := engine.operator.SetPayerAddress(ctx, owner1, "new-payer")
	require.NoError(t, err)
	require.Equal(t, "new-payer", payerAddress)

	owner2Address, err := engine.operator.SetOwner2Address(ctx, owner1, "new-owner2")
	require.NoError(t, err)
	require.Equal(t, "new-owner2", owner2Address)

	settings, err := engine.operator.GetSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(500), settings.PoolFee)
	require.Equal(t, uint32(20), settings.MaxAdditionalAmountPercentage)
	require.Equal(t, int64(7200), settings.MaxDuration)
	require.Equal(t, int64(120), settings.MaxExecutionTime)
	require.Equal(t, int64(7776000), settings.FullAccessAfter)
	require.Equal(t, "new-service", settings.Service)
	require.Equal(t, "new-payer", settings.PayerAddress)
	require.Equal(t, "new-owner2", settings.Owner2)

	// The rotated identity is effective immediately.
	_, err = engine.operator.SetPoolFee(ctx, "new-owner2", 600)
	require.NoError(t, err)
	_, err = engine.operator.SetPoolFee(ctx, owner2, 700)
	require.EqualError(t, err, domain.ErrNotTheOwners.Error())
}

func TestFailingSettingsSetters(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.operator.SetPoolFee(ctx, stranger, 500)
	require.EqualError(t, err, domain.ErrNotTheOwners.Error())

	_, err = engine.operator.SetOwner1Address(ctx, serviceAddr, "hijacked")
	require.EqualError(t, err, domain.ErrNotTheOwners.Error())
}

func TestEditAcceptableToken(t *testing.T) {
	engine := newTestEngine(t)
	newToken := domain.Token{
		AssetId: "link-asset", Ticker: "LINK", Decimals: 18, MinAmount: 1,
		AcceptedForDeposit: true, AcceptedForOrders: true,
	}

	t.Run("only_owners", func(t *testing.T) {
		err := engine.operator.EditAcceptableToken(ctx, stranger, newToken)
		require.EqualError(t, err, domain.ErrNotTheOwners.Error())
	})

	t.Run("register_new_token", func(t *testing.T) {
		err := engine.operator.EditAcceptableToken(ctx, owner1, newToken)
		require.NoError(t, err)

		tokens, err := engine.operator.ListAcceptableTokens(ctx)
		require.NoError(t, err)
		require.Equal(t, "link-asset", tokens[len(tokens)-1].AssetId)
	})

	t.Run("second_usd_designation_rejected", func(t *testing.T) {
		usurper := domain.Token{
			AssetId: "usdt-asset", Ticker: "USDT", Decimals: 6,
			AcceptedForDeposit: true, AcceptedForOrders: true, IsUsd: true,
		}
		err := engine.operator.EditAcceptableToken(ctx, owner1, usurper)
		require.EqualError(t, err, domain.ErrUsdTokenAlreadySet.Error())
	})

	t.Run("reenabling_appends_at_the_end", func(t *testing.T) {
		disabled := newToken
		disabled.AcceptedForDeposit = false
		require.NoError(t, engine.operator.EditAcceptableToken(ctx, owner1, disabled))

		tokens, err := engine.operator.ListAcceptableTokens(ctx)
		require.NoError(t, err)
		for _, token := range tokens {
			require.NotEqual(t, "link-asset", token.AssetId)
		}

		require.NoError(t, engine.operator.EditAcceptableToken(ctx, owner1, newToken))
		tokens, err = engine.operator.ListAcceptableTokens(ctx)
		require.NoError(t, err)
		require.Equal(t, "link-asset", tokens[len(tokens)-1].AssetId)
	})
}

func TestIsUsdToken(t *testing.T) {
	engine := newTestEngine(t)

	isUsd, err := engine.operator.IsUsdToken(ctx, usdcAsset)
	require.NoError(t, err)
	require.True(t, isUsd)

	isUsd, err = engine.operator.IsUsdToken(ctx, wbtcAsset)
	require.NoError(t, err)
	require.False(t, isUsd)

	_, err = engine.operator.IsUsdToken(ctx, "unknown-asset")
	require.EqualError(t, err, domain.ErrTokenNotFound.Error())
}

func TestEmergencyQuit(t *testing.T) {
	unlock := func(t *testing.T, engine *testEngine) {
		require.NoError(
			t,
			engine.repoManager.SettingsRepository().UpdateSettings(
				ctx,
				func(s *domain.Settings) (*domain.Settings, error) {
					s.LastExecutionTime = 0
					s.FullAccessAfter = 0
					return s, nil
				},
			),
		)
	}

	t.Run("locked_before_full_access", func(t *testing.T) {
		engine := newTestEngine(t)
		engine.fundAndDeposit(t, user1, usdcAsset, 100)

		err := engine.operator.EmergencyQuit(ctx, owner1, user1, usdcAsset, 100)
		require.EqualError(t, err, domain.ErrEmergencyLocked.Error())
	})

	t.Run("only_owners_after_unlock", func(t *testing.T) {
		engine := newTestEngine(t)
		engine.fundAndDeposit(t, user1, usdcAsset, 100)
		unlock(t, engine)

		err := engine.operator.EmergencyQuit(ctx, stranger, user1, usdcAsset, 100)
		require.EqualError(t, err, domain.ErrAvailableOnlyOwner.Error())
	})

	t.Run("unclaimed_order_blocks_sweep", func(t *testing.T) {
		engine := newTestEngine(t)
		engine.fundAndDeposit(t, user1, usdcAsset, 100)
		_, err := engine.orders.MakeOrder(
			ctx, user1, usdcAsset, wbtcAsset, 50, 1_000_000, 3600,
		)
		require.NoError(t, err)
		unlock(t, engine)

		err = engine.operator.EmergencyQuit(ctx, owner1, user1, usdcAsset, 50)
		require.EqualError(t, err, domain.ErrOrderNotClaimed.Error())
	})

	t.Run("sweeps_to_the_caller", func(t *testing.T) {
		engine := newTestEngine(t)
		engine.fundAndDeposit(t, user1, usdcAsset, 100)
		unlock(t, engine)

		err := engine.operator.EmergencyQuit(ctx, owner2, user1, usdcAsset, 100)
		require.NoError(t, err)
		require.Zero(t, engine.balanceOf(t, user1, usdcAsset))
		require.Equal(t, uint64(100), engine.bank.HoldingOf(owner2, usdcAsset))
	})

	t.Run("failed_transfer_rolls_back_the_debit", func(t *testing.T) {
		engine := newTestEngine(t)
		err := engine.repoManager.BalanceRepository().UpdateBalance(
			ctx, user1, usdcAsset,
			func(b *domain.Balance) (*domain.Balance, error) {
				require.NoError(t, b.Credit(100))
				return b, nil
			},
		)
		require.NoError(t, err)
		unlock(t, engine)

		err = engine.operator.EmergencyQuit(ctx, owner1, user1, usdcAsset, 100)
		require.EqualError(t, err, domain.ErrTransferFailed.Error())
		require.Equal(t, uint64(100), engine.balanceOf(t, user1, usdcAsset))
		require.Zero(t, engine.bank.HoldingOf(owner1, usdcAsset))
	})

	t.Run("claimed_orders_do_not_block", func(t *testing.T) {
		engine := newTestEngine(t)
		engine.fundAndDeposit(t, user1, usdcAsset, 100)
		id, err := engine.orders.MakeOrder(
			ctx, user1, usdcAsset, wbtcAsset, 50, 1_000_000, -2*maxExecutionTime,
		)
		require.NoError(t, err)
		require.NoError(t, engine.orders.ClaimOrder(ctx, user1, id, usdcAsset, false))
		unlock(t, engine)

		err = engine.operator.EmergencyQuit(ctx, owner1, user1, usdcAsset, 100)
		require.NoError(t, err)
	})
}
