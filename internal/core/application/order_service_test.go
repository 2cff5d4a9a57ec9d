package application_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/payerswap/payerd/internal/core/domain"
)

const (
	wbtcDeposit = uint64(100_000_000)    // 1 WBTC
	wbtcIn      = uint64(50_000_000)     // 0.5 WBTC
	wbtcPrice   = uint64(30_000_000_000) // 30000 USDC per WBTC
)

func TestMakeOrder(t *testing.T) {
	engine := newTestEngine(t)
	engine.fundAndDeposit(t, user1, wbtcAsset, wbtcDeposit)

	id, err := engine.orders.MakeOrder(
		ctx, user1, wbtcAsset, usdcAsset, wbtcIn, wbtcPrice, 60,
	)
	require.NoError(t, err)
	require.Zero(t, id)
	require.Equal(t, wbtcDeposit-wbtcIn, engine.balanceOf(t, user1, wbtcAsset))

	order := engine.getOrder(t, id)
	require.True(t, order.IsPending())
	require.Equal(t, user1, order.Owner)
	require.Equal(t, wbtcAsset, order.TokenIn)
	require.Equal(t, usdcAsset, order.TokenOut)
	require.Equal(t, wbtcIn, order.AmountIn)
	require.Equal(t, order.CreatedAt+60, order.EndTimestamp)

	// Ids are monotonic and never reused.
	nextId, err := engine.orders.MakeOrder(
		ctx, user1, wbtcAsset, usdcAsset, wbtcIn, wbtcPrice, 60,
	)
	require.NoError(t, err)
	require.Equal(t, id+1, nextId)

	all, err := engine.orders.ListOrdersForAccount(ctx, user1)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestFailingMakeOrder(t *testing.T) {
	engine := newTestEngine(t)
	engine.fundAndDeposit(t, user1, wbtcAsset, wbtcDeposit)

	_, err := engine.repoManager.TokenRepository().GetOrCreateToken(
		ctx, domain.Token{
			AssetId: "no-orders-asset", Ticker: "NOO", Decimals: 6,
			AcceptedForDeposit: true, AcceptedForOrders: false,
		},
	)
	require.NoError(t, err)

	require.NoError(
		t,
		engine.repoManager.TokenRepository().UpdateToken(
			ctx, wbtcAsset,
			func(tk *domain.Token) (*domain.Token, error) {
				tk.MinAmount = 1000
				return tk, nil
			},
		),
	)

	tests := []struct {
		name        string
		tokenIn     string
		tokenOut    string
		amountIn    uint64
		duration    int64
		expectedErr error
	}{
		{
			name:    "zero_amount",
			tokenIn: wbtcAsset, tokenOut: usdcAsset,
			amountIn: 0, duration: 60,
			expectedErr: domain.ErrZeroAmount,
		},
		{
			name:    "same_tokens",
			tokenIn: wbtcAsset, tokenOut: wbtcAsset,
			amountIn: wbtcIn, duration: 60,
			expectedErr: domain.ErrSameTokens,
		},
		{
			name:    "duration_too_long",
			tokenIn: wbtcAsset, tokenOut: usdcAsset,
			amountIn: wbtcIn, duration: 86401,
			expectedErr: domain.ErrDurationTooLong,
		},
		{
			name:    "unregistered_token_out",
			tokenIn: wbtcAsset, tokenOut: "unknown-asset",
			amountIn: wbtcIn, duration: 60,
			expectedErr: domain.ErrTokenNotAllowed,
		},
		{
			name:    "token_not_accepted_for_orders",
			tokenIn: wbtcAsset, tokenOut: "no-orders-asset",
			amountIn: wbtcIn, duration: 60,
			expectedErr: domain.ErrTokenNotAllowed,
		},
		{
			name:    "amount_below_minimum",
			tokenIn: wbtcAsset, tokenOut: usdcAsset,
			amountIn: 999, duration: 60,
			expectedErr: domain.ErrAmountBelowMinimum,
		},
		{
			name:    "insufficient_balance",
			tokenIn: wbtcAsset, tokenOut: usdcAsset,
			amountIn: wbtcDeposit + 1, duration: 60,
			expectedErr: domain.ErrInsufficientBalance,
		},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.orders.MakeOrder(
				ctx, user1, tt.tokenIn, tt.tokenOut,
				tt.amountIn, wbtcPrice, tt.duration,
			)
			require.EqualError(t, err, tt.expectedErr.Error())
		})
	}

	// No escrow was taken by any of the rejected calls.
	require.Equal(t, wbtcDeposit, engine.balanceOf(t, user1, wbtcAsset))
}

func TestDepositAndOrder(t *testing.T) {
	engine := newTestEngine(t)
	engine.bank.Mint(user1, wbtcAsset, wbtcDeposit)
	engine.bank.Approve(user1, wbtcAsset, wbtcDeposit)

	id, err := engine.orders.DepositAndOrder(
		ctx, user1, wbtcAsset, usdcAsset, wbtcDeposit, wbtcIn, wbtcPrice, 60,
	)
	require.NoError(t, err)
	require.Equal(t, wbtcDeposit-wbtcIn, engine.balanceOf(t, user1, wbtcAsset))

	order := engine.getOrder(t, id)
	require.True(t, order.IsPending())
}

func TestDepositNativeAndOrder(t *testing.T) {
	engine := newTestEngine(t)
	amount := uint64(1_000_000_000_000_000_000) // 1 WETH
	engine.bank.MintNative(user1, amount)

	id, err := engine.orders.DepositNativeAndOrder(
		ctx, user1, usdcAsset, amount, 3_000_000_000, 60,
	)
	require.NoError(t, err)

	order := engine.getOrder(t, id)
	require.Equal(t, wethAsset, order.TokenIn)
	require.Equal(t, usdcAsset, order.TokenOut)
	require.Equal(t, amount, order.AmountIn)
	// The whole native deposit went into escrow.
	require.Zero(t, engine.balanceOf(t, user1, wethAsset))
}

func TestClaimLapsedOrder(t *testing.T) {
	engine := newTestEngine(t)
	engine.fundAndDeposit(t, user1, wbtcAsset, wbtcDeposit)

	// Negative duration puts the settlement window entirely in the past.
	id, err := engine.orders.MakeOrder(
		ctx, user1, wbtcAsset, usdcAsset, wbtcIn, wbtcPrice, -2*maxExecutionTime,
	)
	require.NoError(t, err)

	err = engine.orders.ClaimOrder(ctx, user1, id, wbtcAsset, false)
	require.NoError(t, err)

	order := engine.getOrder(t, id)
	require.True(t, order.IsClaimed())
	require.Equal(t, wbtcAsset, order.TokenOut)
	require.Equal(t, wbtcIn, order.AmountOut)
	// The escrowed input came back in full.
	require.Equal(t, wbtcDeposit, engine.balanceOf(t, user1, wbtcAsset))

	err = engine.orders.ClaimOrder(ctx, user1, id, wbtcAsset, false)
	require.EqualError(t, err, domain.ErrOrderAlreadyClaimed.Error())
}

func TestFailingClaimOrder(t *testing.T) {
	engine := newTestEngine(t)
	engine.fundAndDeposit(t, user1, wbtcAsset, wbtcDeposit)

	t.Run("order_not_found", func(t *testing.T) {
		err := engine.orders.ClaimOrder(ctx, user1, 42, usdcAsset, false)
		require.EqualError(t, err, domain.ErrOrderNotFound.Error())
	})

	t.Run("still_within_settlement_window", func(t *testing.T) {
		id, err := engine.orders.MakeOrder(
			ctx, user1, wbtcAsset, usdcAsset, wbtcIn, wbtcPrice, 3600,
		)
		require.NoError(t, err)

		err = engine.orders.ClaimOrder(ctx, user1, id, usdcAsset, false)
		require.EqualError(t, err, domain.ErrOrderNotCompleted.Error())
	})

	t.Run("forced_claim_by_stranger", func(t *testing.T) {
		id, err := engine.orders.MakeOrder(
			ctx, user1, wbtcAsset, usdcAsset, wbtcIn,
			wbtcPrice, -2*maxExecutionTime,
		)
		require.NoError(t, err)

		err = engine.orders.ClaimOrder(ctx, stranger, id, wbtcAsset, true)
		require.EqualError(t, err, domain.ErrAvailableOnlyOwner.Error())
	})
}
