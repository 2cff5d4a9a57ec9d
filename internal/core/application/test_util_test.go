package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/payerswap/payerd/internal/core/application"
	"github.com/payerswap/payerd/internal/core/domain"
	"github.com/payerswap/payerd/internal/core/ports"
	"github.com/payerswap/payerd/internal/infrastructure/bank"
	"github.com/payerswap/payerd/internal/infrastructure/storage/db/inmemory"
	"github.com/payerswap/payerd/internal/infrastructure/swaprouter"
)

const (
	usdcAsset = "usdc-asset"
	wbtcAsset = "wbtc-asset"
	wethAsset = "weth-asset"

	owner1      = "owner1"
	owner2      = "owner2"
	serviceAddr = "service"
	payerAddr   = "payer"
	user1       = "user1"
	user2       = "user2"
	stranger    = "stranger"

	maxExecutionTime = int64(60)
)

var ctx = context.Background()

type testEngine struct {
	repoManager ports.RepoManager
	bank        *bank.Service
	router      *swaprouter.Service

	ledger     *application.LedgerService
	orders     *application.OrderService
	operator   *application.OperatorService
	settlement *application.SettlementService
}

func newTestEngine(t *testing.T) *testEngine {
	repoManager := inmemory.NewRepoManager()

	err := repoManager.SettingsRepository().InitSettings(ctx, domain.Settings{
		Owner1:                        owner1,
		Owner2:                        owner2,
		Service:                       serviceAddr,
		PayerAddress:                  payerAddr,
		UsdAsset:                      usdcAsset,
		WrappedNativeAsset:            wethAsset,
		PoolFee:                       3000,
		MaxAdditionalAmountPercentage: 10,
		MaxDuration:                   86400,
		MaxExecutionTime:              maxExecutionTime,
		FullAccessAfter:               3600,
		LastExecutionTime:             time.Now().Unix(),
	})
	require.NoError(t, err)

	for _, token := range []domain.Token{
		{
			AssetId: usdcAsset, Ticker: "USDC", Decimals: 6, MinAmount: 1,
			AcceptedForDeposit: true, AcceptedForOrders: true, IsUsd: true,
		},
		{
			AssetId: wbtcAsset, Ticker: "WBTC", Decimals: 8, MinAmount: 1,
			AcceptedForDeposit: true, AcceptedForOrders: true,
		},
		{
			AssetId: wethAsset, Ticker: "WETH", Decimals: 18, MinAmount: 1,
			AcceptedForDeposit: true, AcceptedForOrders: true,
		},
	} {
		_, err := repoManager.TokenRepository().GetOrCreateToken(ctx, token)
		require.NoError(t, err)
	}

	assetBank := bank.NewService(wethAsset)
	router := swaprouter.NewService(repoManager.TokenRepository())

	locker := &sync.Mutex{}
	ledgerSvc := application.NewLedgerService(repoManager, assetBank, locker)
	orderSvc := application.NewOrderService(repoManager, assetBank, ledgerSvc, locker)
	operatorSvc := application.NewOperatorService(repoManager, assetBank, locker)
	settlementSvc := application.NewSettlementService(
		repoManager, router, assetBank, orderSvc, decimal.NewFromInt(5), locker,
	)

	return &testEngine{
		repoManager: repoManager,
		bank:        assetBank,
		router:      router,
		ledger:      ledgerSvc,
		orders:      orderSvc,
		operator:    operatorSvc,
		settlement:  settlementSvc,
	}
}

// fundAndDeposit mints the amount on the account's external wallet, grants
// the allowance and deposits it into custody.
func (e *testEngine) fundAndDeposit(
	t *testing.T, account, assetId string, amount uint64,
) {
	e.bank.Mint(account, assetId, amount)
	e.bank.Approve(account, assetId, amount)
	require.NoError(t, e.ledger.Deposit(ctx, account, assetId, amount))
}

// fundReserve fills the reserve account the additional amounts are paid from.
func (e *testEngine) fundReserve(t *testing.T, amount uint64) {
	e.bank.Mint(owner1, usdcAsset, amount)
	e.bank.Approve(owner1, usdcAsset, amount)
	require.NoError(t, e.ledger.FundReserve(ctx, owner1, amount))
}

func (e *testEngine) balanceOf(t *testing.T, account, assetId string) uint64 {
	balance, err := e.ledger.BalanceOf(ctx, account, assetId)
	require.NoError(t, err)
	return balance
}

func (e *testEngine) getOrder(t *testing.T, id uint64) *domain.Order {
	order, err := e.orders.GetOrder(ctx, id)
	require.NoError(t, err)
	return order
}
