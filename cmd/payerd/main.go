package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/payerswap/payerd/internal/config"
	"github.com/payerswap/payerd/internal/core/application"
	"github.com/payerswap/payerd/internal/core/domain"
	"github.com/payerswap/payerd/internal/core/ports"
	"github.com/payerswap/payerd/internal/infrastructure/bank"
	dbbadger "github.com/payerswap/payerd/internal/infrastructure/storage/db/badger"
	"github.com/payerswap/payerd/internal/infrastructure/storage/db/inmemory"
	"github.com/payerswap/payerd/internal/infrastructure/swaprouter"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "payerd",
		Usage:   "custodial settlement daemon for price-protected conditional swaps",
		Version: version,
		Action:  runDaemon,
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("daemon exited with error")
	}
}

func runDaemon(_ *cli.Context) error {
	if err := config.InitConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repoManager, err := openDb()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer repoManager.Close()

	ctx := context.Background()
	if err := repoManager.SettingsRepository().InitSettings(
		ctx, settingsFromConfig(),
	); err != nil {
		return fmt.Errorf("initializing settings: %w", err)
	}

	assetBank := bank.NewService(config.GetString(config.WrappedNativeAssetKey))
	swapRouter := swaprouter.NewService(repoManager.TokenRepository())

	locker := &sync.Mutex{}
	ledgerSvc := application.NewLedgerService(repoManager, assetBank, locker)
	orderSvc := application.NewOrderService(repoManager, assetBank, ledgerSvc, locker)
	engine := engineServices{
		ledger:     ledgerSvc,
		orders:     orderSvc,
		operator:   application.NewOperatorService(repoManager, assetBank, locker),
		settlement: application.NewSettlementService(
			repoManager, swapRouter, assetBank, orderSvc,
			decimal.NewFromFloat(config.GetFloat(config.PriceSlippageKey)),
			locker,
		),
	}

	log.WithFields(log.Fields{
		"version": version,
		"datadir": config.GetDatadir(),
		"db_type": config.GetString(config.DBTypeKey),
	}).Info("daemon started")

	stop := make(chan struct{})
	defer close(stop)
	go engine.printStats(ctx, stop)
	go engine.sweepAbandoned(ctx, stop)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down")
	return nil
}

// engineServices bundles the application surface the transport layer mounts
// on top of.
type engineServices struct {
	ledger     *application.LedgerService
	orders     *application.OrderService
	operator   *application.OperatorService
	settlement *application.SettlementService
}

// printStats periodically logs basic engine statistics.
func (e engineServices) printStats(ctx context.Context, stop <-chan struct{}) {
	interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			orders, err := e.orders.ListOrders(ctx)
			if err != nil {
				log.WithError(err).Warn("could not gather order stats")
				continue
			}
			var pending int
			for _, order := range orders {
				if order.IsPending() {
					pending++
				}
			}
			reserve, err := e.ledger.BalanceOf(
				ctx, domain.ReserveAccount, config.GetString(config.UsdAssetKey),
			)
			if err != nil {
				log.WithError(err).Warn("could not read reserve balance")
			}
			log.WithFields(log.Fields{
				"orders":  len(orders),
				"pending": pending,
				"reserve": reserve,
			}).Info("engine stats")
		}
	}
}

// sweepAbandoned periodically force-expires pending orders whose settlement
// window lapsed, so owners get their refund back on the next regular claim.
func (e engineServices) sweepAbandoned(ctx context.Context, stop <-chan struct{}) {
	interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := e.expireAbandoned(ctx); err != nil {
				log.WithError(err).Warn("abandoned order sweep failed")
			}
		}
	}
}

func (e engineServices) expireAbandoned(ctx context.Context) error {
	settings, err := e.operator.GetSettings(ctx)
	if err != nil {
		return err
	}
	orders, err := e.orders.ListOrders(ctx)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	ids := make([]uint64, 0)
	for _, order := range orders {
		if order.CanForceClaim(now, settings.MaxExecutionTime) {
			ids = append(ids, order.Id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	req := application.ExecuteOrdersRequest{
		OrderIds:          ids,
		ForceExpire:       make([]bool, len(ids)),
		AdditionalAmounts: make([]uint64, len(ids)),
		FeeAsset:          settings.UsdAsset,
	}
	for i := range req.ForceExpire {
		req.ForceExpire[i] = true
	}

	if err := e.settlement.ExecuteOrders(ctx, settings.Service, req); err != nil {
		return err
	}
	log.Infof("expired %d abandoned orders", len(ids))
	return nil
}

func openDb() (ports.RepoManager, error) {
	switch config.GetString(config.DBTypeKey) {
	case config.DBInMemory:
		return inmemory.NewRepoManager(), nil
	default:
		dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)
		return dbbadger.NewRepoManager(dbDir, nil)
	}
}

func settingsFromConfig() domain.Settings {
	return domain.Settings{
		Owner1:                        config.GetString(config.Owner1Key),
		Owner2:                        config.GetString(config.Owner2Key),
		Service:                       config.GetString(config.ServiceKey),
		PayerAddress:                  config.GetString(config.PayerKey),
		UsdAsset:                      config.GetString(config.UsdAssetKey),
		WrappedNativeAsset:            config.GetString(config.WrappedNativeAssetKey),
		PoolFee:                       config.GetUint32(config.PoolFeeKey),
		MaxAdditionalAmountPercentage: config.GetUint32(config.MaxAdditionalAmountPercentageKey),
		MaxDuration:                   config.GetInt64(config.MaxDurationKey),
		MaxExecutionTime:              config.GetInt64(config.MaxExecutionTimeKey),
		FullAccessAfter:               config.GetInt64(config.FullAccessAfterKey),
		LastExecutionTime:             time.Now().Unix(),
	}
}
