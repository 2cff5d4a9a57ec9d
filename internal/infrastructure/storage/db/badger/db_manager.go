package dbbadger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"

	"github.com/payerswap/payerd/internal/core/domain"
	"github.com/payerswap/payerd/internal/core/ports"
)

// DbManager holds all the badgerhold stores in a single data structure. The
// engine is single-writer, so the stores are used without explicit badger
// transactions.
type DbManager struct {
	// OrderStore persists orders and the id sequence.
	OrderStore *badgerhold.Store
	// LedgerStore persists balances.
	LedgerStore *badgerhold.Store
	// MainStore persists the registry, the settings and the audit records.
	MainStore *badgerhold.Store

	orderSeq *badger.Sequence

	tokenRepository      domain.TokenRepository
	balanceRepository    domain.BalanceRepository
	orderRepository      domain.OrderRepository
	settingsRepository   domain.SettingsRepository
	depositRepository    domain.DepositRepository
	withdrawalRepository domain.WithdrawalRepository
}

// NewRepoManager opens (or creates if missing) the badger stores under the
// given base data dir and returns them wrapped behind ports.RepoManager.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	orderDb, err := createDb(baseDbDir+"/orders", logger)
	if err != nil {
		return nil, fmt.Errorf("opening orders db: %w", err)
	}

	ledgerDb, err := createDb(baseDbDir+"/ledger", logger)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	mainDb, err := createDb(baseDbDir+"/main", logger)
	if err != nil {
		return nil, fmt.Errorf("opening main db: %w", err)
	}

	orderSeq, err := orderDb.Badger().GetSequence([]byte("order_id"), 1)
	if err != nil {
		return nil, fmt.Errorf("opening order id sequence: %w", err)
	}

	db := &DbManager{
		OrderStore:  orderDb,
		LedgerStore: ledgerDb,
		MainStore:   mainDb,
		orderSeq:    orderSeq,
	}
	db.tokenRepository = newTokenRepositoryImpl(db)
	db.balanceRepository = newBalanceRepositoryImpl(db)
	db.orderRepository = newOrderRepositoryImpl(db)
	db.settingsRepository = newSettingsRepositoryImpl(db)
	db.depositRepository = newDepositRepositoryImpl(db)
	db.withdrawalRepository = newWithdrawalRepositoryImpl(db)
	return db, nil
}

func (d *DbManager) TokenRepository() domain.TokenRepository {
	return d.tokenRepository
}

func (d *DbManager) BalanceRepository() domain.BalanceRepository {
	return d.balanceRepository
}

func (d *DbManager) OrderRepository() domain.OrderRepository {
	return d.orderRepository
}

func (d *DbManager) SettingsRepository() domain.SettingsRepository {
	return d.settingsRepository
}

func (d *DbManager) DepositRepository() domain.DepositRepository {
	return d.depositRepository
}

func (d *DbManager) WithdrawalRepository() domain.WithdrawalRepository {
	return d.withdrawalRepository
}

func (d *DbManager) Close() {
	if err := d.orderSeq.Release(); err != nil {
		log.WithError(err).Warn("could not release order id sequence")
	}
	for _, store := range []*badgerhold.Store{
		d.OrderStore, d.LedgerStore, d.MainStore,
	} {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("could not close badger store")
		}
	}
}

func (d *DbManager) nextOrderId() (uint64, error) {
	return d.orderSeq.Next()
}

// JSONEncode is a custom JSON based encoder for badger.
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer
	en := json.NewEncoder(&buff)
	if err := en.Encode(value); err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger.
func JSONDecode(data []byte, value interface{}) error {
	var buff bytes.Buffer
	de := json.NewDecoder(&buff)
	if _, err := buff.Write(data); err != nil {
		return err
	}
	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
