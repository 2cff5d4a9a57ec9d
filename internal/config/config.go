package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of
	// the daemon.
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported.
	DBTypeKey = "DB_TYPE"
	// MaxDurationKey is the maximum order lifetime in seconds.
	MaxDurationKey = "MAX_DURATION"
	// MaxExecutionTimeKey is the grace window in seconds after an order's end
	// timestamp during which it can still be executed.
	MaxExecutionTimeKey = "MAX_EXECUTION_TIME"
	// FullAccessAfterKey is the inactivity period in seconds after the last
	// batch execution before emergency recovery unlocks.
	FullAccessAfterKey = "FULL_ACCESS_AFTER"
	// PoolFeeKey is the fee tier passed to the swap router.
	PoolFeeKey = "POOL_FEE"
	// PriceSlippageKey is the percentage of slippage tolerated between the
	// quoted and the realized batch output.
	PriceSlippageKey = "PRICE_SLIPPAGE"
	// MaxAdditionalAmountPercentageKey caps the compensation paid on top of a
	// completed order, as a percentage of its converted input.
	MaxAdditionalAmountPercentageKey = "MAX_ADDITIONAL_AMOUNT_PERCENTAGE"
	// Owner1Key is the address of the first owner.
	Owner1Key = "OWNER1_ADDRESS"
	// Owner2Key is the address of the second owner.
	Owner2Key = "OWNER2_ADDRESS"
	// ServiceKey is the address of the service executor.
	ServiceKey = "SERVICE_ADDRESS"
	// PayerKey is the address of the payer executor.
	PayerKey = "PAYER_ADDRESS"
	// UsdAssetKey is the asset id of the USD token.
	UsdAssetKey = "USD_ASSET"
	// WrappedNativeAssetKey is the asset id the native currency wraps into.
	WrappedNativeAssetKey = "WRAPPED_NATIVE_ASSET"
	// StatsIntervalKey defines the interval in seconds for printing basic
	// engine statistics.
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation = "db"

	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var vip *viper.Viper

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("PAYER")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir())
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(MaxDurationKey, 86400)
	vip.SetDefault(MaxExecutionTimeKey, 3600)
	vip.SetDefault(FullAccessAfterKey, 2592000)
	vip.SetDefault(PoolFeeKey, 3000)
	vip.SetDefault(PriceSlippageKey, 5.0)
	vip.SetDefault(MaxAdditionalAmountPercentageKey, 10)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint32(key string) uint32 {
	return vip.GetUint32(key)
}

func GetInt64(key string) int64 {
	return vip.GetInt64(key)
}

func GetFloat(key string) float64 {
	return vip.GetFloat64(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	switch dbType := GetString(DBTypeKey); dbType {
	case DBBadger, DBInMemory:
	default:
		return fmt.Errorf("unsupported database type: %s", dbType)
	}

	slippage := GetFloat(PriceSlippageKey)
	if slippage < 0 || slippage >= 100 {
		return fmt.Errorf("%s must be within the [0, 100) range", PriceSlippageKey)
	}

	if !vip.IsSet(Owner1Key) || !vip.IsSet(Owner2Key) {
		return fmt.Errorf("missing owner addresses")
	}

	if !vip.IsSet(UsdAssetKey) {
		return fmt.Errorf("missing usd asset")
	}

	return nil
}

func initDatadir() error {
	return makeDirectoryIfNotExists(filepath.Join(GetDatadir(), DbLocation))
}

func defaultDatadir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".payerd"
	}
	return filepath.Join(home, ".payerd")
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
