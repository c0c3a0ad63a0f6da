package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/octra-network/octra-daemon/pkg/ledger"
	"github.com/octra-network/octra-daemon/pkg/ledger/octra"
	"github.com/octra-network/octra-daemon/pkg/ledger/rest"
)

const (
	// LedgerEndpointKey is the base URL of the ledger RPC endpoint
	LedgerEndpointKey = "LEDGER_ENDPOINT"
	// LedgerDialectKey selects the RPC dialect spoken by the endpoint. Either
	// "octra" (native API, the default) or "rest" (versioned REST API)
	LedgerDialectKey = "LEDGER_DIALECT"
	// LedgerRequestTimeoutKey are the milliseconds to wait for HTTP responses before timeouts
	LedgerRequestTimeoutKey = "LEDGER_REQUEST_TIMEOUT"
	// StatusCacheTTLKey is the number of seconds a fetched (nonce, balance) pair stays fresh
	StatusCacheTTLKey = "STATUS_CACHE_TTL"
	// HistoryCacheTTLKey is the number of seconds the fetched transaction history stays fresh
	HistoryCacheTTLKey = "HISTORY_CACHE_TTL"
	// HistoryLimitKey is the default number of transaction references fetched per history refresh
	HistoryLimitKey = "HISTORY_LIMIT"
	// BatchSizeKey is the number of transactions submitted concurrently per batch wave
	BatchSizeKey = "BATCH_SIZE"
	// BroadcastLimitKey represents number of submissions per second towards the ledger
	BroadcastLimitKey = "BROADCAST_LIMIT"
	// BroadcastTokenBurst represents number of burst tokens permitted towards the ledger
	BroadcastTokenBurst = "BROADCAST_TOKEN"
	// WalletPathKey is the path of the wallet identity file
	WalletPathKey = "WALLET_PATH"
	// DatadirKey is the local data directory to store the internal state of the daemon
	DatadirKey = "DATA_DIR_PATH"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval for printing basic statistics
	StatsIntervalKey = "STATS_INTERVAL"

	// LedgerDialectOctra ...
	LedgerDialectOctra = "octra"
	// LedgerDialectRest ...
	LedgerDialectRest = "rest"

	ProfilerLocation = "stats"
)

var vip *viper.Viper
var defaultDatadir = appDataDir("octra-daemon")

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("OCTRA")
	vip.AutomaticEnv()

	vip.SetDefault(LedgerEndpointKey, "https://octra.network")
	vip.SetDefault(LedgerDialectKey, LedgerDialectOctra)
	vip.SetDefault(LedgerRequestTimeoutKey, 10000)
	vip.SetDefault(StatusCacheTTLKey, 30)
	vip.SetDefault(HistoryCacheTTLKey, 60)
	vip.SetDefault(HistoryLimitKey, 20)
	vip.SetDefault(BatchSizeKey, 5)
	vip.SetDefault(BroadcastLimitKey, 10)
	vip.SetDefault(BroadcastTokenBurst, 1)
	vip.SetDefault(WalletPathKey, "wallet.json")
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		log.WithError(err).Panic("error while validating config")
	}

	if err := initDatadir(); err != nil {
		log.WithError(err).Panic("error while creating datadir")
	}
}

//GetString ...
func GetString(key string) string {
	return vip.GetString(key)
}

//GetInt ...
func GetInt(key string) int {
	return vip.GetInt(key)
}

//GetDuration ...
func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

//GetBool ...
func GetBool(key string) bool {
	return vip.GetBool(key)
}

//GetDatadir ...
func GetDatadir() string {
	return GetString(DatadirKey)
}

//GetLedger returns the ledger client for the configured endpoint and dialect
func GetLedger() (ledger.Service, error) {
	endpoint := GetString(LedgerEndpointKey)
	reqTimeout := GetInt(LedgerRequestTimeoutKey)

	if GetString(LedgerDialectKey) == LedgerDialectRest {
		return rest.NewService(endpoint, reqTimeout)
	}
	return octra.NewService(endpoint, reqTimeout)
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

// IsSet returns whether the give key is set
func IsSet(key string) bool {
	return vip.IsSet(key)
}

func validate() error {
	endpoint := GetString(LedgerEndpointKey)
	if _, err := url.Parse(endpoint); err != nil {
		return fmt.Errorf("ledger endpoint is not a valid url: %s", err)
	}

	dialect := GetString(LedgerDialectKey)
	if dialect != LedgerDialectOctra && dialect != LedgerDialectRest {
		return fmt.Errorf(
			"ledger dialect must be either '%s' or '%s'",
			LedgerDialectOctra, LedgerDialectRest,
		)
	}

	if GetInt(StatusCacheTTLKey) <= 0 || GetInt(HistoryCacheTTLKey) <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	if GetInt(BatchSizeKey) <= 0 {
		return fmt.Errorf("batch size must be positive")
	}

	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("datadir must not be null")
	}

	return nil
}

func initDatadir() error {
	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		datadir := GetDatadir()
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

func appDataDir(appName string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}
