package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the key to customize the coinselector datadir.
	DatadirKey = "DATADIR"
	// DatabaseTypeKey is the key to customize the type of database to use.
	DatabaseTypeKey = "DATABASE_TYPE"
	// NetworkKey is the key to customize the Bitcoin network.
	NetworkKey = "NETWORK"
	// LogLevelKey is the key to customize the log level to catch more specific
	// or more high level logs.
	LogLevelKey = "LOG_LEVEL"
	// FeeRateKey is the key to customize the default fee rate in sats/vbyte.
	FeeRateKey = "FEE_RATE"
	// DustThresholdKey is the key to customize the amount in sats under which
	// change is added to the fee rather than creating a change output.
	DustThresholdKey = "DUST_THRESHOLD"
	// MinConfirmationsKey is the key to customize the min number of
	// confirmations of the utxos selectable by automatic strategies.
	MinConfirmationsKey = "MIN_CONFIRMATIONS"
	// BnBTimeoutKey is the key to customize the time limit in milliseconds of
	// the branch-and-bound search.
	BnBTimeoutKey = "BNB_TIMEOUT"
	// ConsolidateMaxInputsKey is the key to customize the max number of small
	// utxos swept by the consolidate strategy.
	ConsolidateMaxInputsKey = "CONSOLIDATE_MAX_INPUTS"
	// AvoidChangeMaxInputsKey is the key to customize the max number of inputs
	// the avoid change strategy looks for.
	AvoidChangeMaxInputsKey = "AVOID_CHANGE_MAX_INPUTS"
	// NoStatsKey is the key to disable dumping Prometheus stats after every
	// command.
	NoStatsKey = "NO_STATS"

	// DbLocation is the folder inside the datadir containing db files.
	DbLocation = "db"
	// StatsLocation is the folder inside the datadir containing the stats
	// files.
	StatsLocation = "stats"
)

var (
	vip *viper.Viper

	defaultDatadir              = btcutil.AppDataDir("coinselector", false)
	defaultDbType               = "badger"
	defaultNetwork              = chaincfg.MainNetParams.Name
	defaultLogLevel             = 4
	defaultFeeRate              = 2.0
	defaultDustThreshold        = 546
	defaultMinConfirmations     = 1
	defaultBnBTimeout           = 1000
	defaultConsolidateMaxInputs = 50
	defaultAvoidChangeMaxInputs = 6

	supportedNetworks = map[string]*chaincfg.Params{
		chaincfg.MainNetParams.Name:       &chaincfg.MainNetParams,
		chaincfg.TestNet3Params.Name:      &chaincfg.TestNet3Params,
		chaincfg.RegressionNetParams.Name: &chaincfg.RegressionNetParams,
		chaincfg.SigNetParams.Name:        &chaincfg.SigNetParams,
	}
	SupportedDbs = supportedType{
		"badger":   {},
		"inmemory": {},
	}
)

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("COINSELECTOR")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(DatabaseTypeKey, defaultDbType)
	vip.SetDefault(NetworkKey, defaultNetwork)
	vip.SetDefault(LogLevelKey, defaultLogLevel)
	vip.SetDefault(FeeRateKey, defaultFeeRate)
	vip.SetDefault(DustThresholdKey, defaultDustThreshold)
	vip.SetDefault(MinConfirmationsKey, defaultMinConfirmations)
	vip.SetDefault(BnBTimeoutKey, defaultBnBTimeout)
	vip.SetDefault(ConsolidateMaxInputsKey, defaultConsolidateMaxInputs)
	vip.SetDefault(AvoidChangeMaxInputsKey, defaultAvoidChangeMaxInputs)
	vip.SetDefault(NoStatsKey, false)

	if err := validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}

	if err := initDatadir(); err != nil {
		log.Fatalf("config: error while creating datadir: %s", err)
	}
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("datadir must not be null")
	}

	net := GetString(NetworkKey)
	if len(net) == 0 {
		return fmt.Errorf("network must not be null")
	}
	if _, ok := supportedNetworks[net]; !ok {
		nets := make([]string, 0, len(supportedNetworks))
		for net := range supportedNetworks {
			nets = append(nets, net)
		}
		sort.Strings(nets)
		return fmt.Errorf("unknown network, must be one of: %v", nets)
	}

	dbType := GetString(DatabaseTypeKey)
	if _, ok := SupportedDbs[dbType]; !ok {
		return fmt.Errorf("unsupported database type, must be one of %s", SupportedDbs)
	}

	feeRate := GetFloat64(FeeRateKey)
	if math.IsNaN(feeRate) || math.IsInf(feeRate, 0) || feeRate <= 0 {
		return fmt.Errorf("fee rate must be a positive number")
	}
	if GetInt(DustThresholdKey) < 0 {
		return fmt.Errorf("dust threshold must not be negative")
	}
	if GetInt(MinConfirmationsKey) < 0 {
		return fmt.Errorf("min confirmations must not be negative")
	}
	if GetInt(BnBTimeoutKey) <= 0 {
		return fmt.Errorf("bnb timeout must be a positive number of milliseconds")
	}
	if GetInt(ConsolidateMaxInputsKey) <= 0 {
		return fmt.Errorf("consolidate max inputs must be a positive number")
	}
	if GetInt(AvoidChangeMaxInputsKey) <= 0 {
		return fmt.Errorf("avoid change max inputs must be a positive number")
	}

	return nil
}

func GetDatadir() string {
	return filepath.Join(GetString(DatadirKey), GetString(NetworkKey))
}

func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

func GetStatsDir() string {
	return filepath.Join(GetDatadir(), StatsLocation)
}

func GetNetwork() *chaincfg.Params {
	return supportedNetworks[GetString(NetworkKey)]
}

func GetBnBTimeout() time.Duration {
	return time.Duration(GetInt(BnBTimeoutKey)) * time.Millisecond
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

func GetUint32(key string) uint32 {
	return vip.GetUint32(key)
}

func GetFloat64(key string) float64 {
	return vip.GetFloat64(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func Set(key string, val interface{}) {
	vip.Set(key, val)
}

func Unset(key string) {
	vip.Set(key, nil)
}

func IsSet(key string) bool {
	return vip.IsSet(key)
}

// AllSettings returns the effective value of every key.
func AllSettings() map[string]interface{} {
	return vip.AllSettings()
}

func initDatadir() error {
	if GetString(DatabaseTypeKey) == "badger" {
		if err := makeDirectoryIfNotExists(GetDbDir()); err != nil {
			return err
		}
	}

	noStats := GetBool(NoStatsKey)
	if !noStats {
		if err := makeDirectoryIfNotExists(GetStatsDir()); err != nil {
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

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	sort.Strings(types)
	return strings.Join(types, " | ")
}
