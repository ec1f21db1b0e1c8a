package config

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
// Flag names map onto the conventional env names: --rpc-url binds RPC_URL,
// --metamorpho-address binds METAMORPHO_ADDRESS, and so on.
type Config struct {
	RPCURL       string
	VaultAddress string
	VaultName    string
	ExplorerURI  string

	AssetSymbol    string
	AssetDecimals  int32
	AssetThreshold string

	FilterAuthor bool

	TGBotID              string
	TGChatID             string
	TGReallocationChatID string

	MorphoAddress string
	DataDir       string
	MetricsAddr   string
	LogLevel      string

	// Backfill only.
	FromBlock uint64
	ToBlock   uint64
	BatchSize uint64
}

// DefaultMorphoAddress is the Morpho Blue singleton on Ethereum mainnet.
const DefaultMorphoAddress = "0xBBBBBbbBBb9cC5e90e3b3Af64bdAF62C37EEFFCb"

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("morpho-address", DefaultMorphoAddress)
	v.SetDefault("data-dir", ".")
	v.SetDefault("batch-size", uint64(2000))
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:               v.GetString("rpc-url"),
		VaultAddress:         v.GetString("metamorpho-address"),
		VaultName:            v.GetString("metamorpho-name"),
		ExplorerURI:          v.GetString("explorer-uri"),
		AssetSymbol:          v.GetString("asset"),
		AssetDecimals:        v.GetInt32("asset-decimals"),
		AssetThreshold:       v.GetString("asset-threshold"),
		FilterAuthor:         v.GetBool("filter-author"),
		TGBotID:              v.GetString("tg-bot-id"),
		TGChatID:             v.GetString("tg-chat-id"),
		TGReallocationChatID: v.GetString("tg-chat-reallocation-id"),
		MorphoAddress:        v.GetString("morpho-address"),
		DataDir:              v.GetString("data-dir"),
		MetricsAddr:          v.GetString("metrics-addr"),
		LogLevel:             v.GetString("log-level"),
		FromBlock:            v.GetUint64("from"),
		ToBlock:              v.GetUint64("to"),
		BatchSize:            v.GetUint64("batch-size"),
	}

	return cfg, nil
}

// Threshold parses the configured asset threshold. An unset threshold
// returns nil, which suppresses all deposit/withdraw alerts.
func (c Config) Threshold() (*big.Int, error) {
	raw := strings.TrimSpace(c.AssetThreshold)
	if raw == "" {
		return nil, nil
	}
	threshold, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("invalid asset threshold: %s", raw)
	}
	return threshold, nil
}
