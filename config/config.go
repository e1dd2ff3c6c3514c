package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL      string
	ProgramID   string
	PgDSN       string
	LogLevel    string
	TickSpacing uint16
	// Fee is a decimal string such as "0.0005".
	Fee string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVARIANT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpc", "https://api.mainnet-beta.solana.com")
	v.SetDefault("log-level", "info")
	v.SetDefault("tick-spacing", 10)
	v.SetDefault("fee", "0.0005")

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
		v.SetConfigName("invariant")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	spacing := v.GetUint("tick-spacing")
	if spacing == 0 || spacing > 10_000 {
		return Config{}, fmt.Errorf("tick-spacing %d out of range", spacing)
	}

	cfg := Config{
		RPCURL:      v.GetString("rpc"),
		ProgramID:   v.GetString("program-id"),
		PgDSN:       v.GetString("pg-dsn"),
		LogLevel:    v.GetString("log-level"),
		TickSpacing: uint16(spacing),
		Fee:         strings.TrimSpace(v.GetString("fee")),
	}

	return cfg, nil
}
