package config

import (
	"os"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"goskim/domain/summary"
	"goskim/internal/errors"
)

// EnvPrefix is prepended to every environment variable, so summary.bins is
// read from SKIM_SUMMARY_BINS.
const EnvPrefix = "SKIM"

// Config represents the complete application configuration
type Config struct {
	Summary  SummaryConfig  `mapstructure:"summary"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	CSV      CSVConfig      `mapstructure:"csv"`
	Log      LogConfig      `mapstructure:"log"`
}

// SummaryConfig holds the tunable summary settings
type SummaryConfig struct {
	Bins        int `mapstructure:"bins"`
	Parallelism int `mapstructure:"parallelism"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// DatabaseConfig holds the DSN used by the sql subcommand
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// CSVConfig holds CSV parsing settings
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads .env (when present), then SKIM_* environment variables, then
// configFile when it is non-empty. Environment variables win over the file.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load .env")
		}
	}

	v := newViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to read config file %s", configFile)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to decode configuration")
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := summary.DefaultConfig()
	v.SetDefault("summary.bins", defaults.Bins)
	v.SetDefault("summary.parallelism", runtime.NumCPU())
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.dsn", "")
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("log.level", "INFO")
	return v
}

func validateConfig(cfg *Config) error {
	if cfg.Summary.Bins <= 0 {
		return errors.ConfigInvalid("summary.bins must be positive")
	}
	if cfg.Summary.Parallelism <= 0 {
		return errors.ConfigInvalid("summary.parallelism must be positive")
	}
	if utf8.RuneCountInString(cfg.CSV.Delimiter) != 1 {
		return errors.ConfigInvalid("csv.delimiter must be a single character")
	}
	if cfg.Server.Port == "" {
		return errors.ConfigInvalid("server.port is required")
	}
	return nil
}

// SummaryConfig returns summary defaults overridden by the loaded settings
func (c *Config) SummaryConfig() summary.Config {
	cfg := summary.DefaultConfig()
	cfg.Bins = c.Summary.Bins
	cfg.Parallelism = c.Summary.Parallelism
	return cfg
}

// Delimiter returns the CSV delimiter rune
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}
