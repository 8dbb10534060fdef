// Package config loads the bot configuration from a YAML or JSON file, a
// .env file, and environment variables, in that order of precedence (env
// wins).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/fxbot/risk"
	"github.com/rustyeddy/fxbot/strategy"
)

// envPrefix namespaces the environment overrides, e.g. FXBOT_SYMBOL.
const envPrefix = "fxbot"

// Config is the complete bot configuration.
type Config struct {
	// Symbol is the instrument quoted by the live feed, in Yahoo Finance
	// notation (EURUSD=X).
	Symbol string `json:"symbol" yaml:"symbol"`

	Strategy strategy.Config `json:"strategy" yaml:"strategy"`
	Risk     risk.Config     `json:"risk" yaml:"risk"`
	Feed     FeedConfig      `json:"feed" yaml:"feed"`
	Journal  JournalConfig   `json:"journal" yaml:"journal"`
	Metrics  MetricsConfig   `json:"metrics" yaml:"metrics"`
}

// FeedConfig selects the live price source.
type FeedConfig struct {
	Type string `json:"type" yaml:"type"` // "yahoo", "random" or "csv"

	// PollSeconds is the quote polling interval for the yahoo feed.
	PollSeconds int `json:"poll_seconds" yaml:"poll_seconds"`

	// Preload seeds the engine with up to this many recent closes before
	// streaming starts.
	Preload int `json:"preload" yaml:"preload"`

	// Random walk parameters. Seed 0 means a clock seed.
	StartPrice float64 `json:"start_price" yaml:"start_price"`
	Volatility float64 `json:"volatility" yaml:"volatility"`
	Ticks      int     `json:"ticks" yaml:"ticks"`
	Seed       int64   `json:"seed" yaml:"seed"`

	// CSV replay parameters.
	CSVPath   string `json:"csv_path" yaml:"csv_path"`
	CSVColumn string `json:"csv_column" yaml:"csv_column"`
}

// JournalConfig selects where signals and trades are persisted.
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	SignalsFile string `json:"signals_file,omitempty" yaml:"signals_file,omitempty"`
	TradesFile  string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables the endpoint.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// Default returns the EUR/USD setup the original bot shipped with.
func Default() *Config {
	return &Config{
		Symbol:   "EURUSD=X",
		Strategy: strategy.DefaultConfig(),
		Risk:     risk.DefaultConfig(),
		Feed: FeedConfig{
			Type:        "yahoo",
			PollSeconds: 60,
			Preload:     100,
			StartPrice:  1.1000,
			Volatility:  0.0005,
		},
		Journal: JournalConfig{
			Type:        "csv",
			SignalsFile: "trade_log.csv",
			TradesFile:  "pnl_tracking.csv",
		},
	}
}

// Load builds the configuration: defaults, then the file at path (if any),
// then .env, then environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// YAML first, JSON as fallback
		if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
			if jerr := json.Unmarshal(data, cfg); jerr != nil {
				return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", yerr)
			}
		}
	}

	// .env may be absent outside development
	_ = godotenv.Load()

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML or JSON based on extension.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the whole tree, delegating to the strategy and risk
// sections.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if err := c.Strategy.Validate(); err != nil {
		return err
	}
	if err := c.Risk.Validate(); err != nil {
		return err
	}

	switch c.Feed.Type {
	case "yahoo":
		if c.Feed.PollSeconds <= 0 {
			return fmt.Errorf("feed.poll_seconds must be positive for the yahoo feed")
		}
	case "random":
		if c.Feed.StartPrice <= 0 {
			return fmt.Errorf("feed.start_price must be positive for the random feed")
		}
		if c.Feed.Volatility <= 0 {
			return fmt.Errorf("feed.volatility must be positive for the random feed")
		}
	case "csv":
		if c.Feed.CSVPath == "" {
			return fmt.Errorf("feed.csv_path required for the csv feed")
		}
	default:
		return fmt.Errorf("feed.type must be 'yahoo', 'random' or 'csv', got %q", c.Feed.Type)
	}
	if c.Feed.Preload < 0 {
		return fmt.Errorf("feed.preload must not be negative")
	}

	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.SignalsFile == "" || c.Journal.TradesFile == "" {
			return fmt.Errorf("journal signals_file and trades_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite', got %q", c.Journal.Type)
	}
	return nil
}
