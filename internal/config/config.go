package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		DaysBack int    `yaml:"days_back"`
	} `yaml:"data_source"`
	Regime struct {
		FingerprintsPath string `yaml:"fingerprints_path"`
	} `yaml:"regime"`
	Trading struct {
		InitialCapital    float64 `yaml:"initial_capital"`
		MomentumThreshold float64 `yaml:"momentum_threshold"`
		MomentumLookback  int     `yaml:"momentum_lookback"`
		SlippageRate      float64 `yaml:"slippage_rate"`
		HoldCalendarDays  int     `yaml:"hold_calendar_days"`
	} `yaml:"trading"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A .env file is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("FMP_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("FMP_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("FINGERPRINTS_PATH"); v != "" {
		cfg.Regime.FingerprintsPath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("INITIAL_CAPITAL"); v != "" {
		var capital float64
		if _, err := fmt.Sscanf(v, "%f", &capital); err == nil {
			cfg.Trading.InitialCapital = capital
		}
	}

	// Defaults
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://financialmodelingprep.com/api/v3"
	}
	if cfg.DataSource.DaysBack == 0 {
		cfg.DataSource.DaysBack = 100
	}
	if cfg.Regime.FingerprintsPath == "" {
		cfg.Regime.FingerprintsPath = "data/regime_fingerprints.json"
	}
	if cfg.Trading.InitialCapital == 0 {
		cfg.Trading.InitialCapital = 100000
	}
	if cfg.Trading.MomentumThreshold == 0 {
		cfg.Trading.MomentumThreshold = 0.015
	}
	if cfg.Trading.MomentumLookback == 0 {
		cfg.Trading.MomentumLookback = 10
	}
	if cfg.Trading.SlippageRate == 0 {
		cfg.Trading.SlippageRate = 0.0005
	}
	if cfg.Trading.HoldCalendarDays == 0 {
		cfg.Trading.HoldCalendarDays = 7
	}
	if cfg.Schedule.DailyCron == "" {
		// Market close, weekdays (second-granularity cron expression)
		cfg.Schedule.DailyCron = "0 0 16 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/positions_log.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and sane.
func (c *Config) Validate() error {
	if c.DataSource.APIKey == "" {
		return fmt.Errorf("data_source.api_key is required (set FMP_API_KEY)")
	}
	if c.Trading.InitialCapital <= 0 {
		return fmt.Errorf("trading.initial_capital must be positive")
	}
	if c.Trading.MomentumThreshold <= 0 {
		return fmt.Errorf("trading.momentum_threshold must be positive")
	}
	if c.Trading.MomentumLookback <= 0 {
		return fmt.Errorf("trading.momentum_lookback must be positive")
	}
	if c.Trading.SlippageRate < 0 {
		return fmt.Errorf("trading.slippage_rate must not be negative")
	}
	if c.Trading.HoldCalendarDays <= 0 {
		return fmt.Errorf("trading.hold_calendar_days must be positive")
	}
	return nil
}
