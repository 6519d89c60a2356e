package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dthrottle/spy-leaps-monitor/internal/model"
)

// StrategyConfig holds all parameters of one backtest run. Immutable once a
// run starts; parameter sweeps clone it and apply overrides by key.
// buy_weekday follows the Monday=0 .. Sunday=6 convention.
type StrategyConfig struct {
	// Weekly buy parameters
	WeeklyAmount    float64 `yaml:"weekly_amount" json:"weekly_amount"`
	BuyWeekday      int     `yaml:"buy_weekday" json:"buy_weekday"`
	StrikeMoneyness float64 `yaml:"strike_moneyness" json:"strike_moneyness"` // 0=ATM, positive=OTM

	// Pause rules
	PauseDrawdownPct  float64 `yaml:"pause_drawdown_pct" json:"pause_drawdown_pct"`
	PauseLookbackDays int     `yaml:"pause_lookback_days" json:"pause_lookback_days"`
	VIXThreshold      float64 `yaml:"vix_threshold" json:"vix_threshold"`

	// Liquidation rules
	LiquidatePctFrom200MA float64 `yaml:"liquidate_pct_from_200ma" json:"liquidate_pct_from_200ma"`
	LiquidatePctFromPeak  float64 `yaml:"liquidate_pct_from_peak" json:"liquidate_pct_from_peak"`
	UseDeathCross         bool    `yaml:"use_death_cross" json:"use_death_cross"`

	// Resume rules
	ResumeConsecDays int     `yaml:"resume_consec_days" json:"resume_consec_days"`
	ResumePct        float64 `yaml:"resume_pct" json:"resume_pct"` // within N% of peak

	// Risk management
	MaxExposurePct float64 `yaml:"max_exposure_pct" json:"max_exposure_pct"`

	// Option parameters
	TimeToExpiryYears float64 `yaml:"time_to_expiry_years" json:"time_to_expiry_years"`
	RiskFreeRate      float64 `yaml:"risk_free_rate" json:"risk_free_rate"`

	// Backtest parameters
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	StartDate      string  `yaml:"start_date" json:"start_date"`
	EndDate        string  `yaml:"end_date" json:"end_date"` // empty means "through latest data"
}

// DefaultStrategy returns the baseline parameter set.
func DefaultStrategy() StrategyConfig {
	return StrategyConfig{
		WeeklyAmount:          1000.0,
		BuyWeekday:            4, // Friday
		StrikeMoneyness:       0.0,
		PauseDrawdownPct:      10.0,
		PauseLookbackDays:     100,
		VIXThreshold:          25.0,
		LiquidatePctFrom200MA: 15.0,
		LiquidatePctFromPeak:  18.0,
		UseDeathCross:         false,
		ResumeConsecDays:      15,
		ResumePct:             5.0,
		MaxExposurePct:        10.0,
		TimeToExpiryYears:     1.0,
		RiskFreeRate:          0.045,
		InitialCapital:        100000.0,
		StartDate:             "2010-01-01",
	}
}

// Validate checks that the strategy parameters are internally consistent.
func (c *StrategyConfig) Validate() error {
	if c.WeeklyAmount <= 0 {
		return fmt.Errorf("weekly_amount must be positive")
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial_capital must be positive")
	}
	if c.BuyWeekday < 0 || c.BuyWeekday > 6 {
		return fmt.Errorf("buy_weekday must be in 0..6 (Monday=0)")
	}
	if c.PauseLookbackDays <= 0 {
		return fmt.Errorf("pause_lookback_days must be positive")
	}
	if c.TimeToExpiryYears <= 0 {
		return fmt.Errorf("time_to_expiry_years must be positive")
	}
	if c.MaxExposurePct <= 0 {
		return fmt.Errorf("max_exposure_pct must be positive")
	}
	if c.ResumeConsecDays <= 0 {
		return fmt.Errorf("resume_consec_days must be positive")
	}
	if _, err := time.Parse(model.DateLayout, c.StartDate); err != nil {
		return fmt.Errorf("start_date: %w", err)
	}
	if c.EndDate != "" {
		if _, err := time.Parse(model.DateLayout, c.EndDate); err != nil {
			return fmt.Errorf("end_date: %w", err)
		}
	}
	return nil
}

// Config holds all application configuration.
type Config struct {
	Strategy StrategyConfig `yaml:"strategy"`
	Data     struct {
		Symbol     string `yaml:"symbol"`
		VIXSymbol  string `yaml:"vix_symbol"`
		PriceTable string `yaml:"price_table"`
		VIXTable   string `yaml:"vix_table"`
	} `yaml:"data"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Monitor struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"monitor"`
	Sweep map[string][]float64 `yaml:"sweep"`
	Proxy string               `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file yields a fully-defaulted config.
func Load(path string) (*Config, error) {
	cfg := &Config{Strategy: DefaultStrategy()}

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
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LEAPS_SYMBOL"); v != "" {
		cfg.Data.Symbol = v
	}
	if v := os.Getenv("MONITOR_CRON"); v != "" {
		cfg.Monitor.DailyCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("WEEKLY_AMOUNT"); v != "" {
		var amount float64
		if _, err := fmt.Sscanf(v, "%f", &amount); err == nil {
			cfg.Strategy.WeeklyAmount = amount
		}
	}

	// Defaults
	if cfg.Data.Symbol == "" {
		cfg.Data.Symbol = "SPY"
	}
	if cfg.Data.VIXSymbol == "" {
		cfg.Data.VIXSymbol = "^VIX"
	}
	if cfg.Data.PriceTable == "" {
		cfg.Data.PriceTable = "prices"
	}
	if cfg.Data.VIXTable == "" {
		cfg.Data.VIXTable = "vix"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/spy_leaps.db"
	}
	if cfg.Monitor.DailyCron == "" {
		cfg.Monitor.DailyCron = "0 0 22 * * 1-5"
	}

	return cfg, nil
}
