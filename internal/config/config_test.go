package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultStrategy(), cfg.Strategy)
	assert.Equal(t, "SPY", cfg.Data.Symbol)
	assert.Equal(t, "^VIX", cfg.Data.VIXSymbol)
	assert.Equal(t, "prices", cfg.Data.PriceTable)
	assert.Equal(t, "vix", cfg.Data.VIXTable)
	assert.Equal(t, "data/spy_leaps.db", cfg.Database.SQLitePath)
	assert.Equal(t, "0 0 22 * * 1-5", cfg.Monitor.DailyCron)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
strategy:
  weekly_amount: 2500.0
  buy_weekday: 0
  max_exposure_pct: 20.0
data:
  symbol: QQQ
database:
  sqlite_path: /tmp/test.db
sweep:
  strike_moneyness: [-5, 0, 5]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2500.0, cfg.Strategy.WeeklyAmount)
	assert.Equal(t, 0, cfg.Strategy.BuyWeekday)
	assert.Equal(t, 20.0, cfg.Strategy.MaxExposurePct)
	// Untouched fields keep their defaults.
	assert.Equal(t, 10.0, cfg.Strategy.PauseDrawdownPct)
	assert.Equal(t, "QQQ", cfg.Data.Symbol)
	assert.Equal(t, "/tmp/test.db", cfg.Database.SQLitePath)
	assert.Equal(t, []float64{-5, 0, 5}, cfg.Sweep["strike_moneyness"])
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  sqlite_path: from-file.db
`)

	t.Setenv("SQLITE_PATH", "from-env.db")
	t.Setenv("LEAPS_SYMBOL", "IWM")
	t.Setenv("MONITOR_CRON", "0 30 21 * * 1-5")
	t.Setenv("WEEKLY_AMOUNT", "750.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env.db", cfg.Database.SQLitePath)
	assert.Equal(t, "IWM", cfg.Data.Symbol)
	assert.Equal(t, "0 30 21 * * 1-5", cfg.Monitor.DailyCron)
	assert.Equal(t, 750.5, cfg.Strategy.WeeklyAmount)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "strategy: [not a map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := DefaultStrategy()
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*StrategyConfig)
	}{
		{"zero weekly amount", func(c *StrategyConfig) { c.WeeklyAmount = 0 }},
		{"negative capital", func(c *StrategyConfig) { c.InitialCapital = -1 }},
		{"weekday out of range", func(c *StrategyConfig) { c.BuyWeekday = 7 }},
		{"zero lookback", func(c *StrategyConfig) { c.PauseLookbackDays = 0 }},
		{"zero tenor", func(c *StrategyConfig) { c.TimeToExpiryYears = 0 }},
		{"zero exposure cap", func(c *StrategyConfig) { c.MaxExposurePct = 0 }},
		{"zero resume days", func(c *StrategyConfig) { c.ResumeConsecDays = 0 }},
		{"bad start date", func(c *StrategyConfig) { c.StartDate = "01/01/2010" }},
		{"bad end date", func(c *StrategyConfig) { c.EndDate = "soon" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultStrategy()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	// Empty end date means "through latest data" and is valid.
	cfg := DefaultStrategy()
	cfg.EndDate = ""
	assert.NoError(t, cfg.Validate())
}

func TestToMapFromMapRoundTrip(t *testing.T) {
	orig := DefaultStrategy()
	orig.StrikeMoneyness = 5
	orig.UseDeathCross = true
	orig.EndDate = "2024-12-31"

	got, err := FromMap(orig.ToMap())
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestApply(t *testing.T) {
	cfg := DefaultStrategy()

	require.NoError(t, cfg.Apply("pause_drawdown_pct", 12.5))
	assert.Equal(t, 12.5, cfg.PauseDrawdownPct)

	// Integer fields accept whole floats but reject fractions.
	require.NoError(t, cfg.Apply("resume_consec_days", 10.0))
	assert.Equal(t, 10, cfg.ResumeConsecDays)
	assert.Error(t, cfg.Apply("resume_consec_days", 10.5))

	assert.Error(t, cfg.Apply("no_such_parameter", 1.0))
	assert.Error(t, cfg.Apply("weekly_amount", "a lot"))
	assert.Error(t, cfg.Apply("use_death_cross", 1))
	assert.Error(t, cfg.Apply("start_date", 20100101))
}

func TestToJSON(t *testing.T) {
	cfg := DefaultStrategy()
	s, err := cfg.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, s, `"weekly_amount":1000`)
	assert.Contains(t, s, `"start_date":"2010-01-01"`)
}
