package config

import (
	"encoding/json"
	"fmt"
	"math"
)

// ToMap flattens the strategy config into a key/value map keyed by the
// snake_case parameter names. The inverse of Apply.
func (c *StrategyConfig) ToMap() map[string]any {
	return map[string]any{
		"weekly_amount":            c.WeeklyAmount,
		"buy_weekday":              c.BuyWeekday,
		"strike_moneyness":         c.StrikeMoneyness,
		"pause_drawdown_pct":       c.PauseDrawdownPct,
		"pause_lookback_days":      c.PauseLookbackDays,
		"vix_threshold":            c.VIXThreshold,
		"liquidate_pct_from_200ma": c.LiquidatePctFrom200MA,
		"liquidate_pct_from_peak":  c.LiquidatePctFromPeak,
		"use_death_cross":          c.UseDeathCross,
		"resume_consec_days":       c.ResumeConsecDays,
		"resume_pct":               c.ResumePct,
		"max_exposure_pct":         c.MaxExposurePct,
		"time_to_expiry_years":     c.TimeToExpiryYears,
		"risk_free_rate":           c.RiskFreeRate,
		"initial_capital":          c.InitialCapital,
		"start_date":               c.StartDate,
		"end_date":                 c.EndDate,
	}
}

// ToJSON serializes the strategy parameters for per-run persistence.
func (c *StrategyConfig) ToJSON() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal strategy config: %w", err)
	}
	return string(b), nil
}

// Apply sets one parameter by its snake_case name. Numeric values accept
// any numeric Go type; integer fields reject fractional values.
func (c *StrategyConfig) Apply(key string, value any) error {
	switch key {
	case "weekly_amount":
		return setFloat(&c.WeeklyAmount, key, value)
	case "buy_weekday":
		return setInt(&c.BuyWeekday, key, value)
	case "strike_moneyness":
		return setFloat(&c.StrikeMoneyness, key, value)
	case "pause_drawdown_pct":
		return setFloat(&c.PauseDrawdownPct, key, value)
	case "pause_lookback_days":
		return setInt(&c.PauseLookbackDays, key, value)
	case "vix_threshold":
		return setFloat(&c.VIXThreshold, key, value)
	case "liquidate_pct_from_200ma":
		return setFloat(&c.LiquidatePctFrom200MA, key, value)
	case "liquidate_pct_from_peak":
		return setFloat(&c.LiquidatePctFromPeak, key, value)
	case "use_death_cross":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%s: expected bool, got %T", key, value)
		}
		c.UseDeathCross = b
		return nil
	case "resume_consec_days":
		return setInt(&c.ResumeConsecDays, key, value)
	case "resume_pct":
		return setFloat(&c.ResumePct, key, value)
	case "max_exposure_pct":
		return setFloat(&c.MaxExposurePct, key, value)
	case "time_to_expiry_years":
		return setFloat(&c.TimeToExpiryYears, key, value)
	case "risk_free_rate":
		return setFloat(&c.RiskFreeRate, key, value)
	case "initial_capital":
		return setFloat(&c.InitialCapital, key, value)
	case "start_date":
		return setString(&c.StartDate, key, value)
	case "end_date":
		return setString(&c.EndDate, key, value)
	default:
		return fmt.Errorf("unknown strategy parameter %q", key)
	}
}

// FromMap builds a strategy config from a flat key/value map, starting from
// defaults so partial maps are valid.
func FromMap(params map[string]any) (StrategyConfig, error) {
	c := DefaultStrategy()
	for k, v := range params {
		if err := c.Apply(k, v); err != nil {
			return c, err
		}
	}
	return c, nil
}

func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func setFloat(dst *float64, key string, value any) error {
	f, ok := asFloat(value)
	if !ok {
		return fmt.Errorf("%s: expected number, got %T", key, value)
	}
	*dst = f
	return nil
}

func setInt(dst *int, key string, value any) error {
	f, ok := asFloat(value)
	if !ok {
		return fmt.Errorf("%s: expected number, got %T", key, value)
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("%s: expected integer, got %v", key, value)
	}
	*dst = int(f)
	return nil
}

func setString(dst *string, key string, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%s: expected string, got %T", key, value)
	}
	*dst = s
	return nil
}
