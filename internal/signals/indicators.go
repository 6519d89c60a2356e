// Package signals computes technical indicators over a daily price series
// and evaluates the pause/liquidate/resume/buy-day predicates that drive the
// backtest engine's state machine.
package signals

import (
	"math"

	"github.com/dthrottle/spy-leaps-monitor/internal/model"
)

// IndicatorSeries holds per-day indicator values aligned with the price
// series. Days without enough trailing history carry NaN ("unavailable");
// predicates treat NaN as not evaluable and never trigger on it.
type IndicatorSeries struct {
	Close        []float64
	MA50         []float64
	MA200        []float64
	RollingHigh  []float64 // max close over the pause lookback window
	DrawdownPct  []float64 // percent below RollingHigh (negative in a drawdown)
	PctFrom200MA []float64 // percent distance of close from MA200
	DeathCross   []bool    // 50-day MA below 200-day MA
}

// Len returns the number of days covered.
func (s *IndicatorSeries) Len() int { return len(s.Close) }

// ComputeIndicators derives the full indicator set from a price series.
// lookbackDays is the rolling-peak window used for drawdown measurement.
func ComputeIndicators(series model.Series, lookbackDays int) *IndicatorSeries {
	closes := series.Closes()
	n := len(closes)

	ind := &IndicatorSeries{
		Close:        closes,
		MA50:         rollingMean(closes, 50),
		MA200:        rollingMean(closes, 200),
		RollingHigh:  rollingMax(closes, lookbackDays),
		DrawdownPct:  make([]float64, n),
		PctFrom200MA: make([]float64, n),
		DeathCross:   make([]bool, n),
	}

	for i := 0; i < n; i++ {
		ind.DrawdownPct[i] = pctChange(closes[i], ind.RollingHigh[i])
		ind.PctFrom200MA[i] = pctChange(closes[i], ind.MA200[i])
		ind.DeathCross[i] = !math.IsNaN(ind.MA50[i]) && !math.IsNaN(ind.MA200[i]) &&
			ind.MA50[i] < ind.MA200[i]
	}
	return ind
}

// pctChange returns (value-ref)/ref*100, or NaN when the reference is
// unavailable.
func pctChange(value, ref float64) float64 {
	if math.IsNaN(ref) || ref == 0 {
		return math.NaN()
	}
	return (value - ref) / ref * 100
}

// rollingMean computes a simple moving average with a full-window
// requirement: the first window-1 entries are NaN.
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i := range values {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// rollingMax computes the maximum over a trailing window, NaN until the
// window is full.
func rollingMax(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		max := math.Inf(-1)
		for j := i - window + 1; j <= i; j++ {
			if values[j] > max {
				max = values[j]
			}
		}
		out[i] = max
	}
	return out
}
