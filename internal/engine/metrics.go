package engine

import (
	"math"

	"github.com/dthrottle/spy-leaps-monitor/internal/model"
)

const tradingDaysPerYear = 252

// computeMetrics reduces the equity curve and closed positions into the
// final report. Pure function of accumulated run state.
func (e *Engine) computeMetrics() *model.Metrics {
	m := &model.Metrics{EquityCurve: e.equity}
	if len(e.equity) == 0 {
		return m
	}

	initial := e.cfg.InitialCapital
	final := e.equity[len(e.equity)-1].Value
	m.FinalValue = final
	m.TotalReturn = (final - initial) / initial * 100

	firstSpot := e.equity[0].SpotPrice
	lastSpot := e.equity[len(e.equity)-1].SpotPrice
	m.BuyHoldReturn = (lastSpot - firstSpot) / firstSpot * 100

	years := float64(len(e.equity)) / tradingDaysPerYear
	if years > 0 {
		m.CAGR = (math.Pow(final/initial, 1/years) - 1) * 100
	}

	// Max drawdown against the running equity peak.
	peak := math.Inf(-1)
	for _, s := range e.equity {
		if s.Value > peak {
			peak = s.Value
		}
		if dd := (s.Value - peak) / peak * 100; dd < m.MaxDrawdown {
			m.MaxDrawdown = dd
		}
	}

	// Trade statistics.
	var wins, losses []float64
	for _, p := range e.closed {
		switch {
		case p.PnL > 0:
			wins = append(wins, p.PnL)
		case p.PnL < 0:
			losses = append(losses, p.PnL)
		}
	}
	m.TotalTrades = len(e.closed)
	m.WinningTrades = len(wins)
	m.LosingTrades = m.TotalTrades - m.WinningTrades
	if m.TotalTrades > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades) * 100
	}
	m.AvgWin = mean(wins)
	m.AvgLoss = mean(losses)

	// Daily returns off the equity curve.
	returns := make([]float64, 0, len(e.equity)-1)
	for i := 1; i < len(e.equity); i++ {
		returns = append(returns, e.equity[i].Value/e.equity[i-1].Value-1)
	}

	if std := sampleStd(returns); std > 0 {
		m.SharpeRatio = mean(returns) / std * math.Sqrt(tradingDaysPerYear)
	}

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if std := sampleStd(downside); std > 0 {
		m.SortinoRatio = mean(returns) / std * math.Sqrt(tradingDaysPerYear)
	}

	return m
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is the ddof=1 standard deviation; zero when fewer than two
// observations exist.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mu := mean(values)
	var ss float64
	for _, v := range values {
		d := v - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
