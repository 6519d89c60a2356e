// Package report renders computed backtest results. It only reads results;
// it never influences the run.
package report

import (
	"fmt"
	"strings"

	"github.com/dthrottle/spy-leaps-monitor/internal/config"
	"github.com/dthrottle/spy-leaps-monitor/internal/model"
)

// FormatMetrics renders the run summary as plain text.
func FormatMetrics(m *model.Metrics, cfg config.StrategyConfig) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("LEAPS backtest | %s .. %s\n\n", cfg.StartDate, endLabel(cfg, m)))

	b.WriteString(fmt.Sprintf("Total return:      %+.2f%%\n", m.TotalReturn))
	b.WriteString(fmt.Sprintf("Buy & hold:        %+.2f%%\n", m.BuyHoldReturn))
	b.WriteString(fmt.Sprintf("CAGR:              %+.2f%%\n", m.CAGR))
	b.WriteString(fmt.Sprintf("Max drawdown:      %.2f%%\n", m.MaxDrawdown))
	b.WriteString(fmt.Sprintf("Sharpe ratio:      %.2f\n", m.SharpeRatio))
	b.WriteString(fmt.Sprintf("Sortino ratio:     %.2f\n", m.SortinoRatio))
	b.WriteString(fmt.Sprintf("Final value:       $%.2f\n\n", m.FinalValue))

	b.WriteString(fmt.Sprintf("Trades:            %d (%d won / %d lost)\n",
		m.TotalTrades, m.WinningTrades, m.LosingTrades))
	b.WriteString(fmt.Sprintf("Win rate:          %.1f%%\n", m.WinRate))
	b.WriteString(fmt.Sprintf("Avg win / loss:    $%.2f / $%.2f\n", m.AvgWin, m.AvgLoss))

	return b.String()
}

func endLabel(cfg config.StrategyConfig, m *model.Metrics) string {
	if cfg.EndDate != "" {
		return cfg.EndDate
	}
	if len(m.EquityCurve) > 0 {
		return m.EquityCurve[len(m.EquityCurve)-1].Date
	}
	return "latest"
}

// FormatSignals renders the most recent signals, newest last.
func FormatSignals(sigs []model.Signal, limit int) string {
	if len(sigs) > limit {
		sigs = sigs[len(sigs)-limit:]
	}
	var b strings.Builder
	for _, s := range sigs {
		b.WriteString(fmt.Sprintf("%s  %-12s %s\n", s.Date, s.Type, s.Details))
	}
	return b.String()
}
