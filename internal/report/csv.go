package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dthrottle/spy-leaps-monitor/internal/model"
	"github.com/dthrottle/spy-leaps-monitor/internal/sweep"
)

// WriteEquityCSV exports the per-day equity curve.
func WriteEquityCSV(w io.Writer, samples []model.EquitySample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "value", "spot_price", "open_positions"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range samples {
		rec := []string{
			s.Date,
			strconv.FormatFloat(s.Value, 'f', 2, 64),
			strconv.FormatFloat(s.SpotPrice, 'f', 4, 64),
			strconv.Itoa(s.OpenPositions),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSweepCSV exports parameter-sweep summary rows.
func WriteSweepCSV(w io.Writer, rows []sweep.Row) error {
	cw := csv.NewWriter(w)
	header := []string{"parameter", "value", "total_return_pct", "cagr_pct",
		"max_drawdown_pct", "sharpe_ratio", "win_rate_pct", "total_trades"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Parameter,
			strconv.FormatFloat(r.Value, 'f', -1, 64),
			strconv.FormatFloat(r.TotalReturn, 'f', 4, 64),
			strconv.FormatFloat(r.CAGR, 'f', 4, 64),
			strconv.FormatFloat(r.MaxDrawdown, 'f', 4, 64),
			strconv.FormatFloat(r.SharpeRatio, 'f', 4, 64),
			strconv.FormatFloat(r.WinRate, 'f', 2, 64),
			strconv.Itoa(r.TotalTrades),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
