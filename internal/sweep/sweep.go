// Package sweep runs the backtest repeatedly with modified parameters and
// collects summary rows. Runs are independent: each gets its own engine and
// an isolated in-memory store over the shared read-only price series.
package sweep

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/dthrottle/spy-leaps-monitor/internal/config"
	"github.com/dthrottle/spy-leaps-monitor/internal/engine"
	"github.com/dthrottle/spy-leaps-monitor/internal/model"
	"github.com/dthrottle/spy-leaps-monitor/internal/store"
)

// Row is one sweep result: a parameter value and its headline metrics.
type Row struct {
	Parameter   string
	Value       float64
	TotalReturn float64
	CAGR        float64
	MaxDrawdown float64
	SharpeRatio float64
	WinRate     float64
	TotalTrades int
}

// Run executes one backtest per (parameter, value) pair concurrently.
// A failing configuration is logged and excluded; it never aborts the sweep.
// vix may be nil when no volatility-index series exists.
func Run(base config.StrategyConfig, prices, vix model.Series, ranges map[string][]float64) []Row {
	var (
		mu   sync.Mutex
		rows []Row
		wg   sync.WaitGroup
	)

	for param, values := range ranges {
		for _, value := range values {
			wg.Add(1)
			go func(param string, value float64) {
				defer wg.Done()

				row, err := runOne(base, prices, vix, param, value)
				if err != nil {
					log.Printf("[ERROR] sweep %s=%v: %v", param, value, err)
					return
				}
				mu.Lock()
				rows = append(rows, row)
				mu.Unlock()
			}(param, value)
		}
	}
	wg.Wait()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Parameter != rows[j].Parameter {
			return rows[i].Parameter < rows[j].Parameter
		}
		return rows[i].Value < rows[j].Value
	})
	return rows
}

func runOne(base config.StrategyConfig, prices, vix model.Series, param string, value float64) (Row, error) {
	cfg := base
	if err := cfg.Apply(param, value); err != nil {
		return Row{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Row{}, fmt.Errorf("invalid config: %w", err)
	}

	ms := store.NewMemoryStore()
	ms.PutSeries("prices", prices)
	if vix != nil {
		ms.PutSeries("vix", vix)
	}

	m, err := engine.New(cfg, ms, "prices", "vix").Run()
	if err != nil {
		return Row{}, err
	}

	return Row{
		Parameter:   param,
		Value:       value,
		TotalReturn: m.TotalReturn,
		CAGR:        m.CAGR,
		MaxDrawdown: m.MaxDrawdown,
		SharpeRatio: m.SharpeRatio,
		WinRate:     m.WinRate,
		TotalTrades: m.TotalTrades,
	}, nil
}
