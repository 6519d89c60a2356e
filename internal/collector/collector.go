// Package collector acquires daily price history from an external source
// and normalizes it into the store.
package collector

import (
	"fmt"
	"log"
	"time"

	"github.com/dthrottle/spy-leaps-monitor/internal/model"
	"github.com/dthrottle/spy-leaps-monitor/internal/store"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars model.Series
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ string, start, end time.Time) (model.Series, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out model.Series
	for _, b := range m.Bars {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// Collector downloads a symbol's history and persists it to a store table.
type Collector struct {
	Fetcher Fetcher
	Store   store.Store
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, st store.Store) *Collector {
	return &Collector{Fetcher: fetcher, Store: st}
}

// Download fetches daily bars for the date range, normalizes them, and
// replaces the target table. Returns the number of bars saved.
func (c *Collector) Download(symbol, table string, start, end time.Time) (int, error) {
	bars, err := c.Fetcher.FetchDailyBars(symbol, start, end)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	bars = Normalize(bars)
	if len(bars) == 0 {
		return 0, fmt.Errorf("no usable bars for %s", symbol)
	}

	if err := c.Store.SaveSeries(table, bars); err != nil {
		return 0, fmt.Errorf("save %s: %w", table, err)
	}
	log.Printf("[INFO] saved %d bars to %q (%s .. %s)", len(bars), table,
		bars.First().Date.Format(model.DateLayout), bars.Last().Date.Format(model.DateLayout))
	return len(bars), nil
}

// Normalize drops bars without a close price, deduplicates by date keeping
// the last occurrence, and backfills a missing adjusted close from close.
func Normalize(bars model.Series) model.Series {
	byDate := make(map[string]model.Bar, len(bars))
	order := make([]string, 0, len(bars))
	for _, b := range bars {
		if b.Close == 0 {
			continue
		}
		if b.AdjClose == 0 {
			b.AdjClose = b.Close
		}
		key := b.Date.Format(model.DateLayout)
		if _, seen := byDate[key]; !seen {
			order = append(order, key)
		}
		byDate[key] = b
	}
	out := make(model.Series, 0, len(order))
	for _, key := range order {
		out = append(out, byDate[key])
	}
	return out
}
