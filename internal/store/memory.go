package store

import (
	"fmt"
	"sync"

	"github.com/dthrottle/spy-leaps-monitor/internal/model"
)

// MemoryStore is an in-memory Store used by tests and by sweep runs, which
// each need an isolated trade/signal sink over a shared read-only series.
type MemoryStore struct {
	mu      sync.Mutex
	series  map[string]model.Series
	trades  []model.Trade
	signals []model.Signal
	configs map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		series:  make(map[string]model.Series),
		configs: make(map[string]string),
	}
}

// PutSeries registers a series under a table name without copying it; the
// store treats it as read-only.
func (m *MemoryStore) PutSeries(table string, series model.Series) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series[table] = series
}

func (m *MemoryStore) LoadSeries(table, startDate, endDate string) (model.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.series[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, table)
	}
	var out model.Series
	for _, b := range s {
		d := b.Date.Format(model.DateLayout)
		if startDate != "" && d < startDate {
			continue
		}
		if endDate != "" && d > endDate {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *MemoryStore) SaveSeries(table string, series model.Series) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series[table] = append(model.Series(nil), series...)
	return nil
}

func (m *MemoryStore) SaveTrade(t model.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append(m.trades, t)
	return nil
}

func (m *MemoryStore) SaveSignal(s model.Signal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signals = append(m.signals, s)
	return nil
}

func (m *MemoryStore) LoadTrades() ([]model.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Trade(nil), m.trades...), nil
}

func (m *MemoryStore) LoadSignals() ([]model.Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Signal(nil), m.signals...), nil
}

func (m *MemoryStore) ClearTrades() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = nil
	return nil
}

func (m *MemoryStore) ClearSignals() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signals = nil
	return nil
}

func (m *MemoryStore) SaveRunConfig(runID, paramsJSON string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[runID] = paramsJSON
	return nil
}

func (m *MemoryStore) Close() error { return nil }
