// Package store persists price series, trades, and signals. The backtest
// engine only sees the Store interface; SQLite backs the real tool and an
// in-memory implementation backs tests and sweep runs.
package store

import (
	"errors"

	"github.com/dthrottle/spy-leaps-monitor/internal/model"
)

// ErrSeriesNotFound is returned by LoadSeries when the requested table does
// not exist. Callers that treat a series as optional (VIX) match on this
// explicitly instead of swallowing arbitrary failures.
var ErrSeriesNotFound = errors.New("series not found")

// Store persists historical data and backtest output.
type Store interface {
	// LoadSeries returns daily bars from table within [startDate, endDate],
	// ordered by date. An empty endDate means no upper bound.
	LoadSeries(table, startDate, endDate string) (model.Series, error)
	// SaveSeries replaces the contents of table with the given bars.
	SaveSeries(table string, series model.Series) error

	SaveTrade(t model.Trade) error
	SaveSignal(s model.Signal) error
	LoadTrades() ([]model.Trade, error)
	LoadSignals() ([]model.Signal, error)
	ClearTrades() error
	ClearSignals() error

	// SaveRunConfig records the flat parameter set of a backtest run.
	SaveRunConfig(runID, paramsJSON string) error

	Close() error
}
