package collector

import (
	"time"

	"github.com/dthrottle/spy-leaps-monitor/internal/model"
)

// Fetcher fetches daily price history from an external market-data source.
type Fetcher interface {
	// FetchDailyBars returns daily bars for symbol within [start, end],
	// ordered by date ascending.
	FetchDailyBars(symbol string, start, end time.Time) (model.Series, error)
	Name() string
}
