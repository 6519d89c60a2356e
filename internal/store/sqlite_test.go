package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dthrottle/spy-leaps-monitor/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleSeries(n int) model.Series {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(model.Series, n)
	for i := range s {
		c := 100 + float64(i)
		s[i] = model.Bar{
			Date: start.AddDate(0, 0, i), Open: c - 1, High: c + 1, Low: c - 2,
			Close: c, AdjClose: c, Volume: 1e6,
		}
	}
	return s
}

func sampleTrade() model.Trade {
	return model.Trade{
		EntryDate: "2020-01-03", ExitDate: "2020-06-01",
		EntryPrice: 500, ExitPrice: 480,
		Strike: 500, EntryPremium: 50.9, ExitPremium: 32.1,
		Contracts: 1, PnL: -1880, Notes: "test",
	}
}

// storeSuite exercises the Store contract shared by both implementations.
func storeSuite(t *testing.T, st Store) {
	t.Run("missing table is ErrSeriesNotFound", func(t *testing.T) {
		_, err := st.LoadSeries("nope", "", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSeriesNotFound))
	})

	t.Run("save and load series", func(t *testing.T) {
		in := sampleSeries(10)
		require.NoError(t, st.SaveSeries("prices", in))

		out, err := st.LoadSeries("prices", "", "")
		require.NoError(t, err)
		require.Len(t, out, 10)
		assert.Equal(t, in[0].Date, out[0].Date)
		assert.Equal(t, in[9].Close, out[9].Close)
		assert.Equal(t, in[3].AdjClose, out[3].AdjClose)
	})

	t.Run("date range filter is inclusive", func(t *testing.T) {
		require.NoError(t, st.SaveSeries("prices", sampleSeries(10)))

		out, err := st.LoadSeries("prices", "2020-01-03", "2020-01-06")
		require.NoError(t, err)
		require.Len(t, out, 4)
		assert.Equal(t, "2020-01-03", out[0].Date.Format(model.DateLayout))
		assert.Equal(t, "2020-01-06", out[3].Date.Format(model.DateLayout))

		// Open-ended bounds.
		out, err = st.LoadSeries("prices", "2020-01-08", "")
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})

	t.Run("save series replaces existing rows", func(t *testing.T) {
		require.NoError(t, st.SaveSeries("prices", sampleSeries(10)))
		require.NoError(t, st.SaveSeries("prices", sampleSeries(3)))

		out, err := st.LoadSeries("prices", "", "")
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})

	t.Run("trades persist and clear", func(t *testing.T) {
		require.NoError(t, st.ClearTrades())
		tr := sampleTrade()
		require.NoError(t, st.SaveTrade(tr))

		got, err := st.LoadTrades()
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, tr, got[0])

		require.NoError(t, st.ClearTrades())
		got, err = st.LoadTrades()
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("signals persist and clear", func(t *testing.T) {
		require.NoError(t, st.ClearSignals())
		sig := model.Signal{Date: "2020-01-03", Type: model.SignalBuy, Details: "Bought 1 contracts"}
		require.NoError(t, st.SaveSignal(sig))

		got, err := st.LoadSignals()
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, sig, got[0])

		require.NoError(t, st.ClearSignals())
		got, err = st.LoadSignals()
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("run config", func(t *testing.T) {
		assert.NoError(t, st.SaveRunConfig("run-1", `{"weekly_amount":1000}`))
		// Overwriting the same run is allowed.
		assert.NoError(t, st.SaveRunConfig("run-1", `{"weekly_amount":2000}`))
	})
}

func TestSQLiteStore(t *testing.T) {
	storeSuite(t, newTestSQLite(t))
}

func TestMemoryStore(t *testing.T) {
	storeSuite(t, NewMemoryStore())
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	st, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, st.SaveSeries("prices", sampleSeries(5)))
	require.NoError(t, st.SaveTrade(sampleTrade()))
	require.NoError(t, st.Close())

	st, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer st.Close()

	series, err := st.LoadSeries("prices", "", "")
	require.NoError(t, err)
	assert.Len(t, series, 5)

	trades, err := st.LoadTrades()
	require.NoError(t, err)
	assert.Len(t, trades, 1)
}

func TestMemoryStore_PutSeriesIsVisible(t *testing.T) {
	ms := NewMemoryStore()
	ms.PutSeries("prices", sampleSeries(4))

	out, err := ms.LoadSeries("prices", "2020-01-02", "")
	require.NoError(t, err)
	assert.Len(t, out, 3)
}
