package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dthrottle/spy-leaps-monitor/internal/config"
	"github.com/dthrottle/spy-leaps-monitor/internal/signals"
)

// indicatorRow builds a one-day indicator set with the given values.
func indicatorRow(close, ma200, drawdown, pctFrom200 float64, deathCross bool) *signals.IndicatorSeries {
	return &signals.IndicatorSeries{
		Close:        []float64{close},
		MA50:         []float64{math.NaN()},
		MA200:        []float64{ma200},
		RollingHigh:  []float64{math.NaN()},
		DrawdownPct:  []float64{drawdown},
		PctFrom200MA: []float64{pctFrom200},
		DeathCross:   []bool{deathCross},
	}
}

var friday = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDecideDay_LiquidateTakesPrecedence(t *testing.T) {
	gen := signals.NewGenerator(config.DefaultStrategy())

	// Liquidation condition (-20% drawdown) and a buy day at once.
	ind := indicatorRow(400, 480, -20, -16.7, false)
	out := decideDay(gen, 0, ind, friday, nil, dayState{HasOpen: true})

	assert.Equal(t, actLiquidate, out.Action)
	assert.True(t, out.Paused, "liquidation transitions to paused")
	assert.NotEmpty(t, out.Reason)
}

func TestDecideDay_LiquidateConditionWithoutPositions(t *testing.T) {
	// When the liquidation condition holds but nothing is open, the day
	// proceeds: no pause transition, and a buy may still happen. This
	// mirrors the reference behavior deliberately.
	cfg := config.DefaultStrategy()
	cfg.LiquidatePctFromPeak = 18
	cfg.PauseDrawdownPct = 1000 // keep the pause predicate quiet
	gen := signals.NewGenerator(cfg)

	ind := indicatorRow(400, math.NaN(), -20, math.NaN(), false)
	out := decideDay(gen, 0, ind, friday, nil, dayState{HasOpen: false})

	assert.Equal(t, actBuy, out.Action)
	assert.False(t, out.Paused)
}

func TestDecideDay_PauseOnBuyDayOnly(t *testing.T) {
	gen := signals.NewGenerator(config.DefaultStrategy())

	// Drawdown beyond the pause threshold but short of liquidation.
	ind := indicatorRow(440, 470, -12, -6.4, false)

	out := decideDay(gen, 0, ind, friday, nil, dayState{HasOpen: true})
	assert.Equal(t, actPause, out.Action)
	assert.True(t, out.Paused)

	// Same conditions on a non-buy day: nothing happens.
	out = decideDay(gen, 0, ind, monday, nil, dayState{HasOpen: true})
	assert.Equal(t, actHold, out.Action)
	assert.False(t, out.Paused)
}

func TestDecideDay_ResumeThenBuySameDay(t *testing.T) {
	cfg := config.DefaultStrategy()
	cfg.ResumePct = 5
	gen := signals.NewGenerator(cfg)

	// Recovered to -2% from peak while paused, on a buy day.
	ind := indicatorRow(490, 470, -2, 4.3, false)
	out := decideDay(gen, 0, ind, friday, nil, dayState{Paused: true})

	assert.True(t, out.Resumed)
	assert.False(t, out.Paused)
	assert.Equal(t, actBuy, out.Action, "a resume feeds into the same day's buy")
	assert.NotEmpty(t, out.ResumeReason)
}

func TestDecideDay_PausedWithoutResumeHolds(t *testing.T) {
	gen := signals.NewGenerator(config.DefaultStrategy())

	ind := indicatorRow(440, 470, -12, -6.4, false)
	out := decideDay(gen, 0, ind, friday, nil, dayState{Paused: true})

	assert.Equal(t, actHold, out.Action)
	assert.True(t, out.Paused)
	assert.False(t, out.Resumed)
}

func TestDecideDay_CounterThreadsThroughOutcome(t *testing.T) {
	cfg := config.DefaultStrategy()
	cfg.ResumeConsecDays = 2
	gen := signals.NewGenerator(cfg)

	// Above the 200-day MA but drawdown still deep: counter advances
	// without resuming.
	ind := indicatorRow(480, 470, -15, 2.1, false)

	out := decideDay(gen, 0, ind, monday, nil, dayState{Paused: true, DaysAbove: 0})
	assert.False(t, out.Resumed)
	assert.Equal(t, 1, out.DaysAbove)

	out = decideDay(gen, 0, ind, monday, nil, dayState{Paused: true, DaysAbove: out.DaysAbove})
	assert.True(t, out.Resumed)
	assert.Equal(t, 0, out.DaysAbove)
}
