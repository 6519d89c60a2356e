package engine

import (
	"time"

	"github.com/dthrottle/spy-leaps-monitor/internal/signals"
)

// dayAction is the single primary action the engine takes on a day.
// Precedence is fixed: liquidate > (resume) > pause > buy. A resume is not
// an action of its own; it can precede a buy within the same day and is
// reported separately on the outcome.
type dayAction int

const (
	actHold dayAction = iota
	actLiquidate
	actPause
	actBuy
)

// dayState is the carried per-run state the decision depends on.
type dayState struct {
	Paused    bool
	DaysAbove int // consecutive closes above the 200-day MA
	HasOpen   bool
}

// dayOutcome is the tagged result of evaluating one day.
type dayOutcome struct {
	Action       dayAction
	Reason       string
	Resumed      bool
	ResumeReason string
	Paused       bool // paused state after this day's evaluation
	DaysAbove    int  // updated counter
}

// decideDay evaluates the per-day state machine as a pure function of the
// carried state and the day's indicators. The liquidate branch short-circuits
// the rest of the day. A liquidate condition with no open positions is
// deliberately a no-op that leaves the pause state untouched, matching the
// reference behavior (a buy later the same day may still proceed).
func decideDay(gen *signals.Generator, i int, ind *signals.IndicatorSeries,
	date time.Time, vix map[string]float64, st dayState) dayOutcome {

	out := dayOutcome{Action: actHold, Paused: st.Paused, DaysAbove: st.DaysAbove}

	if liquidate, reason := gen.ShouldLiquidate(i, ind); liquidate && st.HasOpen {
		out.Action = actLiquidate
		out.Reason = reason
		out.Paused = true
		return out
	}

	if out.Paused {
		resume, reason, days := gen.ShouldResume(i, ind, out.DaysAbove)
		out.DaysAbove = days
		if resume {
			out.Paused = false
			out.Resumed = true
			out.ResumeReason = reason
		}
	}

	if gen.IsBuyDay(date) && !out.Paused {
		if pause, reason := gen.ShouldPause(i, ind, date, vix); pause {
			out.Action = actPause
			out.Reason = reason
			out.Paused = true
		} else {
			out.Action = actBuy
		}
	}

	return out
}
