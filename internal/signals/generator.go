package signals

import (
	"fmt"
	"math"
	"time"

	"github.com/dthrottle/spy-leaps-monitor/internal/config"
	"github.com/dthrottle/spy-leaps-monitor/internal/model"
)

// Generator evaluates the strategy predicates. It holds only the
// configuration: the consecutive-days-above-200MA counter is threaded
// through ShouldResume explicitly, so every method is a pure function of
// its arguments.
type Generator struct {
	cfg config.StrategyConfig
}

// NewGenerator returns a predicate generator for the given parameters.
func NewGenerator(cfg config.StrategyConfig) *Generator {
	return &Generator{cfg: cfg}
}

// ShouldPause reports whether weekly buying should be suspended on day i:
// drawdown from the lookback peak beyond the pause threshold, or (when VIX
// data covers this date) a VIX close above the configured threshold.
// vix may be nil when no volatility-index series is available.
func (g *Generator) ShouldPause(i int, ind *IndicatorSeries, date time.Time, vix map[string]float64) (bool, string) {
	if dd := ind.DrawdownPct[i]; !math.IsNaN(dd) && dd <= -g.cfg.PauseDrawdownPct {
		return true, fmt.Sprintf("Drawdown %.1f%% exceeds threshold", dd)
	}
	if vix != nil {
		if vixClose, ok := vix[date.Format(model.DateLayout)]; ok && vixClose > g.cfg.VIXThreshold {
			return true, fmt.Sprintf("VIX %.1f exceeds threshold %g", vixClose, g.cfg.VIXThreshold)
		}
	}
	return false, ""
}

// ShouldLiquidate reports whether all open positions should be closed on
// day i: price far enough below the 200-day MA, drawdown from peak beyond
// the liquidation threshold, or a death cross when that mode is enabled.
func (g *Generator) ShouldLiquidate(i int, ind *IndicatorSeries) (bool, string) {
	if pct := ind.PctFrom200MA[i]; !math.IsNaN(pct) && pct <= -g.cfg.LiquidatePctFrom200MA {
		return true, fmt.Sprintf("Price %.1f%% below 200-day MA", pct)
	}
	if dd := ind.DrawdownPct[i]; !math.IsNaN(dd) && dd <= -g.cfg.LiquidatePctFromPeak {
		return true, fmt.Sprintf("Drawdown %.1f%% from peak exceeds liquidation threshold", dd)
	}
	if g.cfg.UseDeathCross && ind.DeathCross[i] {
		return true, "Death cross detected (50-day MA < 200-day MA)"
	}
	return false, ""
}

// ShouldResume reports whether buying should resume on day i. daysAbove is
// the running count of consecutive closes above the 200-day MA; the updated
// count is returned and must be carried by the caller to the next check.
// The count resets to zero both on a close at or below the MA and on the
// consecutive-days trigger firing.
func (g *Generator) ShouldResume(i int, ind *IndicatorSeries, daysAbove int) (bool, string, int) {
	if ma := ind.MA200[i]; !math.IsNaN(ma) {
		if ind.Close[i] > ma {
			daysAbove++
			if daysAbove >= g.cfg.ResumeConsecDays {
				return true, fmt.Sprintf("Price above 200-day MA for %d consecutive days", g.cfg.ResumeConsecDays), 0
			}
		} else {
			daysAbove = 0
		}
	}
	if dd := ind.DrawdownPct[i]; !math.IsNaN(dd) && dd >= -g.cfg.ResumePct {
		return true, fmt.Sprintf("Drawdown recovered to %.1f%%", dd), daysAbove
	}
	return false, "", daysAbove
}

// IsBuyDay reports whether date falls on the configured buy weekday
// (Monday=0 convention).
func (g *Generator) IsBuyDay(date time.Time) bool {
	return (int(date.Weekday())+6)%7 == g.cfg.BuyWeekday
}
