// Package engine runs the day-by-day LEAPS accumulation backtest: it owns
// cash, open and closed positions, the equity curve, and the signal log, and
// reduces the run into performance metrics.
package engine

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/dthrottle/spy-leaps-monitor/internal/config"
	"github.com/dthrottle/spy-leaps-monitor/internal/model"
	"github.com/dthrottle/spy-leaps-monitor/internal/pricing"
	"github.com/dthrottle/spy-leaps-monitor/internal/signals"
	"github.com/dthrottle/spy-leaps-monitor/internal/store"
)

// strikeSpacing is the strike-price increment for synthetic contracts.
const strikeSpacing = 1.0

// Engine drives a single backtest run. It is not safe for concurrent use;
// a parameter sweep gives each goroutine its own Engine and Store.
type Engine struct {
	cfg        config.StrategyConfig
	store      store.Store
	gen        *signals.Generator
	priceTable string
	vixTable   string

	cash       float64
	open       []*Position
	closed     []*Position
	equity     []model.EquitySample
	signalLog  []model.Signal
	paused     bool
	daysAbove  int
}

// New creates an engine reading prices (and optionally VIX) from the given
// store tables.
func New(cfg config.StrategyConfig, st store.Store, priceTable, vixTable string) *Engine {
	return &Engine{
		cfg:        cfg,
		store:      st,
		gen:        signals.NewGenerator(cfg),
		priceTable: priceTable,
		vixTable:   vixTable,
	}
}

// Run executes the backtest over the configured date range and returns the
// computed metrics. Prior trade and signal records are cleared; each closed
// trade and every emitted signal are persisted through the store.
func (e *Engine) Run() (*model.Metrics, error) {
	prices, err := e.store.LoadSeries(e.priceTable, e.cfg.StartDate, e.cfg.EndDate)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	if len(prices) == 0 {
		return nil, errors.New("no price data available for configured date range")
	}

	// VIX is optional: a missing table means the VIX predicate is skipped.
	var vix map[string]float64
	vixSeries, err := e.store.LoadSeries(e.vixTable, e.cfg.StartDate, e.cfg.EndDate)
	switch {
	case err == nil:
		vix = vixSeries.CloseMap()
	case errors.Is(err, store.ErrSeriesNotFound):
		log.Printf("[WARN] no VIX series, skipping VIX checks: %v", err)
	default:
		return nil, fmt.Errorf("load vix: %w", err)
	}

	ind := signals.ComputeIndicators(prices, e.cfg.PauseLookbackDays)

	if err := e.store.ClearTrades(); err != nil {
		return nil, fmt.Errorf("clear trades: %w", err)
	}
	if err := e.store.ClearSignals(); err != nil {
		return nil, fmt.Errorf("clear signals: %w", err)
	}

	e.cash = e.cfg.InitialCapital
	e.open = nil
	e.closed = nil
	e.equity = nil
	e.signalLog = nil
	e.paused = false
	e.daysAbove = 0

	closes := prices.Closes()

	for i, bar := range prices {
		price := bar.Close
		history := closes[:i+1]

		// Step 1: mark to market and sample the equity curve.
		value := e.cash
		for _, p := range e.open {
			value += p.MarkToMarket(bar.Date, price, e.cfg.RiskFreeRate, history)
		}
		e.equity = append(e.equity, model.EquitySample{
			Date:          bar.Date.Format(model.DateLayout),
			Value:         value,
			SpotPrice:     price,
			OpenPositions: len(e.open),
		})

		// Steps 2-4: liquidate / resume / pause / buy, in that order.
		out := decideDay(e.gen, i, ind, bar.Date, vix, dayState{
			Paused:    e.paused,
			DaysAbove: e.daysAbove,
			HasOpen:   len(e.open) > 0,
		})
		e.paused = out.Paused
		e.daysAbove = out.DaysAbove

		if out.Resumed {
			e.record(bar.Date, model.SignalResume, out.ResumeReason)
		}

		switch out.Action {
		case actLiquidate:
			e.closeAll(bar.Date, price, history, out.Reason)
		case actPause:
			e.record(bar.Date, model.SignalPause, out.Reason)
		case actBuy:
			e.openPosition(bar.Date, price, history)
		}
	}

	// Force-close whatever is still open on the final day.
	if len(e.open) > 0 {
		last := prices.Last()
		e.closeAll(last.Date, last.Close, closes, "End of backtest period")
	}

	for _, sig := range e.signalLog {
		if err := e.store.SaveSignal(sig); err != nil {
			log.Printf("[ERROR] save signal: %v", err)
		}
	}

	return e.computeMetrics(), nil
}

// openPosition attempts a weekly buy. Insufficient cash rejects silently;
// breaching the exposure cap emits a MAX_EXPOSURE signal.
func (e *Engine) openPosition(date time.Time, price float64, history []float64) {
	strike := pricing.StrikeFromMoneyness(price, e.cfg.StrikeMoneyness, strikeSpacing)

	tenorDays := int(e.cfg.TimeToExpiryYears * 365)
	expiry := date.AddDate(0, 0, tenorDays)

	premium := pricing.ContractPremium(price, strike, float64(tenorDays), e.cfg.RiskFreeRate, history)

	contracts := 1
	if cost := premium * contractMultiplier; cost > 0 {
		contracts = int(math.Max(1, math.Floor(e.cfg.WeeklyAmount/cost)))
	}
	totalCost := premium * float64(contracts) * contractMultiplier

	if totalCost > e.cash {
		return
	}

	if e.exposurePct()+totalCost/e.cfg.InitialCapital*100 > e.cfg.MaxExposurePct {
		e.record(date, model.SignalMaxExposure, "Maximum exposure reached, skipping buy")
		return
	}

	e.open = append(e.open, &Position{
		EntryDate:    date,
		EntryPrice:   price,
		Strike:       strike,
		EntryPremium: premium,
		Contracts:    contracts,
		ExpiryDate:   expiry,
	})
	e.cash -= totalCost

	e.record(date, model.SignalBuy,
		fmt.Sprintf("Bought %d contracts, strike %.0f, premium $%.2f", contracts, strike, premium))
}

// closeAll realizes every open position at its current synthetic price,
// returns the proceeds to cash, persists the trades, and emits a single
// LIQUIDATE signal carrying the reason.
func (e *Engine) closeAll(date time.Time, price float64, history []float64, reason string) {
	for _, p := range e.open {
		days := p.daysToExpiry(date)
		var exitPremium float64
		if days <= 0 {
			exitPremium = math.Max(price-p.Strike, 0)
		} else {
			exitPremium = pricing.ContractPremium(price, p.Strike, days, e.cfg.RiskFreeRate, history)
		}

		p.Close(date, price, exitPremium)
		e.cash += exitPremium * float64(p.Contracts) * contractMultiplier

		trade := p.Trade()
		trade.Notes = reason
		if err := e.store.SaveTrade(trade); err != nil {
			log.Printf("[ERROR] save trade: %v", err)
		}

		e.closed = append(e.closed, p)
	}
	e.open = nil

	e.record(date, model.SignalLiquidate, reason)
}

// exposurePct is the notional entry cost basis of open positions as a
// percent of initial capital. Deliberately not mark-to-market.
func (e *Engine) exposurePct() float64 {
	var total float64
	for _, p := range e.open {
		total += p.NotionalCost()
	}
	return total / e.cfg.InitialCapital * 100
}

func (e *Engine) record(date time.Time, t model.SignalType, details string) {
	e.signalLog = append(e.signalLog, model.Signal{
		Date:    date.Format(model.DateLayout),
		Type:    t,
		Details: details,
	})
}

// Signals returns the run's signal log in emission order.
func (e *Engine) Signals() []model.Signal { return e.signalLog }

// EquityCurve returns the per-day equity samples.
func (e *Engine) EquityCurve() []model.EquitySample { return e.equity }

// ClosedPositions returns all realized positions in close order.
func (e *Engine) ClosedPositions() []*Position { return e.closed }

// OpenCount returns the number of currently open positions.
func (e *Engine) OpenCount() int { return len(e.open) }

// Cash returns the current cash balance.
func (e *Engine) Cash() float64 { return e.cash }
