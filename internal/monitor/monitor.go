// Package monitor keeps the database and backtest current: on a cron
// schedule it refreshes price history and re-runs the strategy, surfacing
// any signal emitted on the most recent trading day.
package monitor

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dthrottle/spy-leaps-monitor/internal/collector"
	"github.com/dthrottle/spy-leaps-monitor/internal/config"
	"github.com/dthrottle/spy-leaps-monitor/internal/engine"
	"github.com/dthrottle/spy-leaps-monitor/internal/model"
	"github.com/dthrottle/spy-leaps-monitor/internal/store"
)

// Monitor schedules the daily refresh-and-rerun task.
type Monitor struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Store     store.Store
	Cfg       *config.Config
}

// New creates a Monitor.
func New(cfg *config.Config, col *collector.Collector, st store.Store) *Monitor {
	return &Monitor{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Store:     st,
		Cfg:       cfg,
	}
}

// Register adds the daily task under the given cron spec.
func (m *Monitor) Register(dailyCron string) error {
	if _, err := m.Cron.AddFunc(dailyCron, m.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (m *Monitor) Start() {
	m.Cron.Start()
	log.Println("[INFO] monitor started")
}

// Stop stops the cron scheduler gracefully.
func (m *Monitor) Stop() {
	m.Cron.Stop()
	log.Println("[INFO] monitor stopped")
}

// RunNow executes the daily task immediately (manual trigger / RUN_ON_START).
func (m *Monitor) RunNow() {
	m.dailyTask()
}

func (m *Monitor) dailyTask() {
	log.Println("[INFO] running daily refresh")

	start, err := time.Parse(model.DateLayout, m.Cfg.Strategy.StartDate)
	if err != nil {
		log.Printf("[ERROR] bad start_date: %v", err)
		return
	}
	end := time.Now().UTC()

	if _, err := m.Collector.Download(m.Cfg.Data.Symbol, m.Cfg.Data.PriceTable, start, end); err != nil {
		log.Printf("[ERROR] refresh prices: %v", err)
		return
	}
	if _, err := m.Collector.Download(m.Cfg.Data.VIXSymbol, m.Cfg.Data.VIXTable, start, end); err != nil {
		log.Printf("[WARN] refresh vix: %v", err)
	}

	eng := engine.New(m.Cfg.Strategy, m.Store, m.Cfg.Data.PriceTable, m.Cfg.Data.VIXTable)
	metrics, err := eng.Run()
	if err != nil {
		log.Printf("[ERROR] backtest: %v", err)
		return
	}

	curve := metrics.EquityCurve
	lastDate := curve[len(curve)-1].Date
	log.Printf("[INFO] backtest through %s: total return %+.2f%%, drawdown %.2f%%, %d trades",
		lastDate, metrics.TotalReturn, metrics.MaxDrawdown, metrics.TotalTrades)

	for _, sig := range eng.Signals() {
		if sig.Date == lastDate {
			log.Printf("[INFO] signal today: %s %s", sig.Type, sig.Details)
		}
	}
}
