package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dthrottle/spy-leaps-monitor/internal/collector"
	"github.com/dthrottle/spy-leaps-monitor/internal/config"
	"github.com/dthrottle/spy-leaps-monitor/internal/engine"
	"github.com/dthrottle/spy-leaps-monitor/internal/model"
	"github.com/dthrottle/spy-leaps-monitor/internal/monitor"
	"github.com/dthrottle/spy-leaps-monitor/internal/report"
	"github.com/dthrottle/spy-leaps-monitor/internal/store"
	"github.com/dthrottle/spy-leaps-monitor/internal/sweep"
)

const usage = `usage: leaps <command> [flags]

commands:
  download   fetch price history into the database
  backtest   run the strategy over stored history and print metrics
  sweep      run the parameter sweep from the config's sweep section
  monitor    run the cron-driven daily refresh loop
`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "download":
		cmdDownload(os.Args[2:])
	case "backtest":
		cmdBacktest(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	case "monitor":
		cmdMonitor(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func loadConfig(path string) *config.Config {
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Strategy.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	return cfg
}

func openStore(cfg *config.Config) *store.SQLiteStore {
	st, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	return st
}

func cmdDownload(args []string) {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file path")
	symbol := fs.String("symbol", "", "ticker symbol (default: config data.symbol)")
	table := fs.String("table", "", "target table (default: config data.price_table)")
	startStr := fs.String("start", "", "start date YYYY-MM-DD (default: strategy start_date)")
	endStr := fs.String("end", "", "end date YYYY-MM-DD (default: today)")
	fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	st := openStore(cfg)
	defer st.Close()

	if *symbol == "" {
		*symbol = cfg.Data.Symbol
	}
	if *table == "" {
		*table = cfg.Data.PriceTable
	}
	if *startStr == "" {
		*startStr = cfg.Strategy.StartDate
	}
	start, err := time.Parse(model.DateLayout, *startStr)
	if err != nil {
		log.Fatalf("[FATAL] parse start date: %v", err)
	}
	end := time.Now().UTC()
	if *endStr != "" {
		if end, err = time.Parse(model.DateLayout, *endStr); err != nil {
			log.Fatalf("[FATAL] parse end date: %v", err)
		}
	}

	col := collector.NewCollector(collector.NewYahooFetcher(cfg.Proxy), st)
	n, err := col.Download(*symbol, *table, start, end)
	if err != nil {
		log.Fatalf("[FATAL] download: %v", err)
	}
	fmt.Printf("saved %d rows of %s to %q\n", n, *symbol, *table)
}

func cmdBacktest(args []string) {
	fs := flag.NewFlagSet("backtest", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file path")
	equityCSV := fs.String("equity-csv", "", "write the equity curve to this CSV file")
	fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	st := openStore(cfg)
	defer st.Close()

	eng := engine.New(cfg.Strategy, st, cfg.Data.PriceTable, cfg.Data.VIXTable)
	metrics, err := eng.Run()
	if err != nil {
		log.Fatalf("[FATAL] backtest: %v", err)
	}

	runID := time.Now().Format("20060102-150405")
	if params, err := cfg.Strategy.ToJSON(); err == nil {
		if err := st.SaveRunConfig(runID, params); err != nil {
			log.Printf("[ERROR] save run config: %v", err)
		}
	}

	fmt.Print(report.FormatMetrics(metrics, cfg.Strategy))
	fmt.Println("\nRecent signals:")
	fmt.Print(report.FormatSignals(eng.Signals(), 10))

	if *equityCSV != "" {
		f, err := os.Create(*equityCSV)
		if err != nil {
			log.Fatalf("[FATAL] create %s: %v", *equityCSV, err)
		}
		defer f.Close()
		if err := report.WriteEquityCSV(f, metrics.EquityCurve); err != nil {
			log.Fatalf("[FATAL] write equity csv: %v", err)
		}
		log.Printf("[INFO] equity curve written to %s", *equityCSV)
	}
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file path")
	out := fs.String("out", "", "write sweep rows to this CSV file (default: stdout)")
	fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	if len(cfg.Sweep) == 0 {
		log.Fatal("[FATAL] no sweep ranges configured (config sweep: section)")
	}

	st := openStore(cfg)
	defer st.Close()

	prices, err := st.LoadSeries(cfg.Data.PriceTable, cfg.Strategy.StartDate, cfg.Strategy.EndDate)
	if err != nil {
		log.Fatalf("[FATAL] load prices: %v", err)
	}
	vix, err := st.LoadSeries(cfg.Data.VIXTable, cfg.Strategy.StartDate, cfg.Strategy.EndDate)
	if err != nil {
		log.Printf("[WARN] no VIX series for sweep: %v", err)
		vix = nil
	}

	rows := sweep.Run(cfg.Strategy, prices, vix, cfg.Sweep)
	log.Printf("[INFO] sweep finished: %d rows", len(rows))

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("[FATAL] create %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}
	if err := report.WriteSweepCSV(w, rows); err != nil {
		log.Fatalf("[FATAL] write sweep csv: %v", err)
	}
}

func cmdMonitor(args []string) {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file path")
	runNow := fs.Bool("now", false, "run the daily task immediately on start")
	fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	st := openStore(cfg)
	defer st.Close()

	col := collector.NewCollector(collector.NewYahooFetcher(cfg.Proxy), st)
	mon := monitor.New(cfg, col, st)
	if err := mon.Register(cfg.Monitor.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	mon.Start()
	defer mon.Stop()

	if *runNow || os.Getenv("RUN_ON_START") == "true" {
		go mon.RunNow()
	}

	log.Println("[INFO] monitor is running. Press Ctrl+C to stop.")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("[INFO] shutdown signal received, stopping...")
}
