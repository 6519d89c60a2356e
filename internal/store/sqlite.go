package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dthrottle/spy-leaps-monitor/internal/model"
)

// SQLiteStore persists data to a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so a dashboard can read while a backtest writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_date           TEXT,
			exit_date            TEXT,
			entry_price          REAL,
			exit_price           REAL,
			option_strike        REAL,
			option_entry_premium REAL,
			option_exit_premium  REAL,
			contracts            INTEGER,
			pnl                  REAL,
			notes                TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_entry ON trades(entry_date)`,

		`CREATE TABLE IF NOT EXISTS signals (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			date        TEXT,
			signal_type TEXT,
			details     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_date ON signals(date)`,

		`CREATE TABLE IF NOT EXISTS config (
			run_id     TEXT PRIMARY KEY,
			created_at TEXT,
			params     TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) tableExists(table string) (bool, error) {
	var name string
	err := s.db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return true, nil
}

// LoadSeries returns bars from a price table, ordered by date, optionally
// bounded by inclusive start/end dates.
func (s *SQLiteStore) LoadSeries(table, startDate, endDate string) (model.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.tableExists(table)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, table)
	}

	query := fmt.Sprintf(
		`SELECT date, open, high, low, close, adj_close, volume FROM %q WHERE 1=1`, table)
	args := []any{}
	if startDate != "" {
		query += " AND date >= ?"
		args = append(args, startDate)
	}
	if endDate != "" {
		query += " AND date <= ?"
		args = append(args, endDate)
	}
	query += " ORDER BY date"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var series model.Series
	for rows.Next() {
		var dateStr string
		var b model.Bar
		if err := rows.Scan(&dateStr, &b.Open, &b.High, &b.Low, &b.Close, &b.AdjClose, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		d, err := time.Parse(model.DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse date %q in %s: %w", dateStr, table, err)
		}
		b.Date = d
		series = append(series, b)
	}
	return series, rows.Err()
}

// SaveSeries replaces the table contents with the given bars.
func (s *SQLiteStore) SaveSeries(table string, series model.Series) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save %s: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %q`, table)); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}
	if _, err := tx.Exec(fmt.Sprintf(`CREATE TABLE %q (
		date      TEXT PRIMARY KEY,
		open      REAL,
		high      REAL,
		low       REAL,
		close     REAL,
		adj_close REAL,
		volume    REAL
	)`, table)); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(
		`INSERT INTO %q (date, open, high, low, close, adj_close, volume) VALUES (?,?,?,?,?,?,?)`, table))
	if err != nil {
		return fmt.Errorf("prepare insert %s: %w", table, err)
	}
	defer stmt.Close()

	for _, b := range series {
		if _, err := stmt.Exec(b.Date.Format(model.DateLayout),
			b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume); err != nil {
			return fmt.Errorf("insert %s bar: %w", table, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) SaveTrade(t model.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO trades
		(entry_date, exit_date, entry_price, exit_price,
		 option_strike, option_entry_premium, option_exit_premium,
		 contracts, pnl, notes)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		t.EntryDate, t.ExitDate, t.EntryPrice, t.ExitPrice,
		t.Strike, t.EntryPremium, t.ExitPremium,
		t.Contracts, t.PnL, t.Notes,
	)
	return err
}

func (s *SQLiteStore) SaveSignal(sig model.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO signals (date, signal_type, details) VALUES (?,?,?)`,
		sig.Date, string(sig.Type), sig.Details)
	return err
}

func (s *SQLiteStore) LoadTrades() ([]model.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT entry_date, exit_date, entry_price, exit_price,
		option_strike, option_entry_premium, option_exit_premium, contracts, pnl, notes
		FROM trades ORDER BY entry_date, id`)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []model.Trade
	for rows.Next() {
		var t model.Trade
		if err := rows.Scan(&t.EntryDate, &t.ExitDate, &t.EntryPrice, &t.ExitPrice,
			&t.Strike, &t.EntryPremium, &t.ExitPremium, &t.Contracts, &t.PnL, &t.Notes); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (s *SQLiteStore) LoadSignals() ([]model.Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT date, signal_type, details FROM signals ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var sigs []model.Signal
	for rows.Next() {
		var sig model.Signal
		var sigType string
		if err := rows.Scan(&sig.Date, &sigType, &sig.Details); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		sig.Type = model.SignalType(sigType)
		sigs = append(sigs, sig)
	}
	return sigs, rows.Err()
}

func (s *SQLiteStore) ClearTrades() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM trades`)
	return err
}

func (s *SQLiteStore) ClearSignals() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM signals`)
	return err
}

func (s *SQLiteStore) SaveRunConfig(runID, paramsJSON string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT OR REPLACE INTO config (run_id, created_at, params) VALUES (?,?,?)`,
		runID, time.Now().Format(time.RFC3339), paramsJSON)
	return err
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
