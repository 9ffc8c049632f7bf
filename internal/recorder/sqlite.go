package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so history can be read while a run is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at       INTEGER NOT NULL,
			elapsed_seconds  REAL,
			clicks           INTEGER,
			purchases        INTEGER,
			cookies_spent    INTEGER,
			final_cookies    INTEGER,
			end_threshold    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS purchases (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			run_started_at  INTEGER NOT NULL,
			option_id       TEXT,
			option_name     TEXT,
			price           INTEGER,
			cookies_before  INTEGER,
			threshold_after REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_run ON purchases(run_started_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(started_at, elapsed_seconds, clicks, purchases, cookies_spent, final_cookies, end_threshold)
		VALUES (?,?,?,?,?,?,?)`,
		rec.StartedAt.Unix(), rec.Elapsed.Seconds(),
		rec.Clicks, rec.Purchases, rec.CookiesSpent, rec.FinalCookies,
		rec.EndThreshold,
	)
	return err
}

func (r *SQLiteRecorder) RecordPurchase(rec *PurchaseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO purchases
		(timestamp, run_started_at, option_id, option_name, price, cookies_before, threshold_after)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.RunStartedAt.Unix(),
		rec.OptionID, rec.OptionName, rec.Price, rec.CookiesBefore,
		rec.ThresholdAfter,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
