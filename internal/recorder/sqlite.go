package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

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
		`CREATE TABLE IF NOT EXISTS fetch_history (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			url         TEXT NOT NULL,
			source      TEXT,
			raw_rows    INTEGER,
			row_count   INTEGER,
			col_count   INTEGER,
			duration_ms INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_ts ON fetch_history(timestamp)`,

		`CREATE TABLE IF NOT EXISTS view_history (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			url       TEXT NOT NULL,
			period    TEXT,
			series    TEXT,
			row_count INTEGER,
			empty     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_view_ts ON view_history(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordFetch(evt *FetchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO fetch_history
		(id, timestamp, url, source, raw_rows, row_count, col_count, duration_ms, error)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		evt.ID.String(), time.Now().Unix(), evt.URL, evt.Source,
		evt.RawRows, evt.Rows, evt.Columns, evt.Duration.Milliseconds(), evt.Err,
	)
	return err
}

func (r *SQLiteRecorder) RecordView(evt *ViewEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO view_history
		(timestamp, url, period, series, row_count, empty)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.URL, evt.Period, strings.Join(evt.Series, "|"),
		evt.Rows, boolInt(evt.Empty),
	)
	return err
}

// CountFetches returns the number of recorded fetch attempts for url.
func (r *SQLiteRecorder) CountFetches(url string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM fetch_history WHERE url = ?`, url).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
