package recorder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecorder persists history to PostgreSQL.
type PostgresRecorder struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPostgresRecorder connects to dsn and creates the history tables.
func NewPostgresRecorder(ctx context.Context, dsn string) (*PostgresRecorder, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	r := &PostgresRecorder{pool: pool, timeout: 5 * time.Second}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] postgres recorder connected: %s/%s", config.ConnConfig.Host, config.ConnConfig.Database)
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fetch_history (
			id          UUID PRIMARY KEY,
			recorded_at TIMESTAMPTZ NOT NULL,
			url         TEXT NOT NULL,
			source      TEXT,
			raw_rows    INTEGER,
			row_count   INTEGER,
			col_count   INTEGER,
			duration_ms BIGINT,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_recorded_at ON fetch_history(recorded_at)`,

		`CREATE TABLE IF NOT EXISTS view_history (
			id          BIGSERIAL PRIMARY KEY,
			recorded_at TIMESTAMPTZ NOT NULL,
			url         TEXT NOT NULL,
			period      TEXT,
			series      TEXT[],
			row_count   INTEGER,
			empty       BOOLEAN
		)`,
		`CREATE INDEX IF NOT EXISTS idx_view_recorded_at ON view_history(recorded_at)`,
	}
	for _, s := range stmts {
		if _, err := r.pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *PostgresRecorder) RecordFetch(evt *FetchEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `INSERT INTO fetch_history
		(id, recorded_at, url, source, raw_rows, row_count, col_count, duration_ms, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		evt.ID.String(), time.Now(), evt.URL, evt.Source,
		evt.RawRows, evt.Rows, evt.Columns, evt.Duration.Milliseconds(), evt.Err,
	)
	return err
}

func (r *PostgresRecorder) RecordView(evt *ViewEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `INSERT INTO view_history
		(recorded_at, url, period, series, row_count, empty)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		time.Now(), evt.URL, evt.Period, evt.Series, evt.Rows, evt.Empty,
	)
	return err
}

func (r *PostgresRecorder) Close() error {
	log.Println("[INFO] closing postgres recorder")
	r.pool.Close()
	return nil
}
