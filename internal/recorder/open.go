package recorder

import (
	"context"
	"log"
)

// Open picks a backend: Postgres when postgresURL is set, then SQLite, then
// Noop. A backend that fails to open falls back to Noop.
func Open(ctx context.Context, postgresURL, sqlitePath string) Recorder {
	switch {
	case postgresURL != "":
		pr, err := NewPostgresRecorder(ctx, postgresURL)
		if err != nil {
			log.Printf("[WARN] init postgres recorder failed, using noop: %v", err)
			return NewNoopRecorder()
		}
		return pr
	case sqlitePath != "":
		sr, err := NewSQLiteRecorder(sqlitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			return NewNoopRecorder()
		}
		return sr
	default:
		return NewNoopRecorder()
	}
}
