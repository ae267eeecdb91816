package recorder

import (
	"time"

	"github.com/google/uuid"
)

// FetchEvent describes one attempt to load a sheet.
type FetchEvent struct {
	ID       uuid.UUID
	URL      string
	Source   string // fetcher name
	RawRows  int
	Rows     int // rows kept after tidying
	Columns  int
	Duration time.Duration
	Err      string // empty on success
}

// ViewEvent describes one rendered dashboard view.
type ViewEvent struct {
	URL    string
	Period string
	Series []string
	Rows   int
	Empty  bool
}

// Recorder persists dashboard usage history.
type Recorder interface {
	RecordFetch(evt *FetchEvent) error
	RecordView(evt *ViewEvent) error
	Close() error
}
