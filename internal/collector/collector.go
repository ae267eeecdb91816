package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"FundDashboard/internal/calculator"
	"FundDashboard/internal/model"
	"FundDashboard/internal/recorder"
)

// MockFetcher returns a fixed sheet for development and testing.
type MockFetcher struct {
	Table *model.RawTable
	Err   error
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCSV(_ context.Context, url string) (*model.RawTable, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Table == nil {
		return nil, &FetchError{URL: url, StatusCode: 404}
	}
	return m.Table, nil
}

// invalidator is implemented by fetchers that cache.
type invalidator interface {
	Invalidate(url string)
}

// Collector orchestrates downloading and tidying a sheet.
type Collector struct {
	Fetcher  Fetcher
	Recorder recorder.Recorder
}

// NewCollector creates a new Collector. A nil recorder records nothing.
func NewCollector(fetcher Fetcher, rec recorder.Recorder) *Collector {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Collector{Fetcher: fetcher, Recorder: rec}
}

// Collect downloads the sheet at url and returns it tidied. Errors are either
// a *FetchError or a *calculator.SchemaError.
func (c *Collector) Collect(ctx context.Context, url string) (*model.TidyTable, error) {
	start := time.Now()
	evt := &recorder.FetchEvent{ID: uuid.New(), URL: url, Source: c.Fetcher.Name()}

	raw, err := c.Fetcher.FetchCSV(ctx, url)
	if err != nil {
		c.record(evt, start, err)
		return nil, fmt.Errorf("fetch csv: %w", err)
	}
	evt.RawRows = raw.Len()

	tbl, err := calculator.Tidy(raw)
	if err != nil {
		c.record(evt, start, err)
		return nil, fmt.Errorf("tidy csv: %w", err)
	}
	evt.Rows = tbl.Len()
	evt.Columns = len(tbl.Columns)
	if dropped := raw.Len() - tbl.Len(); dropped > 0 {
		log.Printf("[WARN] %d rows without a valid date dropped from %s", dropped, url)
	}

	c.record(evt, start, nil)
	return tbl, nil
}

// Refresh forgets any cached copy of url and collects it again.
func (c *Collector) Refresh(ctx context.Context, url string) (*model.TidyTable, error) {
	if inv, ok := c.Fetcher.(invalidator); ok {
		inv.Invalidate(url)
	}
	return c.Collect(ctx, url)
}

func (c *Collector) record(evt *recorder.FetchEvent, start time.Time, err error) {
	evt.Duration = time.Since(start)
	if err != nil {
		evt.Err = err.Error()
	}
	if rerr := c.Recorder.RecordFetch(evt); rerr != nil {
		log.Printf("[ERROR] record fetch: %v", rerr)
	}
}
