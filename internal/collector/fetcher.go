package collector

import (
	"context"
	"fmt"

	"FundDashboard/internal/model"
)

// Fetcher defines the interface for retrieving a published sheet.
type Fetcher interface {
	FetchCSV(ctx context.Context, url string) (*model.RawTable, error)
	Name() string
}

// FetchError reports a sheet that could not be downloaded or read.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("hent %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("hent %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
