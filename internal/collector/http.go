package collector

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"FundDashboard/internal/model"
)

// DefaultTimeout bounds a single sheet download.
const DefaultTimeout = 60 * time.Second

// HTTPFetcher downloads CSV published from a spreadsheet.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates a fetcher with optional proxy support.
func NewHTTPFetcher(proxyURL string, timeout time.Duration) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// FetchCSV downloads and parses the sheet at addr.
func (f *HTTPFetcher) FetchCSV(ctx context.Context, addr string) (*model.RawTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, &FetchError{URL: addr, Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: addr, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil, &FetchError{URL: addr, StatusCode: resp.StatusCode, Err: fmt.Errorf("status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: addr, Err: fmt.Errorf("read body: %w", err)}
	}

	raw, err := ParseCSV(StripNBSP(body))
	if err != nil {
		return nil, &FetchError{URL: addr, Err: err}
	}
	return raw, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StripNBSP removes every non-breaking space from body, whether it arrives as
// UTF-8 (C2 A0) or as a lone Latin-1 0xA0 byte.
func StripNBSP(body []byte) []byte {
	body = bytes.TrimPrefix(body, utf8BOM)
	out := make([]byte, 0, len(body))
	for len(body) > 0 {
		r, size := utf8.DecodeRune(body)
		switch {
		case r == '\u00a0':
		case r == utf8.RuneError && size == 1 && body[0] == 0xA0:
		default:
			out = append(out, body[:size]...)
		}
		body = body[size:]
	}
	return out
}

// ParseCSV reads a comma-separated sheet. The first record is the header and
// short records are padded to its width.
func ParseCSV(data []byte) (*model.RawTable, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return &model.RawTable{}, nil
	}

	header := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		}
		rows = append(rows, rec)
	}
	return &model.RawTable{Header: header, Rows: rows}, nil
}
