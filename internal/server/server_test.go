package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"FundDashboard/internal/collector"
	"FundDashboard/internal/model"
	"FundDashboard/internal/session"
	"FundDashboard/internal/view"
)

func sheet() *model.RawTable {
	return &model.RawTable{
		Header: []string{"Date", "Pensum Norge", "Pensum Global", "OSEBX"},
		Rows: [][]string{
			{"02.01.2024", "100", "200", "1 000,00"},
			{"03.01.2024", "101,234", "", "1 010,00"},
			{"04.01.2024", "99", "210", "990,00"},
		},
	}
}

func newTestServer(t *testing.T, mock *collector.MockFetcher) *Server {
	t.Helper()
	sm, err := session.NewManager(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	col := collector.NewCollector(collector.NewCachedFetcher(mock, collector.DefaultCacheTTL), nil)
	s := NewServer(col, sm, nil, Options{DefaultURL: "http://sheet", Brand: "Pensum"})
	s.Now = func() time.Time { return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC) }
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSeries_JSON(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{Table: sheet()})
	rec := get(t, s, "/api/series?period=MAX&series=Pensum+Norge")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var resp SeriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Empty {
		t.Fatal("expected non-empty response")
	}
	if resp.Range == nil || resp.Range.From != "2024-01-02" || resp.Range.To != "2024-01-04" {
		t.Errorf("unexpected range %+v", resp.Range)
	}
	want := []float64{0, 1.23, -1}
	if len(resp.Points) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(resp.Points))
	}
	for i, p := range resp.Points {
		if p.Series != "Pensum Norge" || p.Value != want[i] {
			t.Errorf("point %d: got %+v, want value %v", i, p, want[i])
		}
	}
	if p := resp.Points[1]; p.Day != "03.01.2024" || p.Label != "Pensum Norge: 1.23%" {
		t.Errorf("unexpected tooltip text %q / %q", p.Day, p.Label)
	}
}

func TestSeries_DefaultSelection(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{Table: sheet()})
	rec := get(t, s, "/api/series?period=MAX")
	var resp SeriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	seen := map[string]bool{}
	for _, p := range resp.Points {
		seen[p.Series] = true
	}
	if !seen["Pensum Norge"] || !seen["Pensum Global"] || seen["OSEBX"] {
		t.Errorf("expected the Pensum series only, got %v", seen)
	}
}

func TestSeries_EmptyStateIsOK(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{Table: sheet()})
	rec := get(t, s, "/api/series?period=1M&series=Unknown")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp SeriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Empty || resp.Message != view.EmptyMessage || len(resp.Points) != 0 {
		t.Errorf("unexpected empty response %+v", resp)
	}
}

func TestSeries_ErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		mock *collector.MockFetcher
		want int
	}{
		{"fetch error", &collector.MockFetcher{}, http.StatusBadGateway},
		{"schema error", &collector.MockFetcher{Table: &model.RawTable{Header: []string{"Dato", "A"}}}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(t, tt.mock), "/api/series")
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"error"`) {
				t.Errorf("expected json error body, got %s", rec.Body)
			}
		})
	}
}

func TestIndex_RendersAndRemembers(t *testing.T) {
	mock := &collector.MockFetcher{Table: sheet()}
	s := newTestServer(t, mock)

	rec := get(t, s, "/?url=http%3A%2F%2Fsheet&period=MAX&series=OSEBX&table=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Avkastning i NOK", "/chart.svg?", `data-src="/api/series?`, "tip.textContent", "<table>", "Sist oppdatert: 01.06.2024 09:30"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	st := s.Session.Get()
	if st.Period != "MAX" || len(st.Series) != 1 || st.Series[0] != "OSEBX" || !st.ShowTable {
		t.Errorf("unexpected session state %+v", st)
	}

	rec = get(t, s, "/")
	if !strings.Contains(rec.Body.String(), `value="OSEBX" selected`) {
		t.Error("expected restored selection on bare index")
	}
	if mock.Calls != 1 {
		t.Errorf("expected cached sheet to be reused, got %d fetches", mock.Calls)
	}
}

func TestIndex_ErrorBanner(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{})
	rec := get(t, s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Kunne ikke laste data") {
		t.Error("expected error banner")
	}
}

func TestIndex_DeselectedShowsInfo(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{Table: sheet()})
	rec := get(t, s, "/?url=http%3A%2F%2Fsheet&period=YTD")
	if !strings.Contains(rec.Body.String(), view.EmptyMessage) {
		t.Error("expected empty-state message")
	}
}

func TestChartAndCSV(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{Table: sheet()})

	rec := get(t, s, "/chart.svg?period=MAX&series=OSEBX")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("unexpected chart response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("expected svg body")
	}

	rec = get(t, s, "/api/table.csv?period=MAX&series=OSEBX")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 4 || lines[0] != "Dato,OSEBX" || lines[2] != "03.01.2024,1.00" {
		t.Errorf("unexpected csv %q", lines)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{Table: sheet()})
	rec := get(t, s, "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body)
	}
}
