package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"FundDashboard/internal/calculator"
	"FundDashboard/internal/collector"
	"FundDashboard/internal/model"
	"FundDashboard/internal/recorder"
	"FundDashboard/internal/render"
	"FundDashboard/internal/session"
	"FundDashboard/internal/view"
)

// Options are the dashboard defaults applied when a request leaves a control unset.
type Options struct {
	DefaultURL    string
	Brand         string
	DefaultPeriod model.Period
	ChartWidth    int
	ChartHeight   int
}

// Server serves the dashboard page, the chart and the data endpoints.
type Server struct {
	Collector *collector.Collector
	Session   *session.Manager
	Recorder  recorder.Recorder
	Opts      Options
	Now       func() time.Time
}

// NewServer creates a Server. A nil session manager keeps state in memory and
// a nil recorder records nothing.
func NewServer(col *collector.Collector, sm *session.Manager, rec recorder.Recorder, opts Options) *Server {
	if sm == nil {
		sm, _ = session.NewManager("")
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if opts.DefaultPeriod == "" {
		opts.DefaultPeriod = model.DefaultPeriod
	}
	if opts.ChartWidth <= 0 {
		opts.ChartWidth = 1000
	}
	if opts.ChartHeight <= 0 {
		opts.ChartHeight = 420
	}
	return &Server{Collector: col, Session: sm, Recorder: rec, Opts: opts, Now: time.Now}
}

// RegisterRoutes registers all routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /chart.svg", s.handleChart)
	mux.HandleFunc("GET /api/series", s.handleSeries)
	mux.HandleFunc("GET /api/table.csv", s.handleTableCSV)
	mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("[INFO] http server stopped")
	return nil
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[INFO] %s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

// controls is a parsed request.
type controls struct {
	URL       string
	Period    model.Period
	Series    []string // nil means "use the default selection"
	ShowTable bool
}

// parseControls reads the query string. An empty query on the index page
// restores the last rendered controls.
func (s *Server) parseControls(q url.Values, restore bool) controls {
	if restore && len(q) == 0 {
		st := s.Session.Get()
		c := controls{URL: st.URL, Series: st.Series, ShowTable: st.ShowTable, Period: s.Opts.DefaultPeriod}
		if st.Period != "" {
			c.Period = model.ParsePeriod(st.Period)
		}
		if c.URL == "" {
			c.URL = s.Opts.DefaultURL
		}
		return c
	}

	c := controls{URL: q.Get("url"), Period: s.Opts.DefaultPeriod, ShowTable: q.Get("table") == "1"}
	if c.URL == "" {
		c.URL = s.Opts.DefaultURL
	}
	if p := q.Get("period"); p != "" {
		c.Period = model.ParsePeriod(p)
	}
	if series, ok := q["series"]; ok {
		c.Series = series
	} else if restore && q.Has("url") && q.Has("period") {
		// a submitted form with nothing selected
		c.Series = []string{}
	}
	return c
}

// build runs one pipeline pass for c.
func (s *Server) build(ctx context.Context, c controls) (*model.TidyTable, *view.View, error) {
	tbl, err := s.Collector.Collect(ctx, c.URL)
	if err != nil {
		return nil, nil, err
	}
	series := c.Series
	if series == nil {
		series = view.DefaultSelection(tbl.Columns, s.Opts.Brand)
	}
	v := view.Build(tbl, view.Request{Period: c.Period, Series: series, ShowTable: c.ShowTable})
	s.recordView(c.URL, v)
	return tbl, v, nil
}

func (s *Server) recordView(csvURL string, v *view.View) {
	evt := &recorder.ViewEvent{URL: csvURL, Period: string(v.Period), Series: v.Series, Empty: v.Empty}
	if v.Rebased != nil {
		evt.Rows = v.Rebased.Len()
	}
	if err := s.Recorder.RecordView(evt); err != nil {
		log.Printf("[ERROR] record view: %v", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	c := s.parseControls(r.URL.Query(), true)

	tbl, v, err := s.build(r.Context(), c)
	if err != nil {
		log.Printf("[WARN] load %s: %v", c.URL, err)
		s.writePage(w, render.ErrorPageData(c.URL, c.Period, err))
		return
	}

	d, err := render.NewPageData(c.URL, tbl.Columns, v, s.Now())
	if err != nil {
		log.Printf("[ERROR] prepare page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.writePage(w, d)

	s.Session.Update(session.State{
		URL:       c.URL,
		Period:    string(v.Period),
		Series:    v.Series,
		ShowTable: v.ShowTable,
	})
}

func (s *Server) writePage(w http.ResponseWriter, d *render.PageData) {
	var buf bytes.Buffer
	if err := render.WritePage(&buf, d); err != nil {
		log.Printf("[ERROR] render page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	_, v, err := s.build(r.Context(), s.parseControls(r.URL.Query(), false))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	var buf bytes.Buffer
	if err := render.ChartSVG(&buf, v, s.Opts.ChartWidth, s.Opts.ChartHeight); err != nil {
		if errors.Is(err, render.ErrNoChartData) {
			http.Error(w, view.EmptyMessage, http.StatusNotFound)
			return
		}
		log.Printf("[ERROR] render chart: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}

// SeriesResponse is the JSON body of /api/series.
type SeriesResponse struct {
	Range   *RangeJSON  `json:"range"`
	Points  []PointJSON `json:"points"`
	Empty   bool        `json:"empty"`
	Message string      `json:"message,omitempty"`
}

// RangeJSON is the resolved window, inclusive on both ends.
type RangeJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// PointJSON is one long-format point. Day and Label are preformatted for the
// chart tooltip.
type PointJSON struct {
	Date   string  `json:"date"`
	Series string  `json:"series"`
	Value  float64 `json:"value"`
	Day    string  `json:"day"`
	Label  string  `json:"label"`
}

// NewSeriesResponse converts a built view to its JSON form.
func NewSeriesResponse(v *view.View) SeriesResponse {
	resp := SeriesResponse{Points: []PointJSON{}, Empty: v.Empty, Message: v.EmptyMessage}
	if v.Range != (model.DateRange{}) {
		resp.Range = &RangeJSON{From: v.Range.From.String(), To: v.Range.To.String()}
	}
	for _, p := range v.Points {
		resp.Points = append(resp.Points, PointJSON{
			Date:   p.Date.String(),
			Series: p.Series,
			Value:  render.Round2(p.Value),
			Day:    render.FormatDate(p.Date),
			Label:  render.TooltipLabel(p.Series, p.Value),
		})
	}
	return resp
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	_, v, err := s.build(r.Context(), s.parseControls(r.URL.Query(), false))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, NewSeriesResponse(v))
}

func (s *Server) handleTableCSV(w http.ResponseWriter, r *http.Request) {
	_, v, err := s.build(r.Context(), s.parseControls(r.URL.Query(), false))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	var buf bytes.Buffer
	if err := render.WriteCSV(&buf, v); err != nil {
		log.Printf("[ERROR] export csv: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="avkastning-%s.csv"`, v.Period))
	w.Write(buf.Bytes())
}

type healthResponse struct {
	Status string                `json:"status"`
	Cache  *collector.CacheStats `json:"cache,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	if cf, ok := s.Collector.Fetcher.(*collector.CachedFetcher); ok {
		st := cf.Stats()
		resp.Cache = &st
	}
	writeJSON(w, resp)
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	var fe *collector.FetchError
	var se *calculator.SchemaError
	switch {
	case errors.As(err, &fe):
		return http.StatusBadGateway
	case errors.As(err, &se):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode json response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
