package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"time"

	"FundDashboard/internal/model"
	"FundDashboard/internal/view"
)

//go:embed page.html
var pageTemplate string

var page = template.Must(template.New("page").Parse(pageTemplate))

// PageTitle heads the dashboard card.
const PageTitle = "Pensum fond – Avkastning i NOK"

// Option is one choice in a selector.
type Option struct {
	Value    string
	Selected bool
}

// PageData is the input to the dashboard template.
type PageData struct {
	Title     string
	URL       string
	Periods   []Option
	Series    []Option
	ShowTable bool
	ChartSrc  string
	DataSrc   string
	Table     template.HTML
	Error     string
	Info      string
	Caption   string
}

// NewPageData prepares the template input for a built view. columns are all
// series available in the sheet.
func NewPageData(csvURL string, columns []string, v *view.View, now time.Time) (*PageData, error) {
	d := &PageData{
		Title:     PageTitle,
		URL:       csvURL,
		Periods:   periodOptions(v.Period),
		ShowTable: v.ShowTable,
	}
	for _, c := range columns {
		d.Series = append(d.Series, Option{Value: c, Selected: containsString(v.Series, c)})
	}
	if v.Empty {
		d.Info = v.EmptyMessage
		return d, nil
	}

	q := url.Values{}
	q.Set("url", csvURL)
	q.Set("period", string(v.Period))
	for _, s := range v.Series {
		q.Add("series", s)
	}
	d.ChartSrc = "/chart.svg?" + q.Encode()
	d.DataSrc = "/api/series?" + q.Encode()
	d.Caption = Caption(now)

	if v.ShowTable {
		tbl, err := TableHTML(v)
		if err != nil {
			return nil, err
		}
		// goldmark escapes cell text and drops raw HTML
		d.Table = template.HTML(tbl)
	}
	return d, nil
}

// ErrorPageData prepares the template input when the sheet could not be loaded.
func ErrorPageData(csvURL string, period model.Period, err error) *PageData {
	return &PageData{
		Title:   PageTitle,
		URL:     csvURL,
		Periods: periodOptions(period),
		Error:   fmt.Sprintf("Kunne ikke laste data: %v", err),
	}
}

// WritePage renders the dashboard page.
func WritePage(w io.Writer, d *PageData) error {
	return page.Execute(w, d)
}

func periodOptions(selected model.Period) []Option {
	opts := make([]Option, len(model.Periods))
	for i, p := range model.Periods {
		opts[i] = Option{Value: string(p), Selected: p == selected}
	}
	return opts
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
