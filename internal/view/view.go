package view

import (
	"strings"

	"FundDashboard/internal/calculator"
	"FundDashboard/internal/model"
)

// EmptyMessage is shown when the window or the selection has no data.
const EmptyMessage = "Ingen data i valgt periode/utvalg."

// DefaultBrand marks the house funds preselected in the series picker.
const DefaultBrand = "Pensum"

// MaxDefaultSeries caps the preselection.
const MaxDefaultSeries = 3

// Request is the user's current choice of controls.
type Request struct {
	Period    model.Period
	Series    []string
	ShowTable bool
}

// View is everything needed to draw the chart and the optional table.
type View struct {
	Period       model.Period
	Range        model.DateRange
	Series       []string // selected series that exist in the data
	Rebased      *model.RebasedTable
	Points       []model.Point
	ShowTable    bool
	Empty        bool
	EmptyMessage string
}

// DefaultSelection picks up to MaxDefaultSeries columns whose name contains
// brand, falling back to the first columns of the sheet.
func DefaultSelection(columns []string, brand string) []string {
	var picked []string
	if brand != "" {
		for _, c := range columns {
			if strings.Contains(c, brand) {
				picked = append(picked, c)
				if len(picked) == MaxDefaultSeries {
					break
				}
			}
		}
	}
	if len(picked) > 0 {
		return picked
	}
	n := len(columns)
	if n > MaxDefaultSeries {
		n = MaxDefaultSeries
	}
	return append([]string(nil), columns[:n]...)
}

// Build filters t to the requested period and rebases the selected series.
func Build(t *model.TidyTable, req Request) *View {
	v := &View{Period: req.Period, ShowTable: req.ShowTable}

	for _, s := range req.Series {
		if t.ColumnIndex(s) >= 0 && !contains(v.Series, s) {
			v.Series = append(v.Series, s)
		}
	}

	windowed := calculator.FilterPeriod(t, req.Period)
	if r, ok := calculator.Resolve(t, req.Period); ok {
		v.Range = r
	}
	if windowed.Len() == 0 || len(v.Series) == 0 {
		v.Empty = true
		v.EmptyMessage = EmptyMessage
		return v
	}

	v.Rebased = calculator.Rebase(windowed, v.Series)
	v.Points = Melt(v.Rebased)
	return v
}

// Melt reshapes a rebased table into long-format points, series by series.
// Null cells are left out.
func Melt(t *model.RebasedTable) []model.Point {
	var pts []model.Point
	for i, name := range t.Columns {
		for j, c := range t.Values[i] {
			if val, ok := c.Value(); ok {
				pts = append(pts, model.Point{Date: t.Dates[j], Series: name, Value: val})
			}
		}
	}
	return pts
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
