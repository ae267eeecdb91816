package calculator

import (
	"math"

	"cloud.google.com/go/civil"

	"FundDashboard/internal/model"
)

// Rebase expresses each selected series as percent change from its first
// non-null value in t. Unknown or empty series come back entirely null.
func Rebase(t *model.TidyTable, columns []string) *model.RebasedTable {
	n := t.Len()
	out := &model.RebasedTable{
		Dates:   make([]civil.Date, n),
		Columns: make([]string, len(columns)),
		Values:  make([][]model.Cell, len(columns)),
	}
	copy(out.Columns, columns)
	for i := 0; i < n; i++ {
		out.Dates[i] = t.Rows[i].Date
	}
	for i, name := range columns {
		out.Values[i] = rebaseSeries(t.Column(name), n)
	}
	return out
}

func rebaseSeries(cells []model.Cell, n int) []model.Cell {
	out := make([]model.Cell, n)
	base, ok := firstValue(cells)
	if !ok {
		return out
	}
	for i, c := range cells {
		v, ok := c.Value()
		if !ok {
			continue
		}
		pct := (v/base - 1.0) * 100.0
		// a zero base has no meaningful percent change
		if math.IsNaN(pct) || math.IsInf(pct, 0) {
			continue
		}
		out[i] = model.Number(pct)
	}
	return out
}

func firstValue(cells []model.Cell) (float64, bool) {
	for _, c := range cells {
		if v, ok := c.Value(); ok {
			return v, true
		}
	}
	return 0, false
}
