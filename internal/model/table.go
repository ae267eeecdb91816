package model

import "cloud.google.com/go/civil"

// DateColumn is the one required column of every sheet.
const DateColumn = "Date"

// RawTable is the CSV as received: headers untouched, every cell as text.
type RawTable struct {
	Header []string
	Rows   [][]string // index-aligned with Header
}

// Len returns the number of data rows.
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// TidyRow is one dated observation across all series.
type TidyRow struct {
	Date  civil.Date
	Cells []Cell // index-aligned with TidyTable.Columns
}

// TidyTable holds the parsed sheet, sorted ascending by date.
type TidyTable struct {
	Columns []string
	Rows    []TidyRow
}

// Len returns the number of rows.
func (t *TidyTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// MinDate returns the first date in the table.
func (t *TidyTable) MinDate() (civil.Date, bool) {
	if t.Len() == 0 {
		return civil.Date{}, false
	}
	min := t.Rows[0].Date
	for _, r := range t.Rows[1:] {
		if r.Date.Before(min) {
			min = r.Date
		}
	}
	return min, true
}

// MaxDate returns the last date in the table.
func (t *TidyTable) MaxDate() (civil.Date, bool) {
	if t.Len() == 0 {
		return civil.Date{}, false
	}
	max := t.Rows[0].Date
	for _, r := range t.Rows[1:] {
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return max, true
}

// ColumnIndex returns the position of a series column, or -1.
func (t *TidyTable) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of one series, or nil if the column does not exist.
func (t *TidyTable) Column(name string) []Cell {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]Cell, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Cells[idx]
	}
	return out
}

// WithRows returns a new table sharing the column list but holding only rows.
func (t *TidyTable) WithRows(rows []TidyRow) *TidyTable {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	return &TidyTable{Columns: cols, Rows: rows}
}

// RebasedTable holds percentage change from the first value of each selected series.
type RebasedTable struct {
	Dates   []civil.Date
	Columns []string
	Values  [][]Cell // Values[col][row]
}

// Len returns the number of rows.
func (t *RebasedTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Dates)
}

// Series returns the rebased values of a column, or nil if it was not selected.
func (t *RebasedTable) Series(name string) []Cell {
	for i, c := range t.Columns {
		if c == name {
			return t.Values[i]
		}
	}
	return nil
}

// Point is one long-format observation used for charting.
type Point struct {
	Date   civil.Date
	Series string
	Value  float64
}
