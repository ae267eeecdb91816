package calculator

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"FundDashboard/internal/model"
)

// SchemaError reports a sheet that lacks a required column.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("fant ikke kolonnen '%s' i CSV", e.Column)
}

// dayFirstLayouts are tried in order. Ambiguous D/M input is always read day first.
var dayFirstLayouts = []string{
	"2.1.2006",
	"2/1/2006",
	"2-1-2006",
	"2006-1-2",
	"2006/1/2",
	"2006-1-2T15:04:05",
	"2.1.06",
	"2/1/06",
}

var timeSuffixes = []string{"", " 15:04", " 15:04:05"}

// ParseDayFirst parses a spreadsheet date, reading D/M before M/D.
func ParseDayFirst(s string) (civil.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, false
	}
	for _, layout := range dayFirstLayouts {
		for _, suffix := range timeSuffixes {
			if t, err := time.Parse(layout+suffix, s); err == nil {
				return civil.DateOf(t), true
			}
		}
	}
	return civil.Date{}, false
}

// CoerceNumber turns spreadsheet text like "1 234,56" into a number.
// Anything that does not parse becomes null.
func CoerceNumber(s string) model.Cell {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return model.Null()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return model.Null()
	}
	return model.Number(v)
}

// Tidy converts a raw sheet into a date-sorted table of numeric series.
func Tidy(raw *model.RawTable) (*model.TidyTable, error) {
	if raw == nil {
		return nil, &SchemaError{Column: model.DateColumn}
	}

	dateIdx := -1
	var columns []string
	var sources []int
	byName := make(map[string]int)
	for i, h := range raw.Header {
		name := strings.TrimSpace(h)
		switch {
		case name == model.DateColumn:
			dateIdx = i
		case name == "":
			continue
		default:
			// a repeated header refers to the later column
			if pos, ok := byName[name]; ok {
				sources[pos] = i
				continue
			}
			byName[name] = len(columns)
			columns = append(columns, name)
			sources = append(sources, i)
		}
	}
	if dateIdx < 0 {
		return nil, &SchemaError{Column: model.DateColumn}
	}

	rows := make([]model.TidyRow, 0, len(raw.Rows))
	for _, rec := range raw.Rows {
		d, ok := ParseDayFirst(field(rec, dateIdx))
		if !ok {
			continue
		}
		cells := make([]model.Cell, len(columns))
		for j, src := range sources {
			cells[j] = CoerceNumber(field(rec, src))
		}
		rows = append(rows, model.TidyRow{Date: d, Cells: cells})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return &model.TidyTable{Columns: columns, Rows: rows}, nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
