package calculator

import (
	"time"

	"cloud.google.com/go/civil"

	"FundDashboard/internal/model"
)

// AddMonths shifts d by n calendar months, clamping the day to the length of
// the target month (Mar 31 - 1 month is the last day of February).
func AddMonths(d civil.Date, n int) civil.Date {
	total := d.Year*12 + int(d.Month) - 1 + n
	year, month := total/12, time.Month(total%12+1)
	if total < 0 && total%12 != 0 {
		year--
		month = time.Month(total%12 + 13)
	}
	day := d.Day
	if last := daysIn(year, month); day > last {
		day = last
	}
	return civil.Date{Year: year, Month: month, Day: day}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Resolve turns a period key into concrete dates. The end of the window is the
// last date present in the table, never the current clock.
func Resolve(t *model.TidyTable, p model.Period) (model.DateRange, bool) {
	end, ok := t.MaxDate()
	if !ok {
		return model.DateRange{}, false
	}
	var start civil.Date
	switch p {
	case model.Period1M:
		start = AddMonths(end, -1)
	case model.Period3M:
		start = AddMonths(end, -3)
	case model.PeriodYTD:
		start = civil.Date{Year: end.Year, Month: time.January, Day: 1}
	case model.Period1Y:
		start = AddMonths(end, -12)
	default:
		start, _ = t.MinDate()
	}
	return model.DateRange{From: start, To: end}, true
}

// FilterPeriod keeps the rows inside the resolved window.
func FilterPeriod(t *model.TidyTable, p model.Period) *model.TidyTable {
	r, ok := Resolve(t, p)
	if !ok {
		return emptyLike(t)
	}
	return FilterRange(t, r)
}

// FilterRange keeps the rows whose date lies in r, boundaries included.
func FilterRange(t *model.TidyTable, r model.DateRange) *model.TidyTable {
	if t.Len() == 0 {
		return emptyLike(t)
	}
	rows := make([]model.TidyRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		if r.Contains(row.Date) {
			rows = append(rows, row)
		}
	}
	return t.WithRows(rows)
}

func emptyLike(t *model.TidyTable) *model.TidyTable {
	if t == nil {
		return &model.TidyTable{}
	}
	return t.WithRows(nil)
}
