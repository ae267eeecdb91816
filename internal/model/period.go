package model

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
)

// Period selects a window relative to the last date of the data.
type Period string

const (
	Period1M  Period = "1M"
	Period3M  Period = "3M"
	PeriodYTD Period = "YTD"
	Period1Y  Period = "1Y"
	PeriodMax Period = "MAX"
)

// Periods lists the selector options in display order.
var Periods = []Period{Period1M, Period3M, PeriodYTD, Period1Y, PeriodMax}

// DefaultPeriod is preselected in the UI.
const DefaultPeriod = PeriodYTD

// ParsePeriod maps a user key to a Period. Unknown keys select the whole history.
func ParsePeriod(s string) Period {
	p := Period(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Periods {
		if p == known {
			return p
		}
	}
	return PeriodMax
}

// DateRange is an inclusive window of dates.
type DateRange struct {
	From, To civil.Date
}

// Contains reports whether d lies within the range, boundaries included.
func (r DateRange) Contains(d civil.Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.From, r.To)
}
