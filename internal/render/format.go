package render

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

const (
	dateLayout      = "02.01.2006"
	timestampLayout = "02.01.2006 15:04"
)

// FormatDate formats d as DD.MM.YYYY.
func FormatDate(d civil.Date) string {
	return d.In(time.UTC).Format(dateLayout)
}

// FormatTimestamp formats t as DD.MM.YYYY HH:MM.
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// FormatPercent rounds v half away from zero to two decimals.
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Round2 rounds v to two decimals the same way FormatPercent does.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// TooltipLabel is the hover text for one point of a series.
func TooltipLabel(series string, v float64) string {
	return series + ": " + FormatPercent(v) + "%"
}

// Caption is the footer line under the chart.
func Caption(now time.Time) string {
	return "Sist oppdatert: " + FormatTimestamp(now)
}
