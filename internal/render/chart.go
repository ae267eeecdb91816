package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"FundDashboard/internal/view"
)

// ErrNoChartData is returned when no series has enough points to draw a line.
var ErrNoChartData = errors.New("no series with at least two points")

// brandColor is used for the first series.
var brandColor = drawing.ColorFromHex("0a2843")

// ChartSVG draws one line per selected series, percent change on the Y axis.
func ChartSVG(w io.Writer, v *view.View, width, height int) error {
	if v.Empty || v.Rebased == nil {
		return ErrNoChartData
	}

	var series []chart.Series
	minY, maxY := math.Inf(1), math.Inf(-1)
	var minX, maxX time.Time
	for i, name := range v.Series {
		var xs []time.Time
		var ys []float64
		for j, c := range v.Rebased.Series(name) {
			val, ok := c.Value()
			if !ok {
				continue
			}
			x := v.Rebased.Dates[j].In(time.UTC)
			xs = append(xs, x)
			ys = append(ys, val)
			minY, maxY = math.Min(minY, val), math.Max(maxY, val)
			if minX.IsZero() || x.Before(minX) {
				minX = x
			}
			if x.After(maxX) {
				maxX = x
			}
		}
		if len(xs) < 2 {
			continue
		}
		color := chart.GetDefaultColor(i)
		if i == 0 {
			color = brandColor
		}
		series = append(series, chart.TimeSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: color, StrokeWidth: 2},
		})
	}
	if len(series) == 0 || !maxX.After(minX) {
		return ErrNoChartData
	}

	yAxis := chart.YAxis{
		Name:           "Utvikling fra startdato",
		ValueFormatter: percentTick,
	}
	if minY == maxY {
		yAxis.Range = &chart.ContinuousRange{Min: minY - 1, Max: maxY + 1}
	}

	graph := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "Dato",
			ValueFormatter: dateTick,
		},
		YAxis:  yAxis,
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}

	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func dateTick(v interface{}) string {
	if f, ok := v.(float64); ok {
		return time.Unix(0, int64(f)).UTC().Format(dateLayout)
	}
	return ""
}

func percentTick(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f%%", f)
	}
	return ""
}
