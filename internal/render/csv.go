package render

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"FundDashboard/internal/view"
)

// WriteCSV writes the wide table as CSV.
func WriteCSV(w io.Writer, v *view.View) error {
	header, rows := TableRows(v)
	cols := make([]series.Series, len(header))
	for i, name := range header {
		vals := make([]string, len(rows))
		for j, row := range rows {
			vals[j] = row[i]
		}
		cols[i] = series.New(vals, series.String, name)
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return fmt.Errorf("build dataframe: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
