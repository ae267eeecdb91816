package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"FundDashboard/internal/render"
	"FundDashboard/internal/view"
)

// exportCmd writes the rebased table or chart to a file.
type exportCmd struct {
	selection
	format string
	output string
	width  int
	height int
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the rebased table or chart" }
func (*exportCmd) Usage() string {
	return `dashboard export [-url <csv>] [-p <period>] [-s <series,...>] [-f csv|md|svg] [-o <file>]

  Writes the selected window as CSV, a markdown table or an SVG chart.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.selection.setFlags(f)
	f.StringVar(&c.format, "f", "csv", "Output format: csv, md or svg.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to stdout.")
	f.IntVar(&c.width, "width", 0, "Chart width. Defaults to dashboard.chart_width.")
	f.IntVar(&c.height, "height", 0, "Chart height. Defaults to dashboard.chart_height.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.width == 0 {
		c.width = cfg.Dashboard.ChartWidth
	}
	if c.height == 0 {
		c.height = cfg.Dashboard.ChartHeight
	}

	v, err := c.build(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Kunne ikke laste data: %v\n", err)
		return subcommands.ExitFailure
	}
	if v.Empty {
		fmt.Fprintln(os.Stderr, v.EmptyMessage)
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		f, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer f.Close()
		w = f
	}

	if err := c.write(w, v); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *exportCmd) write(w io.Writer, v *view.View) error {
	switch c.format {
	case "csv":
		return render.WriteCSV(w, v)
	case "md":
		_, err := io.WriteString(w, render.TableMarkdown(v))
		return err
	case "svg":
		err := render.ChartSVG(w, v, c.width, c.height)
		if errors.Is(err, render.ErrNoChartData) {
			if !v.Empty {
				fmt.Fprintln(os.Stderr, view.EmptyMessage)
			}
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown format %q", c.format)
	}
}
