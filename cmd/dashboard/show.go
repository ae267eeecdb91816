package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"FundDashboard/internal/collector"
	"FundDashboard/internal/config"
	"FundDashboard/internal/model"
	"FundDashboard/internal/render"
	"FundDashboard/internal/view"
)

// selection holds the flags shared by show and export.
type selection struct {
	url    string
	period string
	series string
}

func (s *selection) setFlags(f *flag.FlagSet) {
	f.StringVar(&s.url, "url", "", "CSV link. Defaults to data_source.csv_url.")
	f.StringVar(&s.period, "p", "", "Period: 1M, 3M, YTD, 1Y or MAX. Defaults to dashboard.period.")
	f.StringVar(&s.series, "s", "", "Comma separated series. Defaults to the brand's series.")
}

// build fetches the sheet and builds the requested view.
func (s *selection) build(ctx context.Context, cfg *config.Config) (*view.View, error) {
	csvURL := s.url
	if csvURL == "" {
		csvURL = cfg.DataSource.CSVURL
	}
	period := s.period
	if period == "" {
		period = cfg.Dashboard.Period
	}

	col := collector.NewCollector(newFetcher(cfg), nil)
	tbl, err := col.Collect(ctx, csvURL)
	if err != nil {
		return nil, err
	}

	var series []string
	for _, name := range strings.Split(s.series, ",") {
		if name = strings.TrimSpace(name); name != "" {
			series = append(series, name)
		}
	}
	if len(series) == 0 {
		series = view.DefaultSelection(tbl.Columns, cfg.Dashboard.Brand)
	}
	return view.Build(tbl, view.Request{Period: model.ParsePeriod(period), Series: series, ShowTable: true}), nil
}

// showCmd prints the rebased table in the terminal.
type showCmd struct {
	selection
	style string
	width int
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "print the rebased table in the terminal" }
func (*showCmd) Usage() string {
	return `dashboard show [-url <csv>] [-p <period>] [-s <series,...>] [-style <glamour style>]

  Fetches the sheet and prints percent change from the period's first value.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	c.selection.setFlags(f)
	f.StringVar(&c.style, "style", "auto", "Glamour style (auto, dark, light, notty).")
	f.IntVar(&c.width, "width", 120, "Word wrap width.")
}

func (c *showCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	v, err := c.build(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Kunne ikke laste data: %v\n", err)
		return subcommands.ExitFailure
	}
	if v.Empty {
		fmt.Println(v.EmptyMessage)
		return subcommands.ExitSuccess
	}

	out, err := render.TableTerminal(v, c.style, c.width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering table: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s (%s)\n", render.PageTitle, v.Range)
	fmt.Print(out)
	return subcommands.ExitSuccess
}
