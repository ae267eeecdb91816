package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"FundDashboard/internal/collector"
	"FundDashboard/internal/model"
	"FundDashboard/internal/recorder"
	"FundDashboard/internal/scheduler"
	"FundDashboard/internal/server"
	"FundDashboard/internal/session"
)

// serveCmd runs the web dashboard.
type serveCmd struct {
	addr       string
	runOnStart bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the web dashboard" }
func (*serveCmd) Usage() string {
	return `dashboard serve [-addr <host:port>] [-run-on-start]

  Serves the dashboard page, chart and data endpoints until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address. Overrides server.addr.")
	f.BoolVar(&c.runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "Fetch the default sheet once at startup.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log.Println("[INFO] FundDashboard starting...")

	cfg, err := loadConfig()
	if err != nil {
		log.Printf("[FATAL] config: %v", err)
		return subcommands.ExitFailure
	}
	if c.addr != "" {
		cfg.Server.Addr = c.addr
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rec := recorder.Open(ctx, cfg.Database.PostgresURL, cfg.Database.SQLitePath)
	defer rec.Close()

	fetcher := newFetcher(cfg)
	log.Printf("[INFO] data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher, rec)

	sm, err := session.NewManager(cfg.Dashboard.StateFile)
	if err != nil {
		log.Printf("[FATAL] init session state: %v", err)
		return subcommands.ExitFailure
	}

	sched := scheduler.NewScheduler(ctx, col, cfg.DataSource.CSVURL)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Printf("[FATAL] register cron tasks: %v", err)
		return subcommands.ExitFailure
	}
	sched.Start()
	defer sched.Stop()

	if c.runOnStart {
		log.Println("[INFO] run-on-start enabled, fetching default sheet now")
		go sched.RunNow()
	}

	srv := server.NewServer(col, sm, rec, server.Options{
		DefaultURL:    cfg.DataSource.CSVURL,
		Brand:         cfg.Dashboard.Brand,
		DefaultPeriod: model.ParsePeriod(cfg.Dashboard.Period),
		ChartWidth:    cfg.Dashboard.ChartWidth,
		ChartHeight:   cfg.Dashboard.ChartHeight,
	})
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		log.Printf("[ERROR] %v", err)
		return subcommands.ExitFailure
	}
	log.Println("[INFO] FundDashboard stopped")
	return subcommands.ExitSuccess
}
