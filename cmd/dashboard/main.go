package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"FundDashboard/internal/collector"
	"FundDashboard/internal/config"
)

var configPath = flag.String("config", "", "Path to the YAML config file (default $CONFIG_PATH or configs/config.yaml)")

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&serveCmd{}, "dashboard")
	subcommands.Register(&showCmd{}, "dashboard")
	subcommands.Register(&exportCmd{}, "dashboard")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

// loadConfig resolves the config path, loads and validates it.
func loadConfig() (*config.Config, error) {
	path := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	if *configPath != "" {
		path = *configPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newFetcher builds the HTTP fetcher behind the in-memory cache.
func newFetcher(cfg *config.Config) *collector.CachedFetcher {
	return collector.NewCachedFetcher(
		collector.NewHTTPFetcher(cfg.Proxy, cfg.DataSource.Timeout),
		cfg.DataSource.CacheTTL,
	)
}
