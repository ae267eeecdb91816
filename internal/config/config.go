package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultCSVURL is the published Pensum performance sheet.
const DefaultCSVURL = "https://docs.google.com/spreadsheets/d/e/" +
	"2PACX-1vSvskjfFaBMj251I0ejyarPl6tRVnRFUI2Xa9hCPf41pndkg2hcB63jJEw-eeur8VuXNZO9KddBIC18/pub?output=csv"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DataSource struct {
		CSVURL   string        `yaml:"csv_url"`
		Timeout  time.Duration `yaml:"timeout"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"data_source"`
	Dashboard struct {
		Brand       string `yaml:"brand"`
		Period      string `yaml:"period"`
		ChartWidth  int    `yaml:"chart_width"`
		ChartHeight int    `yaml:"chart_height"`
		StateFile   string `yaml:"state_file"`
	} `yaml:"dashboard"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresURL string `yaml:"postgres_url"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("CSV_URL"); v != "" {
		cfg.DataSource.CSVURL = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.PostgresURL = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		cfg.Dashboard.StateFile = v
	}
	if v := os.Getenv("BRAND"); v != "" {
		cfg.Dashboard.Brand = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.DataSource.CSVURL == "" {
		cfg.DataSource.CSVURL = DefaultCSVURL
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 60 * time.Second
	}
	if cfg.DataSource.CacheTTL == 0 {
		cfg.DataSource.CacheTTL = 300 * time.Second
	}
	if cfg.Dashboard.Brand == "" {
		cfg.Dashboard.Brand = "Pensum"
	}
	if cfg.Dashboard.Period == "" {
		cfg.Dashboard.Period = "YTD"
	}
	if cfg.Dashboard.ChartWidth == 0 {
		cfg.Dashboard.ChartWidth = 1000
	}
	if cfg.Dashboard.ChartHeight == 0 {
		cfg.Dashboard.ChartHeight = 420
	}

	return cfg, nil
}

// Validate checks that all required fields are usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.DataSource.CSVURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("data_source.csv_url must be an http(s) URL")
	}
	if c.DataSource.Timeout < 0 || c.DataSource.CacheTTL < 0 {
		return fmt.Errorf("data_source durations must not be negative")
	}
	if c.Dashboard.ChartWidth <= 0 || c.Dashboard.ChartHeight <= 0 {
		return fmt.Errorf("dashboard chart size must be positive")
	}
	if c.Proxy != "" {
		if _, err := url.Parse(c.Proxy); err != nil {
			return fmt.Errorf("proxy: %w", err)
		}
	}
	return nil
}
