package config

import (
	"fmt"
	"strconv"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	RedisURL string `envconfig:"REDIS_URL" default:""`

	// Crawl settings. Sources is a comma-separated list of CODE=URL pairs; when
	// empty, the built-in institution list is used.
	CrawlSources        string `envconfig:"CRAWL_SOURCES" default:""`
	CrawlDelayMS        int    `envconfig:"CRAWL_DELAY_MS" default:"1000"`
	FetchTimeoutSec     int    `envconfig:"FETCH_TIMEOUT_SEC" default:"120"`
	CrawlUserAgent      string `envconfig:"CRAWL_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"`
	CrawlIntervalHours  int    `envconfig:"CRAWL_INTERVAL_HOURS" default:"24"`
	DirectoryTTLMinutes int    `envconfig:"DIRECTORY_TTL_MINUTES" default:"60"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.CrawlDelayMS < 0 {
		return nil, fmt.Errorf("CRAWL_DELAY_MS must be non-negative, got %d", cfg.CrawlDelayMS)
	}
	if cfg.CrawlIntervalHours < 1 {
		return nil, fmt.Errorf("CRAWL_INTERVAL_HOURS must be a positive integer, got %d", cfg.CrawlIntervalHours)
	}
	return &cfg, nil
}

// DSN assembles the Postgres connection string.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" port=" + strconv.Itoa(c.DBPort) +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=disable"
}
