package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pevans/olympichub/scraper"
)

// DefaultOrigin is the site every feed page is scraped from.
const DefaultOrigin = "https://www.olympics.com"

// Config is the full runtime configuration shared by the CLI and the API
// server.
type Config struct {
	Origin   string           `yaml:"origin"`
	DataDir  string           `yaml:"data_dir"`
	LogLevel string           `yaml:"log_level"`
	Identity scraper.Identity `yaml:"identity"`
	Feeds    FeedsConfig      `yaml:"feeds"`
	Server   ServerConfig     `yaml:"server"`
}

// FeedsConfig holds the page configuration of each feed. Page URLs may be
// relative to Origin.
type FeedsConfig struct {
	Medals     scraper.PageConfig `yaml:"medals"`
	News       NewsConfig         `yaml:"news"`
	Highlights scraper.PageConfig `yaml:"highlights"`
	Schedule   scraper.PageConfig `yaml:"schedule"`
}

// NewsConfig extends the news page with an optional RSS/Atom feed that is
// read when the page cannot be scraped.
type NewsConfig struct {
	scraper.PageConfig `yaml:",inline"`
	FallbackFeedURL    string `yaml:"fallback_feed_url"`
}

// ServerConfig configures cmd/olympichub-api and the dashboard poller.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	DatabasePath string        `yaml:"database_path"`
	CronSecret   string        `yaml:"-"` // only ever read from CRON_SECRET
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Origin:   DefaultOrigin,
		DataDir:  "public/data",
		LogLevel: "info",
		Identity: scraper.DefaultIdentity(),
		Feeds: FeedsConfig{
			Medals: scraper.NewPageConfig(
				"/en/olympic-games/milano-cortina-2026/medals",
				"table", "table tbody tr", 0,
			),
			News: NewsConfig{
				PageConfig: scraper.NewPageConfig(
					"/en/olympic-games/milano-cortina-2026/news",
					"article", "article", 10,
				),
			},
			Highlights: scraper.NewPageConfig(
				"/en/olympic-games/milano-cortina-2026/results",
				".result-item, .event-result", ".result-item, .event-result", 5,
			),
			Schedule: scraper.NewPageConfig(
				"/en/milano-cortina-2026/schedule",
				".schedule-item, .event-schedule", ".schedule-item, .event-schedule", 20,
			),
		},
		Server: ServerConfig{
			Addr:         "localhost:8080",
			DatabasePath: "olympichub.db",
			PollInterval: 5 * time.Minute,
		},
	}
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv() {
	c.Origin = getEnv("OLYMPICHUB_ORIGIN", c.Origin)
	c.DataDir = getEnv("OLYMPICHUB_DATA_DIR", c.DataDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Server.Addr = getEnv("OLYMPICHUB_ADDR", c.Server.Addr)
	c.Server.DatabasePath = getEnv("OLYMPICHUB_DB", c.Server.DatabasePath)
	c.Server.CronSecret = getEnv("CRON_SECRET", c.Server.CronSecret)
	c.Server.PollInterval = getEnvDuration("OLYMPICHUB_POLL_INTERVAL", c.Server.PollInterval)
	c.Feeds.News.MaxItems = getEnvInt("OLYMPICHUB_NEWS_LIMIT", c.Feeds.News.MaxItems)
	c.Feeds.News.FallbackFeedURL = getEnv("OLYMPICHUB_NEWS_FALLBACK_FEED", c.Feeds.News.FallbackFeedURL)
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration parses a duration from environment variable or returns default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvInt parses an int from environment variable or returns default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
