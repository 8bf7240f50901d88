// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as the Discord credentials, database path, feed polling cadence,
// logging, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// ReportConfig defines when the weekly leaderboard fires.
type ReportConfig struct {
	Weekday  time.Weekday  // REPORT_WEEKDAY (0=Sunday .. 6=Saturday)
	Hour     int           // REPORT_HOUR
	Minute   int           // REPORT_MINUTE
	Timezone string        // REPORT_TZ
	Grace    time.Duration // REPORT_GRACE: a missed firing this late still runs
}

// Config holds all configuration values for the application.
type Config struct {
	// Discord
	BotToken string // DISCORD_TOKEN (required)
	GuildID  string // DISCORD_GUILD_ID; empty registers commands globally

	// App
	DBPath string // SQLite path

	// Feed polling
	FeedURL      string        // upstream GraphQL endpoint
	FeedLimit    int           // events fetched per identity per cycle
	FeedTimeout  time.Duration // per-request timeout
	FeedRPS      float64       // outbound request rate cap
	PollInterval time.Duration // delay between cycles
	PollPacing   time.Duration // delay between identities within a cycle

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// Status server
	StatusAddr string // listen address for /healthz and /metrics

	// Weekly report
	Report ReportConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		BotToken: getenv("DISCORD_TOKEN", ""),
		GuildID:  getenv("DISCORD_GUILD_ID", ""),

		DBPath: getenv("DB_PATH", "leetboard.db"),

		FeedURL:      getenv("FEED_URL", "https://leetcode.com/graphql"),
		FeedLimit:    getint("FEED_LIMIT", 12),
		FeedTimeout:  getdur("FEED_TIMEOUT", 30*time.Second),
		FeedRPS:      getfloat("FEED_RPS", 2.0),
		PollInterval: getdur("POLL_INTERVAL", 30*time.Second),
		PollPacing:   getdur("POLL_PACING", 500*time.Millisecond),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		StatusAddr: getenv("STATUS_ADDR", ":9090"),

		Report: ReportConfig{
			Weekday:  time.Weekday(getint("REPORT_WEEKDAY", int(time.Monday))),
			Hour:     getint("REPORT_HOUR", 9),
			Minute:   getint("REPORT_MINUTE", 0),
			Timezone: getenv("REPORT_TZ", "America/Chicago"),
			Grace:    getdur("REPORT_GRACE", time.Hour),
		},

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "leetboard"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	// --- validation ---
	if strings.TrimSpace(cfg.BotToken) == "" {
		return cfg, errors.New("DISCORD_TOKEN must not be empty")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.FeedURL) == "" {
		return cfg, errors.New("FEED_URL must not be empty")
	}
	if cfg.FeedLimit < 1 {
		return cfg, errors.New("FEED_LIMIT must be >= 1")
	}
	if cfg.FeedTimeout <= 0 || cfg.PollInterval <= 0 {
		return cfg, errors.New("FEED_TIMEOUT and POLL_INTERVAL must be positive durations")
	}
	if cfg.PollPacing < 0 {
		return cfg, errors.New("POLL_PACING must be >= 0")
	}
	if cfg.FeedRPS <= 0 {
		return cfg, errors.New("FEED_RPS must be > 0")
	}
	if cfg.Report.Weekday < time.Sunday || cfg.Report.Weekday > time.Saturday {
		return cfg, errors.New("REPORT_WEEKDAY must be in 0..6")
	}
	if cfg.Report.Hour < 0 || cfg.Report.Hour > 23 || cfg.Report.Minute < 0 || cfg.Report.Minute > 59 {
		return cfg, errors.New("REPORT_HOUR/REPORT_MINUTE out of range")
	}
	if _, err := time.LoadLocation(cfg.Report.Timezone); err != nil {
		return cfg, errors.New("REPORT_TZ is not a valid IANA zone")
	}
	if cfg.Report.Grace < 0 {
		return cfg, errors.New("REPORT_GRACE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
