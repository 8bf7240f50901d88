package config

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
)

// clearEnv blanks every variable Load reads so ambient environment never
// bleeds into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DISCORD_TOKEN", "DISCORD_GUILD_ID", "DB_PATH",
		"FEED_URL", "FEED_LIMIT", "FEED_TIMEOUT", "FEED_RPS",
		"POLL_INTERVAL", "POLL_PACING",
		"LOG_LEVEL", "LOG_PRETTY", "STATUS_ADDR",
		"REPORT_WEEKDAY", "REPORT_HOUR", "REPORT_MINUTE", "REPORT_TZ", "REPORT_GRACE",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE",
		"OTEL_SERVICE_NAME", "OTEL_TRACES_SAMPLER_ARG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "tok")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "leetboard.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.FeedURL != "https://leetcode.com/graphql" || cfg.FeedLimit != 12 {
		t.Errorf("feed defaults: url=%q limit=%d", cfg.FeedURL, cfg.FeedLimit)
	}
	if cfg.PollInterval != 30*time.Second || cfg.PollPacing != 500*time.Millisecond {
		t.Errorf("cadence defaults: interval=%v pacing=%v", cfg.PollInterval, cfg.PollPacing)
	}
	if cfg.LogLevel != "info" || cfg.StatusAddr != ":9090" {
		t.Errorf("log/status defaults: %q %q", cfg.LogLevel, cfg.StatusAddr)
	}
	if cfg.Report.Weekday != time.Monday || cfg.Report.Hour != 9 || cfg.Report.Minute != 0 {
		t.Errorf("report defaults: %+v", cfg.Report)
	}
	if cfg.Report.Timezone != "America/Chicago" || cfg.Report.Grace != time.Hour {
		t.Errorf("report defaults: %+v", cfg.Report)
	}
	if cfg.OTEL.Enabled || cfg.OTEL.SampleRatio != 1.0 {
		t.Errorf("otel defaults: %+v", cfg.OTEL)
	}
}

func TestLoad_MissingToken(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DISCORD_TOKEN") {
		t.Fatalf("expected DISCORD_TOKEN error, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("DB_PATH", "/var/lib/bot.db")
	t.Setenv("FEED_LIMIT", "20")
	t.Setenv("POLL_INTERVAL", "1m")
	t.Setenv("POLL_PACING", "0s")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("REPORT_WEEKDAY", "5")
	t.Setenv("REPORT_TZ", "Europe/Berlin")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/var/lib/bot.db" || cfg.FeedLimit != 20 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.PollInterval != time.Minute || cfg.PollPacing != 0 {
		t.Errorf("cadence overrides: %v %v", cfg.PollInterval, cfg.PollPacing)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LOG_LEVEL normalization: %q", cfg.LogLevel)
	}
	if cfg.Report.Weekday != time.Friday || cfg.Report.Timezone != "Europe/Berlin" {
		t.Errorf("report overrides: %+v", cfg.Report)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		k, v string
		want string
	}{
		{"bad log level", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"zero feed limit", "FEED_LIMIT", "0", "FEED_LIMIT"},
		{"bad weekday", "REPORT_WEEKDAY", "7", "REPORT_WEEKDAY"},
		{"bad hour", "REPORT_HOUR", "24", "REPORT_HOUR"},
		{"bad timezone", "REPORT_TZ", "Mars/Olympus", "REPORT_TZ"},
		{"bad sample ratio", "OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DISCORD_TOKEN", "tok")
			t.Setenv(tc.k, tc.v)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %s error, got %v", tc.want, err)
			}
		})
	}
}

func TestGetBool(t *testing.T) {
	clearEnv(t)
	for v, want := range map[string]bool{"1": true, "yes": true, "On": true, "0": false, "off": false} {
		t.Setenv("LOG_PRETTY", v)
		if got := getbool("LOG_PRETTY", false); got != want {
			t.Errorf("getbool(%q) = %v, want %v", v, got, want)
		}
	}
	// Garbage falls back to the default.
	t.Setenv("LOG_PRETTY", "maybe")
	if got := getbool("LOG_PRETTY", true); !got {
		t.Errorf("garbage should keep the default")
	}
}
