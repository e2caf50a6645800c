package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/sanctuary/internal/constants"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SANCTUARY_DATA_DIR", dir)

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != constants.DefaultServerAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, constants.DefaultServerAddr)
	}
	if cfg.Insights.PatternDays != constants.DefaultPatternDays {
		t.Errorf("PatternDays = %d, want %d", cfg.Insights.PatternDays, constants.DefaultPatternDays)
	}
	if want := filepath.Join(dir, constants.DefaultDBName); cfg.Database.DSN != want {
		t.Errorf("Database.DSN = %q, want %q", cfg.Database.DSN, want)
	}
	if cfg.Jobs.DailySummary != constants.DefaultDailySummaryCron {
		t.Errorf("Jobs.DailySummary = %q", cfg.Jobs.DailySummary)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
timezone: America/Chicago
server:
  addr: ":8080"
  rate_limit_per_minute: 30
insights:
  pattern_days: 30
jobs:
  backup: ""
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SANCTUARY_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timezone != "America/Chicago" {
		t.Errorf("Timezone = %q, want file value", cfg.Timezone)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q, want env override", cfg.Server.Addr)
	}
	if cfg.Server.RateLimitPerMinute != 30 || cfg.Insights.PatternDays != 30 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Jobs.Backup != "" {
		t.Errorf("Jobs.Backup = %q, want disabled", cfg.Jobs.Backup)
	}
	if cfg.Server.BodyLimitKB != constants.DefaultBodyLimitKB {
		t.Errorf("BodyLimitKB = %d, want default", cfg.Server.BodyLimitKB)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("SANCTUARY_LOG_FORMAT=json\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SANCTUARY_LOG_FORMAT", "")
	os.Unsetenv("SANCTUARY_LOG_FORMAT")

	cfg, err := Load("", envFile, filepath.Join(dir, "absent.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json from .env", cfg.Log.Format)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad timezone", "timezone: Mars/Olympus\n", "timezone"},
		{"bad cron", "jobs:\n  daily_summary: \"every day\"\n", "cron"},
		{"pattern days", "insights:\n  pattern_days: 0\n", "pattern_days"},
		{"log format", "log:\n  format: xml\n", "log.format"},
		{"body limit", "server:\n  body_limit_kb: 0\n", "body_limit_kb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Timezone = "Europe/Berlin"
	cfg.Database.DSN = "postgres://sanctuary@localhost/sanctuary"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("permissions = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Timezone != "Europe/Berlin" || !loaded.IsPostgres() {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestIsPostgresDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"postgres://u@h/db", true},
		{"postgresql://u@h/db", true},
		{"host=localhost dbname=sanctuary", true},
		{"/home/me/.config/sanctuary/sanctuary.db", false},
		{"keyring", false},
	}
	for _, tt := range tests {
		if got := IsPostgresDSN(tt.dsn); got != tt.want {
			t.Errorf("IsPostgresDSN(%q) = %v, want %v", tt.dsn, got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/x/y.db"); got != filepath.Join(home, "x", "y.db") {
		t.Errorf("ExpandPath() = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath() changed an absolute path: %q", got)
	}
}
