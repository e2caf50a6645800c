// Package config loads layered application configuration: built-in defaults,
// the YAML config file, a .env file and SANCTUARY_ environment variables.
// Command line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/utils"
)

// EnvPrefix is prepended to every environment override, e.g. SANCTUARY_SERVER_ADDR
const EnvPrefix = "SANCTUARY"

// KeyringDSN is the database.dsn value that defers to the OS keyring
const KeyringDSN = "keyring"

// Config represents the application configuration
type Config struct {
	DataDir  string         `yaml:"data_dir" mapstructure:"data_dir"`
	Timezone string         `yaml:"timezone" mapstructure:"timezone"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Insights InsightsConfig `yaml:"insights" mapstructure:"insights"`
	Jobs     JobsConfig     `yaml:"jobs" mapstructure:"jobs"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig selects the storage backend. DSN is a SQLite file path, a
// PostgreSQL URL or DSN without password, or "keyring".
type DatabaseConfig struct {
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

type ServerConfig struct {
	Addr               string `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins     string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute" mapstructure:"rate_limit_per_minute"` // 0 disables
	BodyLimitKB        int    `yaml:"body_limit_kb" mapstructure:"body_limit_kb"`
}

type InsightsConfig struct {
	PatternDays int `yaml:"pattern_days" mapstructure:"pattern_days"`
}

// JobsConfig holds cron expressions for background jobs. Empty disables a job.
type JobsConfig struct {
	DailySummary string `yaml:"daily_summary" mapstructure:"daily_summary"`
	Backup       string `yaml:"backup" mapstructure:"backup"`
}

type LogConfig struct {
	Debug  bool   `yaml:"debug" mapstructure:"debug"`
	Level  string `yaml:"level,omitempty" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "text" or "json"
	Stderr bool   `yaml:"stderr" mapstructure:"stderr"`
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(ExpandPath(constants.DefaultConfigDir), constants.ConfigFileName)
}

// Default returns the built-in configuration
func Default() *Config {
	dataDir := ExpandPath(constants.DefaultConfigDir)
	return &Config{
		DataDir:  dataDir,
		Timezone: constants.DefaultTimezone,
		Database: DatabaseConfig{DSN: filepath.Join(dataDir, constants.DefaultDBName)},
		Server: ServerConfig{
			Addr:               constants.DefaultServerAddr,
			AllowedOrigins:     constants.DefaultAllowedOrigin,
			RateLimitPerMinute: constants.DefaultRateLimit,
			BodyLimitKB:        constants.DefaultBodyLimitKB,
		},
		Insights: InsightsConfig{PatternDays: constants.DefaultPatternDays},
		Jobs: JobsConfig{
			DailySummary: constants.DefaultDailySummaryCron,
			Backup:       constants.DefaultBackupCron,
		},
		Log: LogConfig{Format: "text"},
	}
}

func setDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("database.dsn", "")
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.allowed_origins", def.Server.AllowedOrigins)
	v.SetDefault("server.rate_limit_per_minute", def.Server.RateLimitPerMinute)
	v.SetDefault("server.body_limit_kb", def.Server.BodyLimitKB)
	v.SetDefault("insights.pattern_days", def.Insights.PatternDays)
	v.SetDefault("jobs.daily_summary", def.Jobs.DailySummary)
	v.SetDefault("jobs.backup", def.Jobs.Backup)
	v.SetDefault("log.debug", def.Log.Debug)
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.stderr", def.Log.Stderr)
}

// Load reads the configuration at path. A missing file is not an error; the
// defaults and environment still apply. envFiles are loaded into the process
// environment first and never override variables that are already set.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		path = ExpandPath(path)
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.DataDir = ExpandPath(cfg.DataDir)
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = filepath.Join(cfg.DataDir, constants.DefaultDBName)
	}
	if !cfg.IsPostgres() && cfg.Database.DSN != KeyringDSN {
		cfg.Database.DSN = ExpandPath(cfg.Database.DSN)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles(files []string) error {
	for _, f := range files {
		f = ExpandPath(f)
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// Validate checks values that would otherwise fail late at startup
func (c *Config) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.Insights.PatternDays < 1 || c.Insights.PatternDays > constants.MaxPatternDays {
		return fmt.Errorf("insights.pattern_days must be between 1 and %d", constants.MaxPatternDays)
	}
	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("server.rate_limit_per_minute must not be negative")
	}
	if c.Server.BodyLimitKB < 1 {
		return fmt.Errorf("server.body_limit_kb must be at least 1")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	for name, expr := range map[string]string{
		"jobs.daily_summary": c.Jobs.DailySummary,
		"jobs.backup":        c.Jobs.Backup,
	} {
		if expr == "" {
			continue
		}
		if _, err := cron.ParseStandard(expr); err != nil {
			return fmt.Errorf("invalid cron expression for %s: %w", name, err)
		}
	}
	return nil
}

// IsPostgres reports whether the DSN points at PostgreSQL
func (c *Config) IsPostgres() bool {
	return IsPostgresDSN(c.Database.DSN)
}

// IsPostgresDSN reports whether dsn is a PostgreSQL URL or key=value DSN
func IsPostgresDSN(dsn string) bool {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return true
	}
	return strings.Contains(dsn, "host=") || strings.Contains(dsn, "dbname=")
}

// Save writes cfg as YAML with owner-only permissions
func Save(path string, cfg *Config) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
