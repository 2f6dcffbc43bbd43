// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Target        TargetConfig        `yaml:"target"`
	Monitor       MonitorConfig       `yaml:"monitor"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the health/metrics HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// TargetConfig defines stock API settings.
type TargetConfig struct {
	StockURL     string          `yaml:"stock_url"`
	Timeout      time.Duration   `yaml:"timeout"`
	MaxRetries   int             `yaml:"max_retries"`
	CacheBusting bool            `yaml:"cache_busting"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines stock API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// MonitorConfig defines what to watch and how often.
type MonitorConfig struct {
	SKUs           []string      `yaml:"skus"`
	ZipCodes       []string      `yaml:"zip_codes"`
	Interval       time.Duration `yaml:"interval"`
	InitialReports bool          `yaml:"initial_reports"`
}

// Pairs returns every SKU/ZIP combination in configured order.
func (m *MonitorConfig) Pairs() [][2]string {
	pairs := make([][2]string, 0, len(m.SKUs)*len(m.ZipCodes))
	for _, sku := range m.SKUs {
		for _, zip := range m.ZipCodes {
			pairs = append(pairs, [2]string{sku, zip})
		}
	}
	return pairs
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
	Username   string `yaml:"username"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyTargetDefaults(&cfg.Target)
	applyMonitorDefaults(&cfg.Monitor)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyTargetDefaults(t *TargetConfig) {
	if t.StockURL == "" {
		t.StockURL = "https://api.snormax.com/stock/target"
	}
	if t.Timeout == 0 {
		t.Timeout = 30 * time.Second
	}
	if t.MaxRetries == 0 {
		t.MaxRetries = 3
	}
	applyRateLimitDefaults(&t.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 1.0
	}
	if r.Burst == 0 {
		r.Burst = 1
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 40000
	}
}

func applyMonitorDefaults(m *MonitorConfig) {
	if m.Interval == 0 {
		m.Interval = 2 * time.Minute
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	if len(cfg.Monitor.SKUs) == 0 {
		errs = append(errs, fmt.Errorf("monitor.skus must list at least one SKU"))
	}
	if len(cfg.Monitor.ZipCodes) == 0 {
		errs = append(errs, fmt.Errorf("monitor.zip_codes must list at least one ZIP code"))
	}

	if cfg.Notifications.Discord.Enabled {
		url := cfg.Notifications.Discord.WebhookURL
		if url == "" || strings.Contains(url, "YOUR_WEBHOOK_URL") {
			errs = append(
				errs,
				fmt.Errorf("notifications.discord.webhook_url is required when discord is enabled"),
			)
		}
	}

	return errors.Join(errs...)
}
