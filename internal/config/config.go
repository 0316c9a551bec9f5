// Package config loads server settings from defaults, an optional TOML file
// and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // ranking timezones resolve without system zoneinfo

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Scheduler    SchedulerConfig    `toml:"scheduler"`
	Ranking      RankingConfig      `toml:"ranking"`
	Notification NotificationConfig `toml:"notification"`
	Log          LogConfig          `toml:"log"`
}

type ServerConfig struct {
	Addr          string   `toml:"addr"`
	SessionSecret string   `toml:"session_secret"`
	CORSOrigins   []string `toml:"cors_origins"`
	// TrustedHeader carries a user id set by an upstream identity proxy.
	// Empty disables it.
	TrustedHeader   string        `toml:"trusted_header"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `toml:"driver"` // postgres or memory
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	SeedCategories  bool          `toml:"seed_categories"`
}

type SchedulerConfig struct {
	Enabled  bool          `toml:"enabled"`
	Interval time.Duration `toml:"interval"`
}

type RankingConfig struct {
	Timezone     string `toml:"timezone"`
	DefaultLimit int    `toml:"default_limit"`
	MaxLimit     int    `toml:"max_limit"`
}

type NotificationConfig struct {
	QueueSize int `toml:"queue_size"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			SessionSecret:   "secret_key_change_me",
			CORSOrigins:     []string{"http://localhost:3000"},
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			DSN:             "host=localhost user=postgres password=postgres dbname=debatehub port=5432 sslmode=disable TimeZone=UTC",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			SeedCategories:  true,
		},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			Interval: 60 * time.Second,
		},
		Ranking: RankingConfig{
			Timezone:     "UTC",
			DefaultLimit: 10,
			MaxLimit:     100,
		},
		Notification: NotificationConfig{
			QueueSize: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration. A missing file at path is not an error;
// variables from a .env file in the working directory are honoured.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	_ = godotenv.Load()
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	if port, ok := lookup("PORT"); ok && port != "" {
		cfg.Server.Addr = ":" + port
	}
	str("SERVER_ADDR", &cfg.Server.Addr)
	str("SESSION_SECRET", &cfg.Server.SessionSecret)
	str("TRUSTED_USER_HEADER", &cfg.Server.TrustedHeader)
	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	str("DATABASE_DRIVER", &cfg.Database.Driver)
	str("DATABASE_URL", &cfg.Database.DSN)
	num("DATABASE_MAX_OPEN_CONNS", &cfg.Database.MaxOpenConns)
	num("DATABASE_MAX_IDLE_CONNS", &cfg.Database.MaxIdleConns)

	flag("SCHEDULER_ENABLED", &cfg.Scheduler.Enabled)
	dur("SCHEDULER_INTERVAL", &cfg.Scheduler.Interval)

	str("RANKING_TIMEZONE", &cfg.Ranking.Timezone)
	num("RANKING_DEFAULT_LIMIT", &cfg.Ranking.DefaultLimit)
	num("RANKING_MAX_LIMIT", &cfg.Ranking.MaxLimit)

	num("NOTIFICATION_QUEUE_SIZE", &cfg.Notification.QueueSize)

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FILE", &cfg.Log.File)

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	var errs []error
	if c.Database.Driver != DriverPostgres && c.Database.Driver != DriverMemory {
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q", DriverPostgres, DriverMemory))
	}
	if c.Database.Driver == DriverPostgres && c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.Scheduler.Interval <= 0 {
		errs = append(errs, errors.New("scheduler.interval must be positive"))
	}
	if c.Ranking.DefaultLimit <= 0 || c.Ranking.MaxLimit <= 0 {
		errs = append(errs, errors.New("ranking limits must be positive"))
	} else if c.Ranking.DefaultLimit > c.Ranking.MaxLimit {
		errs = append(errs, errors.New("ranking.default_limit exceeds ranking.max_limit"))
	}
	if _, err := time.LoadLocation(c.Ranking.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("ranking.timezone: %w", err))
	}
	if c.Notification.QueueSize <= 0 {
		errs = append(errs, errors.New("notification.queue_size must be positive"))
	}
	if c.Server.SessionSecret == "" {
		errs = append(errs, errors.New("server.session_secret is required"))
	}
	return errors.Join(errs...)
}

// Location returns the ranking timezone. Call after Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Ranking.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
