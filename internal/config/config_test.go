package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the variables Load reads so the host environment cannot
// leak into assertions.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "SERVER_ADDR", "SESSION_SECRET", "TRUSTED_USER_HEADER", "CORS_ORIGINS",
		"DATABASE_DRIVER", "DATABASE_URL", "DATABASE_MAX_OPEN_CONNS", "DATABASE_MAX_IDLE_CONNS",
		"SCHEDULER_ENABLED", "SCHEDULER_INTERVAL", "RANKING_TIMEZONE", "RANKING_DEFAULT_LIMIT",
		"RANKING_MAX_LIMIT", "NOTIFICATION_QUEUE_SIZE", "LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60*time.Second, cfg.Scheduler.Interval)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_TOMLOverlay(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
addr = ":9090"
cors_origins = ["https://debate.example"]

[scheduler]
interval = "15s"

[ranking]
timezone = "Asia/Seoul"
default_limit = 20
max_limit = 40
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"https://debate.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.Scheduler.Interval)
	assert.Equal(t, 20, cfg.Ranking.DefaultLimit)
	assert.Equal(t, "Asia/Seoul", cfg.Location().String())
	// Untouched keys keep their defaults.
	assert.Equal(t, 1000, cfg.Notification.QueueSize)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
}

func TestLoad_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\naddr="), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":                "7000",
		"DATABASE_DRIVER":     "memory",
		"SCHEDULER_INTERVAL":  "5s",
		"SCHEDULER_ENABLED":   "false",
		"CORS_ORIGINS":        "https://a.example, https://b.example ,",
		"TRUSTED_USER_HEADER": "X-User-ID",
		"RANKING_MAX_LIMIT":   "25",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	require.NoError(t, applyEnv(cfg, lookup))
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Scheduler.Interval)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "X-User-ID", cfg.Server.TrustedHeader)
	assert.Equal(t, 25, cfg.Ranking.MaxLimit)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnv_Malformed(t *testing.T) {
	env := map[string]string{"SCHEDULER_INTERVAL": "soon", "RANKING_MAX_LIMIT": "many"}
	cfg := DefaultConfig()
	err := applyEnv(cfg, func(k string) (string, bool) { v, ok := env[k]; return v, ok })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCHEDULER_INTERVAL")
	assert.Contains(t, err.Error(), "RANKING_MAX_LIMIT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero interval", func(c *Config) { c.Scheduler.Interval = 0 }},
		{"negative limit", func(c *Config) { c.Ranking.MaxLimit = -1 }},
		{"default above max", func(c *Config) { c.Ranking.DefaultLimit = 500 }},
		{"unknown timezone", func(c *Config) { c.Ranking.Timezone = "Mars/Olympus" }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }},
		{"empty queue", func(c *Config) { c.Notification.QueueSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
