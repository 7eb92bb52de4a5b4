package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.Server.Addr)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, ".", cfg.Storage.DataDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Backup.Enabled)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":4000"
static_dir = "web/dist"

[storage]
backend = "sqlite"
sqlite_path = "data/dash.db"

[log]
level = "debug"
format = "json"

[backup]
enabled = true
bucket = "dash-backups"
interval = "30m"
`)
	t.Setenv("DASHBOARD_ADDR", ":5000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, "web/dist", cfg.Server.StaticDir)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "data/dash.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, "dash-backups", cfg.Backup.Bucket)
	assert.Equal(t, 30*time.Minute, cfg.Backup.Interval)
	assert.Equal(t, "us-east-1", cfg.Backup.Region)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[server]\nport = 3001\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "postgres" }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"backup without bucket", func(c *Config) { c.Backup.Enabled = true }},
		{"backup without interval", func(c *Config) {
			c.Backup.Enabled = true
			c.Backup.Bucket = "b"
			c.Backup.Interval = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestEnvOverridesBackend(t *testing.T) {
	t.Setenv("DASHBOARD_STORAGE", "bogus")

	_, err := Load("")
	assert.Error(t, err)
}
