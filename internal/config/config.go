// Package config loads the dashboard server settings.
//
// Values come from built-in defaults, then an optional TOML file, then
// DASHBOARD_* environment variables. Command-line flags are applied by main.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"dashboard/internal/util"
)

// Config represents the dashboard.toml configuration file.
type Config struct {
	Server  Server  `toml:"server"`
	Storage Storage `toml:"storage"`
	Log     Log     `toml:"log"`
	Backup  Backup  `toml:"backup"`
}

// Server holds HTTP listener settings.
type Server struct {
	Addr string `toml:"addr" validate:"required"`
	// StaticDir points at the built single-page client. Empty means API only.
	StaticDir string `toml:"static_dir"`
}

// Storage selects and locates the persistence backend.
type Storage struct {
	Backend    string `toml:"backend" validate:"oneof=file sqlite"`
	DataDir    string `toml:"data_dir" validate:"required"`
	SQLitePath string `toml:"sqlite_path" validate:"required_if=Backend sqlite"`
}

// Log holds logger settings.
type Log struct {
	Level  string `toml:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `toml:"format" validate:"oneof=text json"`
}

// Backup configures periodic upload of the data files to an S3 compatible bucket.
type Backup struct {
	Enabled         bool          `toml:"enabled"`
	Endpoint        string        `toml:"endpoint"`
	Region          string        `toml:"region" validate:"required_if=Enabled true"`
	Bucket          string        `toml:"bucket" validate:"required_if=Enabled true"`
	AccessKeyID     string        `toml:"access_key_id"`
	SecretAccessKey string        `toml:"secret_access_key"`
	UseSSL          bool          `toml:"use_ssl"`
	Interval        time.Duration `toml:"interval"`
	Prefix          string        `toml:"prefix"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Server: Server{Addr: ":3001"},
		Storage: Storage{
			Backend:    "file",
			DataDir:    ".",
			SQLitePath: "dashboard.db",
		},
		Log: Log{Level: "info", Format: "text"},
		Backup: Backup{
			Region:   "us-east-1",
			Interval: time.Hour,
			Prefix:   "dashboard",
		},
	}
}

// Load reads the TOML file at path (skipped when path is empty), applies the
// environment and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = util.EnvOrDefault("DASHBOARD_ADDR", cfg.Server.Addr)
	cfg.Server.StaticDir = util.EnvOrDefault("DASHBOARD_STATIC_DIR", cfg.Server.StaticDir)

	cfg.Storage.Backend = util.EnvOrDefault("DASHBOARD_STORAGE", cfg.Storage.Backend)
	cfg.Storage.DataDir = util.EnvOrDefault("DASHBOARD_DATA_DIR", cfg.Storage.DataDir)
	cfg.Storage.SQLitePath = util.EnvOrDefault("DASHBOARD_SQLITE_PATH", cfg.Storage.SQLitePath)

	cfg.Log.Level = util.EnvOrDefault("DASHBOARD_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = util.EnvOrDefault("DASHBOARD_LOG_FORMAT", cfg.Log.Format)

	cfg.Backup.Enabled = util.EnvBool("DASHBOARD_BACKUP_ENABLED", cfg.Backup.Enabled)
	cfg.Backup.Endpoint = util.EnvOrDefault("DASHBOARD_BACKUP_ENDPOINT", cfg.Backup.Endpoint)
	cfg.Backup.Region = util.EnvOrDefault("DASHBOARD_BACKUP_REGION", cfg.Backup.Region)
	cfg.Backup.Bucket = util.EnvOrDefault("DASHBOARD_BACKUP_BUCKET", cfg.Backup.Bucket)
	cfg.Backup.AccessKeyID = util.EnvOrDefault("DASHBOARD_BACKUP_ACCESS_KEY_ID", cfg.Backup.AccessKeyID)
	cfg.Backup.SecretAccessKey = util.EnvOrDefault("DASHBOARD_BACKUP_SECRET_ACCESS_KEY", cfg.Backup.SecretAccessKey)
	cfg.Backup.UseSSL = util.EnvBool("DASHBOARD_BACKUP_USE_SSL", cfg.Backup.UseSSL)
	cfg.Backup.Interval = util.EnvDuration("DASHBOARD_BACKUP_INTERVAL", cfg.Backup.Interval)
	cfg.Backup.Prefix = util.EnvOrDefault("DASHBOARD_BACKUP_PREFIX", cfg.Backup.Prefix)
}

var validate = validator.New()

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Backup.Enabled && c.Backup.Interval <= 0 {
		return fmt.Errorf("invalid config: backup interval must be positive")
	}
	return nil
}
