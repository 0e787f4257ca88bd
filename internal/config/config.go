package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/jbweber/homelab/simpledms/internal/datastore"
	"github.com/jbweber/homelab/simpledms/internal/logging"
	"github.com/jbweber/homelab/simpledms/internal/schema"
)

// EnvPrefix prefixes every environment variable override, e.g. SIMPLEDMS_SERVER_PORT
const EnvPrefix = "SIMPLEDMS"

// Config holds all configuration for the simpledms service
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port              string        `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // sqlite or postgres
	DSN          string `mapstructure:"dsn"`    // File path for sqlite, connection string for postgres
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // Empty disables the JSON log file
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              "8080",
			ReadHeaderTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       datastore.DriverSQLite,
			DSN:          "~/simpledms/data/simpledms.db",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "simpledms.log",
		},
	}
}

// SetDefaults registers the NewConfig values as viper defaults
func SetDefaults(v *viper.Viper) {
	d := NewConfig()
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_header_timeout", d.Server.ReadHeaderTimeout)
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.max_open_conns", d.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", d.Database.MaxIdleConns)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
}

// Load resolves configuration from defaults, the optional file at path,
// SIMPLEDMS_* environment variables and any flags already bound to v.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that cannot be defaulted
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if _, err := datastore.ParseDialect(c.Database.Driver); err != nil {
		return fmt.Errorf("database.driver: %w", err)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return net.JoinHostPort("", c.Server.Port)
}

// InitializeDatabase opens the configured store, tunes the connection pool
// and creates any missing tables.
func (c *Config) InitializeDatabase(ctx context.Context) (*datastore.Datastore, error) {
	dialect, err := datastore.ParseDialect(c.Database.Driver)
	if err != nil {
		return nil, err
	}

	dsn := c.Database.DSN
	if dialect == datastore.SQLite {
		dsn = c.expandPath(dsn)
		if isFilePath(dsn) {
			// Ensure database directory exists
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	ds, err := datastore.Open(ctx, c.Database.Driver, dsn)
	if err != nil {
		return nil, err
	}

	OptimizeDatabaseConnection(ds.DB, c.Database.MaxOpenConns, c.Database.MaxIdleConns)

	if dialect == datastore.SQLite {
		if err := ApplyPragmaOptimizations(ctx, ds.DB); err != nil {
			ds.Close()
			return nil, fmt.Errorf("failed to apply performance optimizations: %w", err)
		}
	}

	if err := schema.Apply(ctx, ds); err != nil {
		ds.Close()
		return nil, err
	}

	return ds, nil
}

// expandPath expands ~ to home directory
func (c *Config) expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Return original path if we can't get home dir
		return path
	}

	return filepath.Join(homeDir, path[2:])
}

// isFilePath reports whether a sqlite DSN names a plain file rather than a URI or memory database
func isFilePath(dsn string) bool {
	return dsn != ":memory:" && !strings.HasPrefix(dsn, "file:")
}
