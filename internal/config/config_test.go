package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestNewConfig(t *testing.T) {
	config := NewConfig()

	if config == nil {
		t.Fatal("Expected non-nil config")
	}

	if config.Database.DSN != "~/simpledms/data/simpledms.db" {
		t.Errorf("Expected DSN '~/simpledms/data/simpledms.db', got '%s'", config.Database.DSN)
	}

	if config.Server.Port != "8080" {
		t.Errorf("Expected Port '8080', got '%s'", config.Server.Port)
	}

	if config.Database.Driver != "sqlite" {
		t.Errorf("Expected driver 'sqlite', got '%s'", config.Database.Driver)
	}
}

func TestLoad_Defaults(t *testing.T) {
	config, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if config.Server.Port != "8080" {
		t.Errorf("Expected Port '8080', got '%s'", config.Server.Port)
	}
	if config.Server.ReadHeaderTimeout != 5*time.Second {
		t.Errorf("Expected read header timeout 5s, got %s", config.Server.ReadHeaderTimeout)
	}
	if config.Logging.Level != "info" {
		t.Errorf("Expected level 'info', got '%s'", config.Logging.Level)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simpledms.toml")
	content := `
[server]
port = "9090"
read_header_timeout = "2s"

[database]
driver = "postgres"
dsn = "postgres://dms@localhost/dms"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if config.Server.Port != "9090" {
		t.Errorf("Expected Port '9090', got '%s'", config.Server.Port)
	}
	if config.Server.ReadHeaderTimeout != 2*time.Second {
		t.Errorf("Expected read header timeout 2s, got %s", config.Server.ReadHeaderTimeout)
	}
	if config.Database.Driver != "postgres" {
		t.Errorf("Expected driver 'postgres', got '%s'", config.Database.Driver)
	}
	if config.Database.MaxOpenConns != 10 {
		t.Errorf("Expected default max open conns 10, got %d", config.Database.MaxOpenConns)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected level 'debug', got '%s'", config.Logging.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Expected config file error, got %v", err)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SIMPLEDMS_SERVER_PORT", "7070")
	t.Setenv("SIMPLEDMS_DATABASE_MAX_IDLE_CONNS", "2")

	config, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if config.Server.Port != "7070" {
		t.Errorf("Expected Port '7070', got '%s'", config.Server.Port)
	}
	if config.Database.MaxIdleConns != 2 {
		t.Errorf("Expected max idle conns 2, got %d", config.Database.MaxIdleConns)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{key: "database.driver", value: "oracle", want: "database.driver"},
		{key: "database.dsn", value: "", want: "database.dsn is required"},
		{key: "server.port", value: "", want: "server.port is required"},
		{key: "logging.level", value: "loud", want: "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)

			_, err := Load(v, "")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestConfig_Addr(t *testing.T) {
	config := NewConfig()
	if config.Addr() != ":8080" {
		t.Errorf("Expected ':8080', got '%s'", config.Addr())
	}
}

func TestConfig_expandPath_WithTilde(t *testing.T) {
	config := NewConfig()

	path := "~/test/path"
	expanded := config.expandPath(path)

	if strings.HasPrefix(expanded, "~/") {
		t.Errorf("Expected path to be expanded, got '%s'", expanded)
	}

	if !strings.HasSuffix(expanded, "test/path") {
		t.Errorf("Expected expanded path to end with 'test/path', got '%s'", expanded)
	}
}

func TestConfig_expandPath_WithoutTilde(t *testing.T) {
	config := NewConfig()

	for _, path := range []string{"/absolute/path", "relative/path"} {
		if expanded := config.expandPath(path); expanded != path {
			t.Errorf("Expected path to remain unchanged, got '%s'", expanded)
		}
	}
}

func TestConfig_InitializeDatabase_Success(t *testing.T) {
	config := NewConfig()
	config.Database.DSN = filepath.Join(t.TempDir(), "test.db")

	ds, err := config.InitializeDatabase(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer ds.Close()

	// Verify the schema was applied
	var count int
	err = ds.DB.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name LIKE 'tb_%'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to inspect schema: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 tables, got %d", count)
	}

	var journalMode string
	if err := ds.DB.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("Failed to read journal mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("Expected journal mode 'wal', got '%s'", journalMode)
	}
}

func TestConfig_InitializeDatabase_DirectoryCreation(t *testing.T) {
	config := NewConfig()

	// Set path to a nested directory that doesn't exist
	config.Database.DSN = filepath.Join(t.TempDir(), "nested", "path", "test.db")

	ds, err := config.InitializeDatabase(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer ds.Close()

	// Verify the nested directory was created
	dbDir := filepath.Dir(config.Database.DSN)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		t.Errorf("Expected directory to be created: %s", dbDir)
	}
}

func TestConfig_InitializeDatabase_InvalidPath(t *testing.T) {
	config := NewConfig()

	// A regular file cannot act as the parent directory
	parent := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(parent, nil, 0600); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	config.Database.DSN = filepath.Join(parent, "simpledms.db")

	ds, err := config.InitializeDatabase(context.Background())
	if err == nil {
		ds.Close()
		t.Fatal("Expected error for invalid path")
	}

	if !strings.Contains(err.Error(), "failed to create database directory") {
		t.Errorf("Expected directory creation error, got: %v", err)
	}
}

func TestConfig_InitializeDatabase_UnsupportedDriver(t *testing.T) {
	config := NewConfig()
	config.Database.Driver = "mssql"

	if _, err := config.InitializeDatabase(context.Background()); err == nil {
		t.Fatal("Expected error for unsupported driver")
	}
}

func TestIsFilePath(t *testing.T) {
	if !isFilePath("/var/lib/simpledms.db") {
		t.Error("Expected plain path to be a file path")
	}
	if isFilePath("file:test?mode=memory") || isFilePath(":memory:") {
		t.Error("Expected URI and memory DSNs not to be file paths")
	}
}
