package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jbweber/homelab/simpledms/internal/datastore"
	"github.com/jbweber/homelab/simpledms/internal/schema"
	_ "modernc.org/sqlite"
)

// CleanupTestDB removes the test database file
func CleanupTestDB(dsn string) error {
	// Extract file path from DSN
	if len(dsn) < 5 || dsn[:5] != "file:" {
		return fmt.Errorf("invalid DSN format")
	}

	if strings.Contains(dsn, "mode=memory") {
		return nil
	}

	path := dsn[5:]
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SetupTestDB creates and returns a test datastore without any tables
func SetupTestDB(t *testing.T, testName string) (*datastore.Datastore, func()) {
	t.Helper()
	dsn := NewTestDSN(testName)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Keep one connection open so the shared in-memory database survives idle pool churn
	db.SetMaxIdleConns(1)
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	cleanup := func() {
		db.Close()
		CleanupTestDB(dsn)
	}

	return datastore.New(db, datastore.SQLite), cleanup
}

// SetupTestDBWithSchema creates a test datastore with every application table in place
func SetupTestDBWithSchema(t *testing.T, testName string) (*datastore.Datastore, func()) {
	t.Helper()
	ds, cleanup := SetupTestDB(t, testName)

	if err := schema.Apply(context.Background(), ds); err != nil {
		cleanup()
		t.Fatalf("Failed to apply schema: %v", err)
	}

	return ds, cleanup
}
