package config

import (
	"context"
	"database/sql"
	"time"
)

// OptimizeDatabaseConnection applies connection pool limits
func OptimizeDatabaseConnection(db *sql.DB, maxOpen, maxIdle int) {
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(5 * time.Minute) // Recycle connections periodically
	db.SetConnMaxIdleTime(1 * time.Minute) // Close idle connections after 1 minute
}

// ApplyPragmaOptimizations applies SQLite-specific performance pragmas
func ApplyPragmaOptimizations(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",    // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous = NORMAL",  // Balance between safety and performance
		"PRAGMA busy_timeout = 5000",   // Wait for competing writers instead of failing
		"PRAGMA cache_size = 10000",    // Increase cache size (10MB)
		"PRAGMA temp_store = MEMORY",   // Store temporary tables in memory
		"PRAGMA mmap_size = 268435456", // 256MB memory mapping
		"PRAGMA optimize",              // Enable query optimizer
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return err
		}
	}

	return nil
}
