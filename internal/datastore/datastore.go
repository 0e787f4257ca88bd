package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect captures the SQL differences between the supported stores
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// Supported driver names
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Placeholder returns the bind parameter marker for the n-th (1-based) argument
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// IdentityColumn returns the column definition for a store-generated integer primary key
func (d Dialect) IdentityColumn(name string) string {
	if d == Postgres {
		return name + " BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
	}
	return name + " INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (d Dialect) String() string {
	if d == Postgres {
		return DriverPostgres
	}
	return DriverSQLite
}

// ParseDialect maps a configured driver name to its dialect
func ParseDialect(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite, "":
		return SQLite, nil
	case DriverPostgres, "pgx":
		return Postgres, nil
	default:
		return SQLite, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// sqlDriver returns the database/sql driver name registered for the dialect
func (d Dialect) sqlDriver() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// Datastore bundles the shared database handle with the dialect used to talk to it
type Datastore struct {
	DB      *sql.DB
	Dialect Dialect
}

// New wraps an already opened database handle
func New(db *sql.DB, dialect Dialect) *Datastore {
	return &Datastore{DB: db, Dialect: dialect}
}

// Open opens and pings a database for the given driver name and DSN.
func Open(ctx context.Context, driver, dsn string) (*Datastore, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.sqlDriver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}

	return New(db, dialect), nil
}

// Close closes the underlying database handle
func (ds *Datastore) Close() error {
	return ds.DB.Close()
}
