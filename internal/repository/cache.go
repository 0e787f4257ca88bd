package repository

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// PreparedStatementCache holds one prepared statement per SQL text.
// Statements outlive the context used to prepare them.
type PreparedStatementCache struct {
	db *sql.DB

	mu    sync.RWMutex
	stmts map[string]*sql.Stmt
}

// NewPreparedStatementCache creates an empty cache over db
func NewPreparedStatementCache(db *sql.DB) *PreparedStatementCache {
	return &PreparedStatementCache{db: db, stmts: make(map[string]*sql.Stmt)}
}

// Get returns the cached statement for query, preparing it on first use
func (c *PreparedStatementCache) Get(ctx context.Context, query string) (*sql.Stmt, error) {
	c.mu.RLock()
	stmt, ok := c.stmts[query]
	c.mu.RUnlock()
	if ok {
		return stmt, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have prepared it meanwhile
	if stmt, ok := c.stmts[query]; ok {
		return stmt, nil
	}

	stmt, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	c.stmts[query] = stmt
	return stmt, nil
}

// Clear evicts and closes the statement for query, if cached
func (c *PreparedStatementCache) Clear(query string) error {
	c.mu.Lock()
	stmt, ok := c.stmts[query]
	delete(c.stmts, query)
	c.mu.Unlock()

	if !ok {
		return nil
	}
	return stmt.Close()
}

// Close closes every cached statement and empties the cache
func (c *PreparedStatementCache) Close() error {
	c.mu.Lock()
	stmts := c.stmts
	c.stmts = make(map[string]*sql.Stmt)
	c.mu.Unlock()

	var errs []error
	for _, stmt := range stmts {
		errs = append(errs, stmt.Close())
	}
	return errors.Join(errs...)
}

// Size returns the number of cached statements
func (c *PreparedStatementCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stmts)
}
