package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jbweber/homelab/simpledms/internal/datastore"
	"github.com/jbweber/homelab/simpledms/internal/domain"
)

// liveClause is composed into every scoped read of a soft-delete table
const liveClause = "delete_yn = '" + domain.Live + "'"

// Table describes how an entity kind is laid out in the store
type Table[T any] struct {
	Entity       string   // Name used in error messages
	Name         string   // Table name
	IDColumn     string   // Store-generated integer primary key
	SearchColumn string   // Column matched by FindAllContaining
	Columns      []string // Data columns, aligned with Fields
	SoftDelete   bool     // Whether deletes set delete_yn/delete_time instead of removing rows

	ID     func(*T) *int64
	Fields func(*T) []any // Pointers to the nullable data fields, each a **string
	Audit  func(*T) *domain.Audit
	Flags  func(*T) *domain.SoftDelete // Required when SoftDelete is set
}

// SQLRepository implements PagingRepository for any entity kind described by a Table.
// Reads of soft-delete tables only see live rows unless the repository is unscoped.
type SQLRepository[T any] struct {
	ds       *datastore.Datastore
	table    Table[T]
	stmts    *PreparedStatementCache
	now      func() time.Time
	unscoped bool
}

// NewSQLRepository creates a repository for the given table layout
func NewSQLRepository[T any](ds *datastore.Datastore, table Table[T]) *SQLRepository[T] {
	return &SQLRepository[T]{
		ds:    ds,
		table: table,
		stmts: NewPreparedStatementCache(ds.DB),
		now:   time.Now,
	}
}

// binder collects bind arguments and hands out dialect placeholders for them
type binder struct {
	dialect datastore.Dialect
	args    []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

func (b *binder) clone() *binder {
	return &binder{dialect: b.dialect, args: append([]any(nil), b.args...)}
}

func (r *SQLRepository[T]) newBinder() *binder {
	return &binder{dialect: r.ds.Dialect}
}

// where joins conds, prefixed by the live-row predicate when the read is scoped
func (r *SQLRepository[T]) where(conds ...string) string {
	if r.table.SoftDelete && !r.unscoped {
		conds = append([]string{liveClause}, conds...)
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func (r *SQLRepository[T]) selectList() string {
	cols := make([]string, 0, len(r.table.Columns)+5)
	cols = append(cols, r.table.IDColumn)
	cols = append(cols, r.table.Columns...)
	cols = append(cols, "COALESCE(created_at, '')", "COALESCE(updated_at, '')")
	if r.table.SoftDelete {
		cols = append(cols, "delete_yn", "delete_time")
	}
	return strings.Join(cols, ", ")
}

func (r *SQLRepository[T]) scanTargets(e *T) []any {
	targets := []any{r.table.ID(e)}
	targets = append(targets, r.table.Fields(e)...)
	audit := r.table.Audit(e)
	targets = append(targets, &audit.CreatedAt, &audit.UpdatedAt)
	if r.table.SoftDelete {
		flags := r.table.Flags(e)
		targets = append(targets, &flags.DeleteYn, &flags.DeleteTime)
	}
	return targets
}

// present returns the columns and values of the non-nil data fields of e
func (r *SQLRepository[T]) present(e *T) ([]string, []any) {
	var cols []string
	var vals []any
	for i, field := range r.table.Fields(e) {
		if v, ok := fieldValue(field); ok {
			cols = append(cols, r.table.Columns[i])
			vals = append(vals, v)
		}
	}
	return cols, vals
}

// fieldValue dereferences a nullable field pointer, reporting false for a nil field
func fieldValue(field any) (any, bool) {
	if f, ok := field.(**string); ok && *f != nil {
		return **f, true
	}
	return nil, false
}

func (r *SQLRepository[T]) timestamp() string {
	return domain.FormatTime(r.now())
}

func (r *SQLRepository[T]) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	stmt, err := r.stmts.Get(ctx, query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		r.evict(query)
		return nil, err
	}
	return rows, nil
}

// scanOne runs a single-row query and scans it into dest
func (r *SQLRepository[T]) scanOne(ctx context.Context, query string, args []any, dest ...any) error {
	stmt, err := r.stmts.Get(ctx, query)
	if err != nil {
		return err
	}
	return stmt.QueryRowContext(ctx, args...).Scan(dest...)
}

func (r *SQLRepository[T]) exec(ctx context.Context, query string, args ...any) (int64, error) {
	stmt, err := r.stmts.Get(ctx, query)
	if err != nil {
		return 0, err
	}
	res, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		r.evict(query)
		return 0, err
	}
	return res.RowsAffected()
}

// evict drops a statement whose execution failed so the next call prepares it afresh
func (r *SQLRepository[T]) evict(query string) {
	_ = r.stmts.Clear(query)
}

func (r *SQLRepository[T]) collect(rows *sql.Rows) ([]T, error) {
	defer rows.Close()

	var entities []T
	for rows.Next() {
		var e T
		if err := rows.Scan(r.scanTargets(&e)...); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", r.table.Entity, err)
		}
		entities = append(entities, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", r.table.Entity, err)
	}

	return entities, nil
}

// Save inserts the entity when its ID is unset or does not match a live row,
// and otherwise updates the live row. Only non-nil data fields are written.
func (r *SQLRepository[T]) Save(ctx context.Context, entity T) (T, error) {
	if id := *r.table.ID(&entity); id != 0 {
		updated, err := r.update(ctx, &entity, id)
		if err != nil {
			var zero T
			return zero, err
		}
		if updated {
			return r.reload(ctx, id)
		}
	}

	id, err := r.insert(ctx, &entity)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.reload(ctx, id)
}

func (r *SQLRepository[T]) insert(ctx context.Context, e *T) (int64, error) {
	cols, vals := r.present(e)
	now := r.timestamp()
	cols = append(cols, "created_at", "updated_at")
	vals = append(vals, now, now)

	b := r.newBinder()
	placeholders := make([]string, len(vals))
	for i, v := range vals {
		placeholders[i] = b.bind(v)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.table.Name, strings.Join(cols, ", "), strings.Join(placeholders, ", "), r.table.IDColumn)

	var id int64
	if err := r.scanOne(ctx, query, b.args, &id); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", r.table.Entity, err)
	}
	return id, nil
}

// update writes the non-nil fields of e to the live row id, reporting whether a row matched
func (r *SQLRepository[T]) update(ctx context.Context, e *T, id int64) (bool, error) {
	cols, vals := r.present(e)
	cols = append(cols, "updated_at")
	vals = append(vals, r.timestamp())

	b := r.newBinder()
	assignments := make([]string, len(cols))
	for i, col := range cols {
		assignments[i] = col + " = " + b.bind(vals[i])
	}

	conds := []string{r.table.IDColumn + " = " + b.bind(id)}
	if r.table.SoftDelete {
		conds = append(conds, liveClause)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		r.table.Name, strings.Join(assignments, ", "), strings.Join(conds, " AND "))

	affected, err := r.exec(ctx, query, b.args...)
	if err != nil {
		return false, fmt.Errorf("failed to update %s: %w", r.table.Entity, err)
	}
	return affected > 0, nil
}

// reload re-reads a row that was just written
func (r *SQLRepository[T]) reload(ctx context.Context, id int64) (T, error) {
	saved, err := r.FindByID(ctx, id)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to retrieve saved %s: %w", r.table.Entity, err)
	}
	return saved, nil
}

// FindByID retrieves a live entity by its ID
func (r *SQLRepository[T]) FindByID(ctx context.Context, id int64) (T, error) {
	var e T
	b := r.newBinder()
	query := "SELECT " + r.selectList() + " FROM " + r.table.Name + r.where(r.table.IDColumn+" = "+b.bind(id))

	if err := r.scanOne(ctx, query, b.args, r.scanTargets(&e)...); err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, fmt.Errorf("%s with ID %d: %w", r.table.Entity, id, ErrNotFound)
		}
		return zero, fmt.Errorf("failed to find %s: %w", r.table.Entity, err)
	}
	return e, nil
}

// FindAll retrieves all live entities ordered by ID
func (r *SQLRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	query := "SELECT " + r.selectList() + " FROM " + r.table.Name + r.where() + " ORDER BY " + r.table.IDColumn

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.table.Entity, err)
	}
	return r.collect(rows)
}

// FindAllContaining returns one page of live entities whose search column contains q
func (r *SQLRepository[T]) FindAllContaining(ctx context.Context, q string, pageable Pageable) (Page[T], error) {
	if err := pageable.Validate(); err != nil {
		return Page[T]{}, err
	}

	b := r.newBinder()
	var conds []string
	if q != "" {
		conds = append(conds, r.table.SearchColumn+" LIKE "+b.bind("%"+escapeLike(q)+"%")+` ESCAPE '\'`)
	}
	where := r.where(conds...)

	var total int64
	countQuery := "SELECT COUNT(*) FROM " + r.table.Name + where
	if err := r.scanOne(ctx, countQuery, b.args, &total); err != nil {
		return Page[T]{}, fmt.Errorf("failed to count %s: %w", r.table.Entity, err)
	}

	if total == 0 || pageable.Offset() >= total {
		return NewPage[T](nil, pageable, total), nil
	}

	sb := b.clone()
	query := "SELECT " + r.selectList() + " FROM " + r.table.Name + where +
		" ORDER BY " + r.table.IDColumn +
		" LIMIT " + sb.bind(pageable.Size) + " OFFSET " + sb.bind(pageable.Offset())

	rows, err := r.query(ctx, query, sb.args...)
	if err != nil {
		return Page[T]{}, fmt.Errorf("failed to search %s: %w", r.table.Entity, err)
	}

	content, err := r.collect(rows)
	if err != nil {
		return Page[T]{}, err
	}
	return NewPage(content, pageable, total), nil
}

// escapeLike makes LIKE wildcards in s match literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// DeleteByID soft-deletes (or, for hard-delete tables, removes) a live entity
func (r *SQLRepository[T]) DeleteByID(ctx context.Context, id int64) error {
	b := r.newBinder()
	var query string
	if r.table.SoftDelete {
		query = "UPDATE " + r.table.Name +
			" SET delete_yn = '" + domain.Deleted + "', delete_time = " + b.bind(r.timestamp()) +
			" WHERE " + r.table.IDColumn + " = " + b.bind(id) + " AND " + liveClause
	} else {
		query = "DELETE FROM " + r.table.Name + " WHERE " + r.table.IDColumn + " = " + b.bind(id)
	}

	affected, err := r.exec(ctx, query, b.args...)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.table.Entity, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s with ID %d: %w", r.table.Entity, id, ErrNotFound)
	}
	return nil
}

// DeleteAll soft-deletes (or removes) every live entity in one statement
func (r *SQLRepository[T]) DeleteAll(ctx context.Context) error {
	b := r.newBinder()
	var query string
	if r.table.SoftDelete {
		query = "UPDATE " + r.table.Name +
			" SET delete_yn = '" + domain.Deleted + "', delete_time = " + b.bind(r.timestamp()) +
			" WHERE " + liveClause
	} else {
		query = "DELETE FROM " + r.table.Name
	}

	if _, err := r.exec(ctx, query, b.args...); err != nil {
		return fmt.Errorf("failed to delete all %s: %w", r.table.Entity, err)
	}
	return nil
}

// ExistsByID checks if a live entity exists by its ID
func (r *SQLRepository[T]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	b := r.newBinder()
	query := "SELECT COUNT(*) FROM " + r.table.Name + r.where(r.table.IDColumn+" = "+b.bind(id))

	var count int
	if err := r.scanOne(ctx, query, b.args, &count); err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", r.table.Entity, err)
	}
	return count > 0, nil
}

// Unscoped returns a view of the repository whose reads include soft-deleted rows.
// Writes keep operating on live rows only.
func (r *SQLRepository[T]) Unscoped() PagingRepository[T, int64] {
	clone := *r
	clone.unscoped = true
	return &clone
}

// Close releases the repository's prepared statements
func (r *SQLRepository[T]) Close() error {
	return r.stmts.Close()
}
