package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

// querier is an interface that both *sql.DB and *sql.Tx implement.
// This allows repositories to work with both.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Ensure both DB and Tx implement querier
var (
	_ querier = (*sql.DB)(nil)
	_ querier = (*sql.Tx)(nil)
)

// conn binds a querier to a dialect and counts affected rows.
type conn struct {
	q        querier
	dialect  dialect
	affected int64
}

type scanner interface {
	Scan(dest ...any) error
}

func (c *conn) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := c.q.ExecContext(ctx, c.dialect.rebind(query), args...)
	if err != nil {
		return 0, classify(err, op)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	c.affected += n
	return n, nil
}

// insert runs an INSERT and returns the generated id.
func (c *conn) insert(ctx context.Context, op, query string, args ...any) (int64, error) {
	var id int64
	err := c.q.QueryRowContext(ctx, c.dialect.rebind(query+" RETURNING id"), args...).Scan(&id)
	if err != nil {
		return 0, classify(err, op)
	}
	c.affected++
	return id, nil
}

// update runs an UPDATE by id and reports ErrNotFound when no row matched.
func (c *conn) update(ctx context.Context, op, query string, args ...any) error {
	n, err := c.exec(ctx, op, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// softDelete flips is_active on a row. It is idempotent.
func (c *conn) softDelete(ctx context.Context, table string, id int64) error {
	query := fmt.Sprintf("UPDATE %s SET is_active = ?, updated_at = ? WHERE id = ?", table)
	return c.update(ctx, "remove from "+table, query, false, c.dialect.timeArg(domain.Now()), id)
}

func (c *conn) exists(ctx context.Context, op, query string, args ...any) (bool, error) {
	var found bool
	err := c.q.QueryRowContext(ctx, c.dialect.rebind("SELECT EXISTS ("+query+")"), args...).Scan(&found)
	if err != nil {
		return false, classify(err, op)
	}
	return found, nil
}

func (c *conn) count(ctx context.Context, op, query string, args ...any) (int64, error) {
	var n int64
	if err := c.q.QueryRowContext(ctx, c.dialect.rebind(query), args...).Scan(&n); err != nil {
		return 0, classify(err, op)
	}
	return n, nil
}

// getOne runs a single-row query and maps sql.ErrNoRows to repository.ErrNotFound.
func getOne[T any](ctx context.Context, c *conn, op string, scan func(scanner) (T, error), query string, args ...any) (T, error) {
	v, err := scan(c.q.QueryRowContext(ctx, c.dialect.rebind(query), args...))
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, repository.ErrNotFound
		}
		return zero, classify(err, op)
	}
	return v, nil
}

// list runs a multi-row query.
func list[T any](ctx context.Context, c *conn, op string, scan func(scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := c.q.QueryContext(ctx, c.dialect.rebind(query), args...)
	if err != nil {
		return nil, classify(err, op)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", op, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", op, err)
	}
	return out, nil
}

// recordColumns trails every SELECT column list.
const recordColumns = "id, is_active, created_at, updated_at"

// recordDest returns the scan destinations matching recordColumns.
func recordDest(r *domain.Record) []any {
	return []any{&r.ID, &r.IsActive, timeValue{&r.CreatedAt}, timeValue{&r.UpdatedAt}}
}

func scanRow(row scanner, r *domain.Record, dest ...any) error {
	return row.Scan(append(dest, recordDest(r)...)...)
}
