package sqlstore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prn-tf/recipebook/internal/repository"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

func (d dialect) String() string {
	if d == dialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
// Queries in this package never contain a literal question mark.
func (d dialect) rebind(query string) string {
	if d != dialectPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// timeArg converts a timestamp to a query argument. The zero time is NULL.
func (d dialect) timeArg(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	if d == dialectSQLite {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t.UTC()
}

// idArg converts an optional foreign id to a query argument. 0 is NULL.
func idArg(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// classify maps driver constraint errors onto repository sentinels.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s: %s", repository.ErrDuplicate, op, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%w: %s: %s", repository.ErrForeignKey, op, pgErr.ConstraintName)
		}
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, op)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %s", repository.ErrForeignKey, op)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// isUniqueViolation checks if an error is a SQLite unique constraint violation.
func isUniqueViolation(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "constraint failed: UNIQUE")
}

// isForeignKeyViolation checks if an error is a SQLite foreign key constraint violation.
func isForeignKeyViolation(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// timeValue scans TIMESTAMP columns from either driver: pgx yields
// time.Time, SQLite yields text (or time.Time for declared DATETIME columns).
type timeValue struct {
	t *time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (v timeValue) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*v.t = time.Time{}
		return nil
	case time.Time:
		*v.t = s.UTC()
		return nil
	case []byte:
		return v.parse(string(s))
	case string:
		return v.parse(s)
	}
	return fmt.Errorf("cannot scan %T into timestamp", src)
}

func (v timeValue) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*v.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}
