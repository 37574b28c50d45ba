package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migration is one embedded schema change.
type Migration struct {
	Version   int
	Name      string
	AppliedAt time.Time
}

func (db *DB) migrations() ([]Migration, error) {
	dir := path.Join("migrations", db.dialect.String())
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	var out []Migration
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		prefix, _, _ := strings.Cut(name, "_")
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("invalid migration file name %q", name)
		}
		out = append(out, Migration{Version: version, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (db *DB) ensureMigrationsTable(ctx context.Context) error {
	_, err := db.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at VARCHAR(40) NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// Version returns the highest applied migration version (0 when none).
func (db *DB) Version(ctx context.Context) (int, error) {
	if err := db.ensureMigrationsTable(ctx); err != nil {
		return 0, err
	}
	var version int
	err := db.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current migration version: %w", err)
	}
	return version, nil
}

// Status lists every embedded migration; AppliedAt is zero for pending ones.
func (db *DB) Status(ctx context.Context) ([]Migration, error) {
	all, err := db.migrations()
	if err != nil {
		return nil, err
	}
	if err := db.ensureMigrationsTable(ctx); err != nil {
		return nil, err
	}

	rows, err := db.db.QueryContext(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var at time.Time
		if err := rows.Scan(&version, timeValue{&at}); err != nil {
			return nil, fmt.Errorf("failed to scan migration: %w", err)
		}
		applied[version] = at
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range all {
		all[i].AppliedAt = applied[all[i].Version]
	}
	return all, nil
}

// Migrate applies every pending migration in version order.
// It returns the number of migrations applied.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	current, err := db.Version(ctx)
	if err != nil {
		return 0, err
	}

	db.logger.Info().Int("current_version", current).Msg("checking migrations")

	all, err := db.migrations()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, m := range all {
		if m.Version <= current {
			continue
		}
		script, err := migrationsFS.ReadFile(path.Join("migrations", db.dialect.String(), m.Name))
		if err != nil {
			return applied, fmt.Errorf("failed to read migration %d: %w", m.Version, err)
		}

		tx, err := db.db.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, string(script)); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("failed to apply migration %d: %w", m.Version, err)
		}
		record := db.dialect.rebind(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`)
		if _, err := tx.ExecContext(ctx, record, m.Version, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		applied++
		db.logger.Info().Int("version", m.Version).Str("file", m.Name).Msg("applied migration")
	}

	return applied, nil
}
