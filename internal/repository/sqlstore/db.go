// Package sqlstore implements the repository interfaces on database/sql.
// SQLite uses modernc.org/sqlite, a pure Go implementation that doesn't require
// CGO; PostgreSQL uses a pgx connection pool exposed through pgx/v5/stdlib.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/prn-tf/recipebook/internal/config"
)

// DB wraps a sql.DB connection together with its SQL dialect.
type DB struct {
	db      *sql.DB
	pool    *pgxpool.Pool
	dialect dialect
	logger  zerolog.Logger
}

// Open connects to the database selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return openSQLite(ctx, cfg, logger)
	case "postgres":
		return openPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func sqliteDSN(cfg config.DatabaseConfig) string {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_txlock=immediate",
		cfg.Path, cfg.BusyTimeout)
	if cfg.Path == ":memory:" {
		return dsn
	}
	return dsn + fmt.Sprintf("&_pragma=journal_mode(%s)&_pragma=synchronous(%s)&_pragma=cache_size(%d)",
		cfg.JournalMode, cfg.SynchronousMode, cfg.CacheSize)
}

func openSQLite(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", sqliteDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite works best with a single writer; an in-memory database also
	// exists only on the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if cfg.ConnMaxLifetime > 0 && cfg.Path != ":memory:" {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	logger.Info().
		Str("path", cfg.Path).
		Str("journal_mode", cfg.JournalMode).
		Msg("connected to SQLite database")

	return &DB{db: db, dialect: dialectSQLite, logger: logger}, nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime
	poolConfig.ConnConfig.ConnectTimeout = 10 * time.Second

	if logger.GetLevel() <= zerolog.DebugLevel {
		poolConfig.ConnConfig.Tracer = &queryTracer{logger: logger}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_conns", cfg.MaxOpenConns).
		Msg("connected to PostgreSQL")

	return &DB{
		db:      stdlib.OpenDBFromPool(pool),
		pool:    pool,
		dialect: dialectPostgres,
		logger:  logger,
	}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.logger.Info().Str("driver", db.dialect.String()).Msg("closing database connection")
	err := db.db.Close()
	if db.pool != nil {
		db.pool.Close()
	}
	return err
}

// Ping checks the database connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

// Driver returns the configured driver name.
func (db *DB) Driver() string {
	return db.dialect.String()
}

// queryTracer implements pgx.QueryTracer for debug logging.
type queryTracer struct {
	logger zerolog.Logger
}

type traceQueryCtxKey struct{}

type traceQueryData struct {
	sql       string
	startTime time.Time
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceQueryCtxKey{}, &traceQueryData{
		sql:       data.SQL,
		startTime: time.Now(),
	})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	queryData, ok := ctx.Value(traceQueryCtxKey{}).(*traceQueryData)
	if !ok {
		return
	}

	event := t.logger.Debug().
		Str("sql", queryData.sql).
		Dur("duration", time.Since(queryData.startTime)).
		Str("command_tag", data.CommandTag.String())

	if data.Err != nil {
		event.Err(data.Err)
	}

	event.Msg("query executed")
}
