package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Config struct {
	Driver           string
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// DB bundles the ent SQL driver with the pgx pool backing it, if any.
type DB struct {
	Driver *entsql.Driver
	Pool   *pgxpool.Pool
}

// Dialect returns the ent dialect name of the connection.
func (db *DB) Dialect() string {
	return db.Driver.Dialect()
}

// Open connects to postgres through a pgx pool or to a sqlite file through
// modernc.org/sqlite, and wraps the result for ent's SQL builder.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "sqlite", dialect.SQLite:
		return openSQLite(ctx, cfg, logger)
	case dialect.Postgres, "pgx":
		return openPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to database", "driver", "postgres")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database config", "error", err)
		return nil, err
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "itinerary"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = cfg.StatementTimeout.String()
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	// Wrap pool as *sql.DB for ent
	db := stdlib.OpenDBFromPool(pool)
	logger.Info("successfully connected to database")
	return &DB{Driver: entsql.OpenDB(dialect.Postgres, db), Pool: pool}, nil
}

// SQLiteDSN turns a file path into a modernc DSN with WAL and foreign keys on.
// Values that already look like DSNs are returned unchanged.
func SQLiteDSN(path string) string {
	if strings.HasPrefix(path, "file:") || strings.Contains(path, "?") {
		return path
	}
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)
}

func openSQLite(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("opening database", "driver", "sqlite", "path", cfg.DSN)
	db, err := sql.Open("sqlite", SQLiteDSN(cfg.DSN))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		logger.Error("failed to open database", "error", err)
		return nil, err
	}
	return &DB{Driver: entsql.OpenDB(dialect.SQLite, db)}, nil
}

// Close closes the database connections gracefully
func Close(db *DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	logger.Info("closing database connections")
	if db.Driver != nil {
		if err := db.Driver.Close(); err != nil {
			logger.Error("failed to close database driver", "error", err)
		}
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
	logger.Info("database connections closed")
}

// HealthCheck pings the database to catch DSN issues early.
func HealthCheck(ctx context.Context, db *DB, timeout time.Duration, logger *slog.Logger) error {
	logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	var err error
	if db.Pool != nil {
		err = db.Pool.Ping(ctx)
	} else {
		err = db.Driver.DB().PingContext(ctx)
	}
	if err != nil {
		logger.Error("database ping failed", "error", err)
		return err
	}
	logger.Debug("database ping successful")
	return nil
}

// withTx runs fn in a transaction, rolling back when it fails.
func withTx(ctx context.Context, drv *entsql.Driver, fn func(tx dialect.Tx) error) error {
	tx, err := drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
