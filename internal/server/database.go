package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	repo "github.com/PoYuTsai/TravelAPP-sub000/internal/repository"
)

// ConnectDB opens the configured database and, when enabled, creates or
// updates the schema.
func ConnectDB(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*repo.DB, error) {
	db, err := repo.Open(ctx, repo.Config{
		Driver:           cfg.Driver,
		DSN:              cfg.DSN,
		MaxConns:         cfg.MaxConns,
		MinConns:         cfg.MinConns,
		MaxConnLifetime:  cfg.MaxConnLifetime,
		MaxConnIdleTime:  cfg.MaxConnIdleTime,
		DialTimeout:      cfg.DialTimeout,
		StatementTimeout: cfg.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to database", "driver", cfg.Driver, "error", err)
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := repo.Migrate(ctx, db, logger); err != nil {
			repo.Close(db, logger)
			return nil, err
		}
	}
	logger.Info("successfully connected to database", "driver", db.Dialect())
	return db, nil
}

// PingDB pings the database to ensure it's responsive
func PingDB(ctx context.Context, db *repo.DB, logger *slog.Logger, timeout time.Duration) error {
	return repo.HealthCheck(ctx, db, timeout, logger)
}

// CloseDB closes the database connections gracefully
func CloseDB(db *repo.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	repo.Close(db, logger)
}
