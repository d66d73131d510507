package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/phrasebook/internal/config"
	"github.com/phrazzld/phrasebook/internal/platform/migrations"
	"github.com/phrazzld/phrasebook/internal/platform/postgres"
	"github.com/phrazzld/phrasebook/internal/platform/sqlite"
)

// openDatabase connects to PostgreSQL when a database URL is configured and
// to the local SQLite file otherwise.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver() {
	case config.DriverPostgres:
		db, err = postgres.Open(ctx, cfg.URL)
	default:
		db, err = sqlite.Open(ctx, cfg.SQLitePath)
	}
	if err != nil {
		return nil, err
	}

	log.Info("database connection established", slog.String("driver", cfg.Driver()))
	return db, nil
}

// migrateDatabase applies pending schema migrations.
func migrateDatabase(ctx context.Context, db *sql.DB, driver string, log *slog.Logger) error {
	applied, err := migrations.Up(ctx, db, driver, log)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Debug("migrations finished", slog.Int("applied", applied))
	return nil
}

func closeDatabase(db *sql.DB, log *slog.Logger) {
	if err := db.Close(); err != nil {
		log.Error("error closing database connection", slog.String("error", err.Error()))
	}
}
