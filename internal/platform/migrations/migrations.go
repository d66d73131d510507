// Package migrations embeds the database schema for every supported engine
// and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/phrazzld/phrasebook/internal/config"
	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedded embed.FS

// dialects maps database/sql driver names to goose dialects and the
// directory holding their migrations.
var dialects = map[string]struct {
	dialect goose.Dialect
	dir     string
}{
	config.DriverPostgres: {goose.DialectPostgres, "postgres"},
	config.DriverSQLite:   {goose.DialectSQLite3, "sqlite"},
}

// Files returns the migration files for driver.
func Files(driver string) (fs.FS, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
	return fs.Sub(embedded, d.dir)
}

func newProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
	fsys, err := fs.Sub(embedded, d.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	provider, err := goose.NewProvider(d.dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Up applies every pending migration for driver and returns the number applied.
func Up(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "migrations"), slog.String("driver", driver))

	provider, err := newProvider(db, driver)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	results, err := provider.Up(ctx)
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		log.Info("applied migration",
			slog.Int64("version", r.Source.Version),
			slog.Int64("duration_ms", r.Duration.Milliseconds()))
	}
	if err != nil {
		log.Error("migration failed", slog.String("error", err.Error()))
		return len(results), fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return len(results), fmt.Errorf("failed to read schema version: %w", err)
	}

	log.Info("database schema is up to date",
		slog.Int64("version", version),
		slog.Int("applied", len(results)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return len(results), nil
}

// Pending reports whether driver has migrations that have not been applied.
func Pending(ctx context.Context, db *sql.DB, driver string) (bool, error) {
	provider, err := newProvider(db, driver)
	if err != nil {
		return false, err
	}
	return provider.HasPending(ctx)
}
