package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/phrasebook/internal/clock"
	"github.com/phrazzld/phrasebook/internal/config"
	"github.com/phrazzld/phrasebook/internal/domain/srs"
	"github.com/phrazzld/phrasebook/internal/generation"
	"github.com/phrazzld/phrasebook/internal/platform/gemini"
	"github.com/phrazzld/phrasebook/internal/platform/groq"
	"github.com/phrazzld/phrasebook/internal/platform/postgres"
	"github.com/phrazzld/phrasebook/internal/platform/sqlite"
	"github.com/phrazzld/phrasebook/internal/service"
	"github.com/phrazzld/phrasebook/internal/service/auth"
	"github.com/phrazzld/phrasebook/internal/service/review"
	"github.com/phrazzld/phrasebook/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	clock  clock.Clock

	phraseStore store.PhraseStore

	srsService    srs.Service
	phraseService service.PhraseService
	reviewService review.Service
	suggester     generation.Suggester

	// jwtService is nil when the API is open.
	jwtService auth.JWTService
}

// newApplication creates a new application instance with all dependencies initialized.
// The schema is migrated before any store is used. A nil clk selects the
// system clock.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	clk clock.Clock,
) (*application, error) {
	if clk == nil {
		clk = clock.System{}
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		clock:  clk,
	}

	driver := cfg.Database.Driver()
	if err := migrateDatabase(ctx, db, driver, logger); err != nil {
		return nil, err
	}

	switch driver {
	case config.DriverPostgres:
		app.phraseStore = postgres.NewPostgresPhraseStore(db, logger)
	default:
		app.phraseStore = sqlite.NewSQLitePhraseStore(db, logger)
	}

	app.srsService = srs.NewDefaultService()

	var err error
	app.phraseService, err = service.NewPhraseService(app.phraseStore, clk, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create phrase service: %w", err)
	}
	app.reviewService = review.NewService(app.phraseStore, app.srsService, clk, logger)

	app.suggester, err = newSuggester(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize autofill: %w", err)
	}

	if cfg.Auth.Enabled() {
		app.jwtService, err = auth.NewJWTService(cfg.Auth, clk)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
		}
		logger.Info("access token guard enabled")
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// newSuggester selects the autofill provider. Without an API key autofill
// reports itself as unavailable.
func newSuggester(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Suggester, error) {
	if !cfg.Configured() {
		logger.Warn("no LLM API key configured, autofill is disabled",
			slog.String("provider", cfg.Provider))
		return generation.Unavailable{}, nil
	}

	var (
		s   generation.Suggester
		err error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		s, err = gemini.NewSuggester(ctx, logger, cfg)
	default:
		s, err = groq.NewSuggester(logger, cfg)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("autofill provider initialized", slog.String("provider", cfg.Provider))
	return s, nil
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		closeDatabase(app.db, app.logger)
	}
	app.logger.Info("application shutdown completed")
}
