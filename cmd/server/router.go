package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/phrasebook/internal/api"
	apiMiddleware "github.com/phrazzld/phrasebook/internal/api/middleware"
	"github.com/phrazzld/phrasebook/internal/api/shared"
	"github.com/rs/cors"
)

// maxRequestBodyBytes bounds JSON request bodies.
const maxRequestBodyBytes = 64 << 10

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(app.corsHandler().Handler)

	phraseHandler := api.NewPhraseHandler(app.phraseService, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	autofillHandler := api.NewAutofillHandler(app.suggester, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestSize(maxRequestBodyBytes))
		if app.jwtService != nil {
			r.Use(apiMiddleware.NewAuthMiddleware(app.jwtService).Authenticate)
		}

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Resource not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		})

		r.Route("/phrases", func(r chi.Router) {
			r.Post("/", phraseHandler.CreatePhrase)
			r.Get("/", phraseHandler.ListPhrases)
			r.Get("/stats", phraseHandler.Stats)
			r.Get("/export", phraseHandler.Export)
			r.Post("/autofill", autofillHandler.Autofill)

			r.Get("/{id}", phraseHandler.GetPhrase)
			r.Put("/{id}", phraseHandler.UpdatePhrase)
			r.Delete("/{id}", phraseHandler.DeletePhrase)
		})

		r.Get("/review/today", reviewHandler.Today)
		r.Post("/review/{id}", reviewHandler.Review)
	})

	r.Get("/health", app.handleHealth)

	if dir := app.config.Server.StaticDir; dir != "" {
		app.logger.Info("serving static files", slog.String("dir", dir))
		r.NotFound(newSPAHandler(dir).ServeHTTP)
	}

	return r
}

func (app *application) corsHandler() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: app.config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         86400,
	})
}

// handleHealth reports 200 OK when the database answers a ping.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		app.logger.Error("health check failed", slog.String("error", err.Error()))
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
	}
}
