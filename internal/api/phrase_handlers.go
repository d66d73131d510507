package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/phrasebook/internal/api/shared"
	"github.com/phrazzld/phrasebook/internal/platform/logger"
	"github.com/phrazzld/phrasebook/internal/service"
)

// PhraseHandler handles phrase CRUD, statistics and export requests.
type PhraseHandler struct {
	phraseService service.PhraseService
	logger        *slog.Logger
}

// NewPhraseHandler creates a new PhraseHandler.
func NewPhraseHandler(phraseService service.PhraseService, logger *slog.Logger) *PhraseHandler {
	if phraseService == nil {
		panic("phraseService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PhraseHandler{
		phraseService: phraseService,
		logger:        logger.With(slog.String("component", "phrase_handler")),
	}
}

// CreatePhrase handles POST /api/phrases.
func (h *PhraseHandler) CreatePhrase(w http.ResponseWriter, r *http.Request) {
	var req PhraseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	phrase, err := h.phraseService.CreatePhrase(r.Context(), req.input())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create phrase")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("phrase created",
		slog.String("phrase_id", phrase.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, phraseToResponse(phrase))
}

// ListPhrases handles GET /api/phrases.
func (h *PhraseHandler) ListPhrases(w http.ResponseWriter, r *http.Request) {
	phrases, err := h.phraseService.ListPhrases(r.Context(), listFilter(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list phrases")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, phrasesToResponse(phrases))
}

// GetPhrase handles GET /api/phrases/{id}.
func (h *PhraseHandler) GetPhrase(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	phrase, err := h.phraseService.GetPhrase(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get phrase")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, phraseToResponse(phrase))
}

// UpdatePhrase handles PUT /api/phrases/{id}.
func (h *PhraseHandler) UpdatePhrase(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req UpdatePhraseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	phrase, err := h.phraseService.UpdatePhrase(r.Context(), id, service.PhraseUpdate{
		PhraseInput: req.input(),
		Status:      req.Status,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update phrase")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, phraseToResponse(phrase))
}

// DeletePhrase handles DELETE /api/phrases/{id}.
func (h *PhraseHandler) DeletePhrase(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.phraseService.DeletePhrase(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete phrase")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("phrase deleted",
		slog.String("phrase_id", id.String()))
	shared.RespondWithNoContent(w)
}

// Stats handles GET /api/phrases/stats.
func (h *PhraseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.phraseService.Stats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, statsToResponse(counts))
}

// Export handles GET /api/phrases/export. The CSV is rendered fully before
// any bytes are written so a failure still produces a JSON error.
func (h *PhraseHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.phraseService.ExportCSV(r.Context(), listFilter(r), &buf); err != nil {
		HandleAPIError(w, r, err, "Failed to export phrases")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="phrases.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("failed to write export",
			slog.String("error", err.Error()))
	}
}

func listFilter(r *http.Request) service.ListFilter {
	q := r.URL.Query()
	return service.ListFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Status: strings.TrimSpace(q.Get("status")),
	}
}
