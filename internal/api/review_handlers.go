package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/phrasebook/internal/api/shared"
	"github.com/phrazzld/phrasebook/internal/platform/logger"
	"github.com/phrazzld/phrasebook/internal/service/review"
)

// ReviewHandler serves the daily review session.
type ReviewHandler struct {
	reviewService review.Service
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService review.Service, logger *slog.Logger) *ReviewHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

// Today handles GET /api/review/today.
func (h *ReviewHandler) Today(w http.ResponseWriter, r *http.Request) {
	phrases, err := h.reviewService.DueNow(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load review session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, phrasesToResponse(phrases))
}

// Review handles POST /api/review/{id}.
func (h *ReviewHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req ReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// The action is checked by the review service so that a missing and an
	// unknown action produce the same response.
	phrase, err := h.reviewService.Review(r.Context(), id, req.Action)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record review")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("review recorded",
		slog.String("phrase_id", id.String()),
		slog.String("status", phrase.Status.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, phraseToResponse(phrase))
}
