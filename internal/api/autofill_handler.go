package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/phrasebook/internal/api/shared"
	"github.com/phrazzld/phrasebook/internal/generation"
	"github.com/phrazzld/phrasebook/internal/platform/logger"
)

// AutofillHandler asks the configured language model to suggest a meaning,
// an example and a note for a phrase.
type AutofillHandler struct {
	suggester generation.Suggester
	logger    *slog.Logger
}

// NewAutofillHandler creates a new AutofillHandler. A nil suggester behaves
// as an unconfigured provider.
func NewAutofillHandler(suggester generation.Suggester, logger *slog.Logger) *AutofillHandler {
	if suggester == nil {
		suggester = generation.Unavailable{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AutofillHandler{
		suggester: suggester,
		logger:    logger.With(slog.String("component", "autofill_handler")),
	}
}

// Autofill handles POST /api/phrases/autofill.
func (h *AutofillHandler) Autofill(w http.ResponseWriter, r *http.Request) {
	var req AutofillRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		HandleAPIError(w, r, generation.ErrEmptyText, "")
		return
	}

	suggestion, err := h.suggester.Suggest(r.Context(), text)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate suggestion")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("autofill suggestion generated",
		slog.Int("text_length", len(text)))
	shared.RespondWithJSON(w, r, http.StatusOK, SuggestionResponse(suggestion))
}
