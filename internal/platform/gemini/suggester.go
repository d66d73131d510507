package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/phrasebook/internal/config"
	"github.com/phrazzld/phrasebook/internal/generation"
	"github.com/phrazzld/phrasebook/internal/platform/logger"
	"github.com/phrazzld/phrasebook/internal/redact"
	"google.golang.org/genai"
)

// DefaultModel is used when the configuration names no model.
const DefaultModel = "gemini-2.0-flash"

const temperature float32 = 0.7

// contentGenerator is the subset of *genai.Models used by the Suggester.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Suggester implements generation.Suggester with the Gemini API.
type Suggester struct {
	logger  *slog.Logger
	models  contentGenerator
	model   string
	timeout time.Duration
}

var _ generation.Suggester = (*Suggester)(nil)

// NewSuggester creates a Gemini-backed Suggester from cfg.
func NewSuggester(ctx context.Context, log *slog.Logger, cfg config.LLMConfig) (*Suggester, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newSuggester(log, client.Models, cfg), nil
}

func newSuggester(log *slog.Logger, models contentGenerator, cfg config.LLMConfig) *Suggester {
	if log == nil {
		log = slog.Default()
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Suggester{
		logger:  log.With(slog.String("component", "gemini_suggester")),
		models:  models,
		model:   model,
		timeout: cfg.Timeout(),
	}
}

// Suggest implements generation.Suggester.
func (s *Suggester) Suggest(ctx context.Context, text string) (generation.Suggestion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	prompt, err := generation.RenderPrompt(text)
	if err != nil {
		return generation.Suggestion{}, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.models.GenerateContent(ctx, s.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: generation.SystemPrompt}}},
			Temperature:       genai.Ptr(temperature),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		log.WarnContext(ctx, "Gemini API call failed",
			slog.String("model", s.model),
			slog.String("error", redact.Error(err)))
		return generation.Suggestion{}, generation.Failed(err)
	}

	content, err := responseText(resp)
	if err != nil {
		log.WarnContext(ctx, "Gemini returned no usable content",
			slog.String("model", s.model),
			slog.String("error", err.Error()))
		return generation.Suggestion{}, err
	}

	return generation.ParseSuggestion(content)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.Failed(errors.New("content blocked by safety filters"))
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
