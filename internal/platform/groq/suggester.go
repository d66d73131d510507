package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/phrasebook/internal/config"
	"github.com/phrazzld/phrasebook/internal/generation"
	"github.com/phrazzld/phrasebook/internal/platform/logger"
	"github.com/phrazzld/phrasebook/internal/redact"
)

// Defaults applied when the configuration leaves a value empty.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.1-8b-instant"
	Temperature    = 0.7
	MaxTokens      = 300
)

// maxResponseBytes bounds how much of an upstream body is read.
const maxResponseBytes = 1 << 20

// Suggester calls the chat completions endpoint once per request.
type Suggester struct {
	logger  *slog.Logger
	client  *http.Client
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration
}

var _ generation.Suggester = (*Suggester)(nil)

// Option customizes a Suggester.
type Option func(*Suggester)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Suggester) {
		if c != nil {
			s.client = c
		}
	}
}

// NewSuggester creates a Suggester from cfg. An empty API key is a
// configuration error; callers should use generation.Unavailable instead.
func NewSuggester(log *slog.Logger, cfg config.LLMConfig, opts ...Option) (*Suggester, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: groq API key cannot be empty", generation.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Suggester{
		logger:  log.With(slog.String("component", "groq_suggester")),
		client:  &http.Client{},
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout(),
	}
	if s.model == "" {
		s.model = DefaultModel
	}
	if s.baseURL == "" {
		s.baseURL = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
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

	content, err := s.complete(ctx, prompt)
	if err != nil {
		log.WarnContext(ctx, "autofill request failed",
			slog.String("model", s.model),
			slog.String("error", redact.Error(err)))
		return generation.Suggestion{}, generation.Failed(err)
	}

	suggestion, err := generation.ParseSuggestion(content)
	if err != nil {
		log.WarnContext(ctx, "autofill response could not be parsed",
			slog.String("model", s.model),
			slog.Int("content_length", len(content)))
		return generation.Suggestion{}, err
	}

	log.DebugContext(ctx, "autofill suggestion generated", slog.String("model", s.model))
	return suggestion, nil
}

// complete performs one chat completion and returns the first choice's content.
func (s *Suggester) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: generation.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == nil {
		return "", errors.New("response has no message content")
	}

	return *decoded.Choices[0].Message.Content, nil
}
