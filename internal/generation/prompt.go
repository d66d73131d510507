package generation

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

// SystemPrompt is sent as the system message to chat-style providers.
const SystemPrompt = "You are a helpful language learning assistant. " +
	"Respond only with valid JSON, no markdown or extra text."

//go:embed prompt.tmpl
var promptSource string

var promptTemplate = template.Must(template.New("autofill").Parse(promptSource))

type promptData struct {
	Text string
}

// RenderPrompt builds the user prompt for text. Blank text is rejected with
// ErrEmptyText.
func RenderPrompt(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}

	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, promptData{Text: text}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return sb.String(), nil
}
