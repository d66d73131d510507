package generation

import "context"

// Suggestion is the autofill result for one phrase.
type Suggestion struct {
	Meaning      string `json:"meaning"`
	Example      string `json:"example"`
	PersonalNote string `json:"personalNote"`
}

// Suggester produces a Suggestion for a phrase.
type Suggester interface {
	// Suggest asks the model about text. It returns ErrUnavailable when no
	// provider is configured and an error wrapping ErrSuggestionFailed for
	// every other problem.
	Suggest(ctx context.Context, text string) (Suggestion, error)
}

// Unavailable is the Suggester used when no API key is configured.
// It performs no I/O.
type Unavailable struct{}

// Suggest always returns ErrUnavailable.
func (Unavailable) Suggest(context.Context, string) (Suggestion, error) {
	return Suggestion{}, ErrUnavailable
}

var _ Suggester = Unavailable{}
