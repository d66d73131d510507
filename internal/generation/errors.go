package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrUnavailable is returned when no provider is configured. It is not a
	// failure: callers should report that autofill is switched off.
	ErrUnavailable = errors.New("autofill is not configured")

	// ErrSuggestionFailed is returned for any transport, upstream status or
	// parse problem. Failures are never retried.
	ErrSuggestionFailed = errors.New("failed to generate suggestion")

	// ErrInvalidResponse is returned when the model output cannot be parsed
	// into a Suggestion.
	ErrInvalidResponse = fmt.Errorf("%w: invalid response from language model", ErrSuggestionFailed)

	// ErrEmptyText is returned when the phrase to autofill is blank.
	ErrEmptyText = errors.New("phrase text cannot be empty")

	// ErrInvalidConfig is returned when a provider is constructed with an
	// unusable configuration.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// Failed wraps cause as an ErrSuggestionFailed. A cause that already is one
// is returned unchanged.
func Failed(cause error) error {
	if cause == nil || errors.Is(cause, ErrSuggestionFailed) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrSuggestionFailed, cause)
}
