package srs

import (
	"fmt"
	"strings"
)

// Outcome is the user's answer when a phrase is presented for review.
type Outcome int

const (
	// Know means the user recalled the phrase.
	Know Outcome = iota + 1

	// DontKnow means the user failed to recall the phrase.
	DontKnow
)

// ParseOutcome converts a review action name into an Outcome.
// Accepted values are "know" and "dontKnow", compared case-insensitively.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "know":
		return Know, nil
	case "dontknow":
		return DontKnow, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
	}
}

// String returns the action name of the outcome.
func (o Outcome) String() string {
	switch o {
	case Know:
		return "know"
	case DontKnow:
		return "dontKnow"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

func (o Outcome) valid() bool {
	return o == Know || o == DontKnow
}
