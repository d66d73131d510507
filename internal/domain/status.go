package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// PhraseStatus is the learning state of a phrase.
//
// The set of statuses is closed: the only valid values are StatusNew,
// StatusLearning and StatusMastered. The zero value is invalid, and other
// packages cannot construct new statuses.
type PhraseStatus struct {
	name string
}

// The three learning statuses.
var (
	StatusNew      = PhraseStatus{name: "New"}
	StatusLearning = PhraseStatus{name: "Learning"}
	StatusMastered = PhraseStatus{name: "Mastered"}
)

// AllStatuses lists every status in lifecycle order.
func AllStatuses() []PhraseStatus {
	return []PhraseStatus{StatusNew, StatusLearning, StatusMastered}
}

// ParsePhraseStatus converts a symbolic status name into a PhraseStatus.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParsePhraseStatus(s string) (PhraseStatus, error) {
	s = strings.TrimSpace(s)
	for _, status := range AllStatuses() {
		if strings.EqualFold(s, status.name) {
			return status, nil
		}
	}
	return PhraseStatus{}, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// String returns the symbolic name of the status.
func (s PhraseStatus) String() string {
	if s.name == "" {
		return "Invalid"
	}
	return s.name
}

// Valid reports whether s is one of the known statuses.
func (s PhraseStatus) Valid() bool {
	return s == StatusNew || s == StatusLearning || s == StatusMastered
}

// Reviewable reports whether phrases with this status take part in reviews.
// Mastered is terminal under the review flow.
func (s PhraseStatus) Reviewable() bool {
	return s == StatusNew || s == StatusLearning
}

// MarshalText implements encoding.TextMarshaler so statuses serialize by name.
func (s PhraseStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, ErrInvalidStatus
	}
	return []byte(s.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *PhraseStatus) UnmarshalText(text []byte) error {
	parsed, err := ParsePhraseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value implements driver.Valuer; statuses are persisted by symbolic name.
func (s PhraseStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.name, nil
}

// Scan implements sql.Scanner.
func (s *PhraseStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidStatus, src)
	}
}
