package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/phrasebook/internal/domain"
)

// Common errors
var (
	ErrNilPhrase      = errors.New("phrase cannot be nil")
	ErrInvalidOutcome = errors.New("invalid review outcome")
)

// Service defines the interface for review scheduling operations
type Service interface {
	// ApplyReview computes the phrase state that results from a review
	ApplyReview(phrase *domain.Phrase, outcome Outcome, now time.Time) (*domain.Phrase, error)

	// IsDue reports whether a phrase should be presented at now
	IsDue(phrase *domain.Phrase, now time.Time) bool

	// DueNow returns the due subset of phrases ordered by next review time
	DueNow(phrases []*domain.Phrase, now time.Time) []*domain.Phrase
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduler with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// ApplyReview implements the Service interface
func (s *defaultService) ApplyReview(
	phrase *domain.Phrase,
	outcome Outcome,
	now time.Time,
) (*domain.Phrase, error) {
	if phrase == nil {
		return nil, ErrNilPhrase
	}

	if !outcome.valid() {
		return nil, ErrInvalidOutcome
	}

	return applyReview(phrase, outcome, now, s.params), nil
}

// IsDue implements the Service interface
func (s *defaultService) IsDue(phrase *domain.Phrase, now time.Time) bool {
	if phrase == nil {
		return false
	}
	return isDue(phrase, now)
}

// DueNow implements the Service interface
func (s *defaultService) DueNow(phrases []*domain.Phrase, now time.Time) []*domain.Phrase {
	return dueNow(phrases, now)
}
