package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/phrasebook/internal/domain"
)

// Service provides the review operations.
type Service interface {
	// DueNow returns the phrases due for review at the current time,
	// ordered by NextReviewAt ascending.
	DueNow(ctx context.Context) ([]*domain.Phrase, error)

	// Review records the outcome named by rawOutcome ("know" or "dontKnow")
	// for the phrase and returns the updated phrase.
	//
	// Returns srs.ErrInvalidOutcome for an unknown outcome and
	// store.ErrPhraseNotFound when the phrase does not exist.
	Review(ctx context.Context, id uuid.UUID, rawOutcome string) (*domain.Phrase, error)
}

// ServiceError wraps unexpected errors from the review service with the
// operation that failed.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "due_now", "review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewReviewError returns a new ServiceError for the review operation.
func NewReviewError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "review",
		Message:   message,
		Err:       err,
	}
}

// NewDueNowError returns a new ServiceError for the due_now operation.
func NewDueNowError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "due_now",
		Message:   message,
		Err:       err,
	}
}
