package service

import (
	"fmt"
)

// PhraseServiceError is a custom error type for phrase service errors.
type PhraseServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for PhraseServiceError.
func (e *PhraseServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("phrase service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("phrase service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PhraseServiceError) Unwrap() error {
	return e.Err
}

// NewPhraseServiceError creates a new PhraseServiceError.
func NewPhraseServiceError(operation, message string, err error) *PhraseServiceError {
	return &PhraseServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
