package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrNotFound",
			err:      fmt.Errorf("failed to do something: %w", ErrNotFound),
			expected: true,
		},
		{
			name:     "ErrPhraseNotFound",
			err:      ErrPhraseNotFound,
			expected: true,
		},
		{
			name:     "store error around ErrPhraseNotFound",
			err:      NewStoreError("phrase", "get", "lookup failed", ErrPhraseNotFound),
			expected: true,
		},
		{
			name:     "ErrPhraseExists",
			err:      ErrPhraseExists,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.expected {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "ErrDuplicate",
			err:      ErrDuplicate,
			expected: true,
		},
		{
			name:     "wrapped ErrPhraseExists",
			err:      fmt.Errorf("failed to create phrase: %w", ErrPhraseExists),
			expected: true,
		},
		{
			name:     "ErrPhraseNotFound",
			err:      ErrPhraseNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicateError(tt.err); got != tt.expected {
				t.Errorf("IsDuplicateError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStoreError(t *testing.T) {
	originalErr := errors.New("database connection failed")
	storeErr := NewStoreError("phrase", "create", "database error", originalErr)

	expected := "create operation on phrase failed: database error: database connection failed"
	if got := storeErr.Error(); got != expected {
		t.Errorf("StoreError.Error() = %v, want %v", got, expected)
	}

	if !errors.Is(storeErr, originalErr) {
		t.Errorf("errors.Is() not recognizing the wrapped error")
	}

	bare := NewStoreError("phrase", "delete", "nothing to delete", nil)
	if got := bare.Error(); got != "delete operation on phrase failed: nothing to delete" {
		t.Errorf("StoreError.Error() = %v", got)
	}
}

func TestStatusCountsTotal(t *testing.T) {
	c := StatusCounts{New: 2, Learning: 3, Mastered: 4, Due: 5}
	if got := c.Total(); got != 9 {
		t.Errorf("Total() = %d, want 9", got)
	}
}
