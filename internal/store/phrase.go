package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/phrasebook/internal/domain"
)

// PhraseFilter narrows a phrase listing.
type PhraseFilter struct {
	// Search is matched case-insensitively as a substring of the text,
	// meaning, example and personal note. Empty matches everything.
	Search string

	// Status restricts results to one status when non-nil.
	Status *domain.PhraseStatus
}

// StatusCounts holds the number of phrases in each status plus the number
// currently due for review.
type StatusCounts struct {
	New      int
	Learning int
	Mastered int
	Due      int
}

// Total returns the number of phrases across all statuses.
func (c StatusCounts) Total() int {
	return c.New + c.Learning + c.Mastered
}

// PhraseStore defines the interface for phrase data persistence.
type PhraseStore interface {
	// Create saves a new phrase to the store.
	// The phrase must be valid according to domain validation rules.
	// Returns ErrPhraseExists if a phrase with the same ID is already stored.
	Create(ctx context.Context, phrase *domain.Phrase) error

	// GetByID retrieves a phrase by its unique ID.
	// Returns ErrPhraseNotFound if the phrase does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Phrase, error)

	// List returns the phrases matching filter, newest created first.
	// An empty result is a non-nil empty slice.
	List(ctx context.Context, filter PhraseFilter) ([]*domain.Phrase, error)

	// ListDue returns the phrases whose status is not Mastered and whose
	// NextReviewAt is at or before now, ordered by NextReviewAt ascending.
	ListDue(ctx context.Context, now time.Time) ([]*domain.Phrase, error)

	// CountByStatus returns per-status counts and the size of the due set at now.
	CountByStatus(ctx context.Context, now time.Time) (StatusCounts, error)

	// Update overwrites every mutable column of an existing phrase.
	// Returns ErrPhraseNotFound if the phrase does not exist.
	Update(ctx context.Context, phrase *domain.Phrase) error

	// Delete removes a phrase from the store by its ID.
	// Returns ErrPhraseNotFound if the phrase does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new PhraseStore instance that uses the provided transaction.
	// This allows a read-modify-write to be executed within a single transaction.
	//
	// Example usage:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       txStore := phraseStore.WithTx(tx)
	//       p, err := txStore.GetByID(ctx, id)
	//       ...
	//       return txStore.Update(ctx, p)
	//   })
	WithTx(tx *sql.Tx) PhraseStore

	// DB returns the underlying database handle used to start transactions.
	DB() *sql.DB
}
