package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/phrasebook/internal/clock"
	"github.com/phrazzld/phrasebook/internal/domain"
	"github.com/phrazzld/phrasebook/internal/platform/logger"
	"github.com/phrazzld/phrasebook/internal/store"
)

// PhraseInput carries the user-editable fields of a phrase.
type PhraseInput struct {
	Text         string
	Meaning      string
	Example      string
	PersonalNote string
}

func (in PhraseInput) content() domain.PhraseContent {
	return domain.PhraseContent{
		Text:         in.Text,
		Meaning:      in.Meaning,
		Example:      in.Example,
		PersonalNote: in.PersonalNote,
	}
}

// PhraseUpdate replaces every editable field and optionally the status.
// A nil or blank Status leaves the status unchanged.
type PhraseUpdate struct {
	PhraseInput
	Status *string
}

// ListFilter narrows a phrase listing. Status is matched by name; a name
// that does not parse is ignored rather than rejected.
type ListFilter struct {
	Search string
	Status string
}

// PhraseService provides phrase management operations.
type PhraseService interface {
	// CreatePhrase stores a new phrase that is immediately due for review.
	CreatePhrase(ctx context.Context, input PhraseInput) (*domain.Phrase, error)

	// GetPhrase retrieves a phrase by its ID.
	GetPhrase(ctx context.Context, id uuid.UUID) (*domain.Phrase, error)

	// ListPhrases returns matching phrases, newest created first.
	ListPhrases(ctx context.Context, filter ListFilter) ([]*domain.Phrase, error)

	// UpdatePhrase replaces a phrase's content and optionally its status.
	UpdatePhrase(ctx context.Context, id uuid.UUID, update PhraseUpdate) (*domain.Phrase, error)

	// DeletePhrase removes a phrase.
	DeletePhrase(ctx context.Context, id uuid.UUID) error

	// Stats returns per-status counts and the number of phrases due now.
	Stats(ctx context.Context) (store.StatusCounts, error)

	// ExportCSV writes the matching phrases to w as CSV.
	ExportCSV(ctx context.Context, filter ListFilter, w io.Writer) error
}

type phraseServiceImpl struct {
	phraseStore store.PhraseStore
	clock       clock.Clock
	logger      *slog.Logger
}

var _ PhraseService = (*phraseServiceImpl)(nil)

// NewPhraseService creates a new PhraseService.
// It returns an error if any of the required dependencies are nil.
func NewPhraseService(
	phraseStore store.PhraseStore,
	clk clock.Clock,
	logger *slog.Logger,
) (PhraseService, error) {
	if phraseStore == nil {
		return nil, domain.NewValidationError("phraseStore", "cannot be nil", domain.ErrValidation)
	}
	if clk == nil {
		return nil, domain.NewValidationError("clock", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &phraseServiceImpl{
		phraseStore: phraseStore,
		clock:       clk,
		logger:      logger.With(slog.String("component", "phrase_service")),
	}, nil
}

// CreatePhrase implements PhraseService.CreatePhrase
func (s *phraseServiceImpl) CreatePhrase(ctx context.Context, input PhraseInput) (*domain.Phrase, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	phrase, err := domain.NewPhrase(input.content(), s.clock.Now())
	if err != nil {
		log.Debug("rejected phrase", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.phraseStore.Create(ctx, phrase); err != nil {
		log.Error("failed to save phrase",
			slog.String("error", err.Error()),
			slog.String("phrase_id", phrase.ID.String()))
		return nil, NewPhraseServiceError("create_phrase", "failed to save phrase", err)
	}

	log.Info("phrase created", slog.String("phrase_id", phrase.ID.String()))
	return phrase, nil
}

// GetPhrase implements PhraseService.GetPhrase
func (s *phraseServiceImpl) GetPhrase(ctx context.Context, id uuid.UUID) (*domain.Phrase, error) {
	phrase, err := s.phraseStore.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrPhraseNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve phrase",
			slog.String("error", err.Error()),
			slog.String("phrase_id", id.String()))
		return nil, NewPhraseServiceError("get_phrase", "failed to retrieve phrase", err)
	}
	return phrase, nil
}

// ListPhrases implements PhraseService.ListPhrases
func (s *phraseServiceImpl) ListPhrases(ctx context.Context, filter ListFilter) ([]*domain.Phrase, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	phrases, err := s.phraseStore.List(ctx, s.storeFilter(log, filter))
	if err != nil {
		log.Error("failed to list phrases", slog.String("error", err.Error()))
		return nil, NewPhraseServiceError("list_phrases", "failed to list phrases", err)
	}
	return phrases, nil
}

func (s *phraseServiceImpl) storeFilter(log *slog.Logger, filter ListFilter) store.PhraseFilter {
	f := store.PhraseFilter{Search: strings.TrimSpace(filter.Search)}
	if raw := strings.TrimSpace(filter.Status); raw != "" {
		status, err := domain.ParsePhraseStatus(raw)
		if err != nil {
			log.Debug("ignoring unknown status filter", slog.String("status", raw))
		} else {
			f.Status = &status
		}
	}
	return f
}

// UpdatePhrase implements PhraseService.UpdatePhrase
func (s *phraseServiceImpl) UpdatePhrase(
	ctx context.Context,
	id uuid.UUID,
	update PhraseUpdate,
) (*domain.Phrase, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var status *domain.PhraseStatus
	if update.Status != nil && strings.TrimSpace(*update.Status) != "" {
		parsed, err := domain.ParsePhraseStatus(*update.Status)
		if err != nil {
			return nil, domain.NewValidationError("status", "must be one of New, Learning, Mastered", err)
		}
		status = &parsed
	}

	var updated *domain.Phrase
	err := store.RunInTransaction(ctx, s.phraseStore.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.phraseStore.WithTx(tx)

		phrase, err := txStore.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := phrase.Edit(update.content(), status, s.clock.Now()); err != nil {
			return err
		}

		if err := txStore.Update(ctx, phrase); err != nil {
			return err
		}
		updated = phrase
		return nil
	})
	if err != nil {
		switch {
		case store.IsNotFoundError(err):
			return nil, store.ErrPhraseNotFound
		case domain.IsValidationError(err):
			return nil, err
		}
		log.Error("failed to update phrase",
			slog.String("error", err.Error()),
			slog.String("phrase_id", id.String()))
		return nil, NewPhraseServiceError("update_phrase", "failed to update phrase", err)
	}

	log.Info("phrase updated",
		slog.String("phrase_id", id.String()),
		slog.String("status", updated.Status.String()))
	return updated, nil
}

// DeletePhrase implements PhraseService.DeletePhrase
func (s *phraseServiceImpl) DeletePhrase(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.phraseStore.DB(), func(ctx context.Context, tx *sql.Tx) error {
		return s.phraseStore.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrPhraseNotFound
		}
		log.Error("failed to delete phrase",
			slog.String("error", err.Error()),
			slog.String("phrase_id", id.String()))
		return NewPhraseServiceError("delete_phrase", "failed to delete phrase", err)
	}

	log.Info("phrase deleted", slog.String("phrase_id", id.String()))
	return nil
}

// Stats implements PhraseService.Stats
func (s *phraseServiceImpl) Stats(ctx context.Context) (store.StatusCounts, error) {
	counts, err := s.phraseStore.CountByStatus(ctx, s.clock.Now())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count phrases",
			slog.String("error", err.Error()))
		return store.StatusCounts{}, NewPhraseServiceError("stats", "failed to count phrases", err)
	}
	return counts, nil
}

// ExportCSV implements PhraseService.ExportCSV
func (s *phraseServiceImpl) ExportCSV(ctx context.Context, filter ListFilter, w io.Writer) error {
	phrases, err := s.ListPhrases(ctx, filter)
	if err != nil {
		return err
	}

	if err := writeCSV(w, phrases); err != nil {
		var svcErr *PhraseServiceError
		if errors.As(err, &svcErr) {
			return err
		}
		return NewPhraseServiceError("export", "failed to write csv", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("exported phrases",
		slog.Int("count", len(phrases)))
	return nil
}
