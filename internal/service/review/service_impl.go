package review

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/phrasebook/internal/clock"
	"github.com/phrazzld/phrasebook/internal/domain"
	"github.com/phrazzld/phrasebook/internal/domain/srs"
	"github.com/phrazzld/phrasebook/internal/platform/logger"
	"github.com/phrazzld/phrasebook/internal/store"
)

var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	phraseStore store.PhraseStore
	srsService  srs.Service
	clock       clock.Clock
	logger      *slog.Logger
}

// NewService creates a review service. It panics if any dependency other
// than logger is nil.
func NewService(
	phraseStore store.PhraseStore,
	srsService srs.Service,
	clk clock.Clock,
	logger *slog.Logger,
) Service {
	if phraseStore == nil {
		panic("phraseStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if clk == nil {
		panic("clock cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		phraseStore: phraseStore,
		srsService:  srsService,
		clock:       clk,
		logger:      logger.With(slog.String("component", "review_service")),
	}
}

func (s *serviceImpl) DueNow(ctx context.Context) ([]*domain.Phrase, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.clock.Now()
	candidates, err := s.phraseStore.ListDue(ctx, now)
	if err != nil {
		log.Error("failed to list due phrases", slog.String("error", err.Error()))
		return nil, NewDueNowError("failed to list due phrases", err)
	}

	phrases := s.srsService.DueNow(candidates, now)
	log.Debug("retrieved due phrases", slog.Int("count", len(phrases)))
	return phrases, nil
}

func (s *serviceImpl) Review(ctx context.Context, id uuid.UUID, rawOutcome string) (*domain.Phrase, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	outcome, err := srs.ParseOutcome(rawOutcome)
	if err != nil {
		log.Warn("invalid review outcome",
			slog.String("phrase_id", id.String()),
			slog.String("outcome", rawOutcome))
		return nil, err
	}

	var reviewed *domain.Phrase
	var wasDue bool
	err = store.RunInTransaction(ctx, s.phraseStore.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.phraseStore.WithTx(tx)

		phrase, err := txStore.GetByID(ctx, id)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		wasDue = s.srsService.IsDue(phrase, now)
		next, err := s.srsService.ApplyReview(phrase, outcome, now)
		if err != nil {
			return err
		}

		if err := txStore.Update(ctx, next); err != nil {
			return err
		}
		reviewed = next
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("phrase not found for review", slog.String("phrase_id", id.String()))
			return nil, store.ErrPhraseNotFound
		}
		if errors.Is(err, srs.ErrInvalidOutcome) {
			return nil, err
		}

		log.Error("failed to record review",
			slog.String("error", err.Error()),
			slog.String("phrase_id", id.String()))
		return nil, NewReviewError("failed to record review", err)
	}

	log.Info("review recorded",
		slog.String("phrase_id", id.String()),
		slog.String("outcome", outcome.String()),
		slog.Bool("was_due", wasDue),
		slog.String("status", reviewed.Status.String()),
		slog.Time("next_review_at", reviewed.NextReviewAt))
	return reviewed, nil
}
