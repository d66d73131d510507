package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/phrasebook/internal/domain"
	"github.com/phrazzld/phrasebook/internal/platform/logger"
	"github.com/phrazzld/phrasebook/internal/store"
)

const phraseColumns = `id, text, meaning, example, personal_note, status,
	created_at, last_reviewed_at, next_review_at`

// PostgresPhraseStore implements the store.PhraseStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPhraseStore struct {
	db     *sql.DB
	dbtx   store.DBTX
	logger *slog.Logger
}

// NewPostgresPhraseStore creates a new PostgreSQL implementation of the PhraseStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresPhraseStore(db *sql.DB, logger *slog.Logger) *PostgresPhraseStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPhraseStore{
		db:     db,
		dbtx:   db,
		logger: logger.With(slog.String("component", "phrase_store")),
	}
}

// Ensure PostgresPhraseStore implements store.PhraseStore interface
var _ store.PhraseStore = (*PostgresPhraseStore)(nil)

// WithTx implements store.PhraseStore.WithTx
func (s *PostgresPhraseStore) WithTx(tx *sql.Tx) store.PhraseStore {
	return &PostgresPhraseStore{
		db:     s.db,
		dbtx:   tx,
		logger: s.logger,
	}
}

// DB implements store.PhraseStore.DB
func (s *PostgresPhraseStore) DB() *sql.DB {
	return s.db
}

// Create implements store.PhraseStore.Create
func (s *PostgresPhraseStore) Create(ctx context.Context, phrase *domain.Phrase) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := phrase.Validate(); err != nil {
		log.Warn("phrase validation failed during create",
			slog.String("error", err.Error()),
			slog.String("phrase_id", phrase.ID.String()))
		return err
	}

	query := `
		INSERT INTO phrases (` + phraseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.dbtx.ExecContext(ctx, query,
		phrase.ID,
		phrase.Text,
		nullString(phrase.Meaning),
		nullString(phrase.Example),
		nullString(phrase.PersonalNote),
		phrase.Status,
		phrase.CreatedAt.UTC(),
		nullTime(phrase.LastReviewedAt),
		phrase.NextReviewAt.UTC(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", store.ErrPhraseExists, phrase.ID)
		}
		log.Error("failed to create phrase",
			slog.String("error", err.Error()),
			slog.String("phrase_id", phrase.ID.String()))
		return phraseError("create", err)
	}

	log.Debug("phrase created", slog.String("phrase_id", phrase.ID.String()))
	return nil
}

// GetByID implements store.PhraseStore.GetByID
func (s *PostgresPhraseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Phrase, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + phraseColumns + ` FROM phrases WHERE id = $1`

	phrase, err := scanPhrase(s.dbtx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("phrase not found", slog.String("phrase_id", id.String()))
			return nil, store.ErrPhraseNotFound
		}
		log.Error("failed to get phrase by ID",
			slog.String("error", err.Error()),
			slog.String("phrase_id", id.String()))
		return nil, phraseError("get", err)
	}

	return phrase, nil
}

// List implements store.PhraseStore.List
func (s *PostgresPhraseStore) List(ctx context.Context, filter store.PhraseFilter) ([]*domain.Phrase, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var status any
	if filter.Status != nil {
		status = filter.Status.String()
	}

	query := `
		SELECT ` + phraseColumns + `
		FROM phrases
		WHERE ($1::text = ''
			OR strpos(lower(text), lower($1::text)) > 0
			OR strpos(lower(coalesce(meaning, '')), lower($1::text)) > 0
			OR strpos(lower(coalesce(example, '')), lower($1::text)) > 0
			OR strpos(lower(coalesce(personal_note, '')), lower($1::text)) > 0)
		AND ($2::text IS NULL OR status = $2::text)
		ORDER BY created_at DESC, id
	`
	phrases, err := s.query(ctx, "list", query, filter.Search, status)
	if err != nil {
		log.Error("failed to list phrases", slog.String("error", err.Error()))
		return nil, err
	}
	return phrases, nil
}

// ListDue implements store.PhraseStore.ListDue
func (s *PostgresPhraseStore) ListDue(ctx context.Context, now time.Time) ([]*domain.Phrase, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + phraseColumns + `
		FROM phrases
		WHERE status <> $1 AND next_review_at <= $2
		ORDER BY next_review_at ASC, created_at ASC, id
	`
	phrases, err := s.query(ctx, "list_due", query, domain.StatusMastered, now.UTC())
	if err != nil {
		log.Error("failed to list due phrases", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed due phrases", slog.Int("count", len(phrases)))
	return phrases, nil
}

// CountByStatus implements store.PhraseStore.CountByStatus
func (s *PostgresPhraseStore) CountByStatus(ctx context.Context, now time.Time) (store.StatusCounts, error) {
	query := `
		SELECT
			count(*) FILTER (WHERE status = 'New'),
			count(*) FILTER (WHERE status = 'Learning'),
			count(*) FILTER (WHERE status = 'Mastered'),
			count(*) FILTER (WHERE status <> 'Mastered' AND next_review_at <= $1)
		FROM phrases
	`
	var c store.StatusCounts
	err := s.dbtx.QueryRowContext(ctx, query, now.UTC()).Scan(&c.New, &c.Learning, &c.Mastered, &c.Due)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count phrases",
			slog.String("error", err.Error()))
		return store.StatusCounts{}, phraseError("count", err)
	}
	return c, nil
}

// Update implements store.PhraseStore.Update
func (s *PostgresPhraseStore) Update(ctx context.Context, phrase *domain.Phrase) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := phrase.Validate(); err != nil {
		log.Warn("phrase validation failed during update",
			slog.String("error", err.Error()),
			slog.String("phrase_id", phrase.ID.String()))
		return err
	}

	query := `
		UPDATE phrases
		SET text = $1, meaning = $2, example = $3, personal_note = $4, status = $5,
			last_reviewed_at = $6, next_review_at = $7
		WHERE id = $8
	`
	result, err := s.dbtx.ExecContext(ctx, query,
		phrase.Text,
		nullString(phrase.Meaning),
		nullString(phrase.Example),
		nullString(phrase.PersonalNote),
		phrase.Status,
		nullTime(phrase.LastReviewedAt),
		phrase.NextReviewAt.UTC(),
		phrase.ID,
	)
	if err != nil {
		log.Error("failed to update phrase",
			slog.String("error", err.Error()),
			slog.String("phrase_id", phrase.ID.String()))
		return phraseError("update", err)
	}

	if err := CheckRowsAffected(result, store.ErrPhraseNotFound); err != nil {
		return err
	}

	log.Debug("phrase updated",
		slog.String("phrase_id", phrase.ID.String()),
		slog.String("status", phrase.Status.String()))
	return nil
}

// Delete implements store.PhraseStore.Delete
func (s *PostgresPhraseStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.dbtx.ExecContext(ctx, `DELETE FROM phrases WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete phrase",
			slog.String("error", err.Error()),
			slog.String("phrase_id", id.String()))
		return phraseError("delete", err)
	}

	if err := CheckRowsAffected(result, store.ErrPhraseNotFound); err != nil {
		return err
	}

	log.Debug("phrase deleted", slog.String("phrase_id", id.String()))
	return nil
}

func (s *PostgresPhraseStore) query(ctx context.Context, op, query string, args ...any) ([]*domain.Phrase, error) {
	rows, err := s.dbtx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, phraseError(op, err)
	}
	defer func() { _ = rows.Close() }()

	phrases := make([]*domain.Phrase, 0)
	for rows.Next() {
		p, err := scanPhrase(rows)
		if err != nil {
			return nil, phraseError(op, err)
		}
		phrases = append(phrases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, phraseError(op, err)
	}
	return phrases, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhrase(row rowScanner) (*domain.Phrase, error) {
	var (
		p                      domain.Phrase
		meaning, example, note sql.NullString
		lastReviewed           sql.NullTime
	)
	if err := row.Scan(
		&p.ID,
		&p.Text,
		&meaning,
		&example,
		&note,
		&p.Status,
		&p.CreatedAt,
		&lastReviewed,
		&p.NextReviewAt,
	); err != nil {
		return nil, err
	}

	p.Meaning = meaning.String
	p.Example = example.String
	p.PersonalNote = note.String
	p.CreatedAt = p.CreatedAt.UTC()
	p.NextReviewAt = p.NextReviewAt.UTC()
	if lastReviewed.Valid {
		t := lastReviewed.Time.UTC()
		p.LastReviewedAt = &t
	}
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
