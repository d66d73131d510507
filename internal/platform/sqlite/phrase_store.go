package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/phrasebook/internal/domain"
	"github.com/phrazzld/phrasebook/internal/platform/logger"
	"github.com/phrazzld/phrasebook/internal/store"
)

const phraseColumns = `id, text, meaning, example, personal_note, status,
	created_at, last_reviewed_at, next_review_at`

// SQLitePhraseStore implements store.PhraseStore on SQLite.
type SQLitePhraseStore struct {
	db     *sql.DB
	dbtx   store.DBTX
	logger *slog.Logger
}

// NewSQLitePhraseStore creates a SQLite implementation of the PhraseStore interface.
// If logger is nil, a default logger will be used.
func NewSQLitePhraseStore(db *sql.DB, logger *slog.Logger) *SQLitePhraseStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLitePhraseStore{
		db:     db,
		dbtx:   db,
		logger: logger.With(slog.String("component", "phrase_store"), slog.String("engine", "sqlite")),
	}
}

var _ store.PhraseStore = (*SQLitePhraseStore)(nil)

// WithTx implements store.PhraseStore.WithTx
func (s *SQLitePhraseStore) WithTx(tx *sql.Tx) store.PhraseStore {
	return &SQLitePhraseStore{
		db:     s.db,
		dbtx:   tx,
		logger: s.logger,
	}
}

// DB implements store.PhraseStore.DB
func (s *SQLitePhraseStore) DB() *sql.DB {
	return s.db
}

// Create implements store.PhraseStore.Create
func (s *SQLitePhraseStore) Create(ctx context.Context, phrase *domain.Phrase) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := phrase.Validate(); err != nil {
		log.Warn("phrase validation failed during create",
			slog.String("error", err.Error()),
			slog.String("phrase_id", phrase.ID.String()))
		return err
	}

	query := `INSERT INTO phrases (` + phraseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.dbtx.ExecContext(ctx, query,
		phrase.ID.String(),
		phrase.Text,
		nullString(phrase.Meaning),
		nullString(phrase.Example),
		nullString(phrase.PersonalNote),
		phrase.Status.String(),
		formatTime(phrase.CreatedAt),
		nullTime(phrase.LastReviewedAt),
		formatTime(phrase.NextReviewAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
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
func (s *SQLitePhraseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Phrase, error) {
	query := `SELECT ` + phraseColumns + ` FROM phrases WHERE id = ?`

	phrase, err := scanPhrase(s.dbtx.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPhraseNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get phrase by ID",
			slog.String("error", err.Error()),
			slog.String("phrase_id", id.String()))
		return nil, phraseError("get", err)
	}
	return phrase, nil
}

// List implements store.PhraseStore.List
func (s *SQLitePhraseStore) List(ctx context.Context, filter store.PhraseFilter) ([]*domain.Phrase, error) {
	var (
		where []string
		args  []any
	)

	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		where = append(where, `(instr(`+foldFunction+`(text), ?) > 0
			OR instr(`+foldFunction+`(coalesce(meaning, '')), ?) > 0
			OR instr(`+foldFunction+`(coalesce(example, '')), ?) > 0
			OR instr(`+foldFunction+`(coalesce(personal_note, '')), ?) > 0)`)
		args = append(args, needle, needle, needle, needle)
	}
	if filter.Status != nil {
		where = append(where, `status = ?`)
		args = append(args, filter.Status.String())
	}

	query := `SELECT ` + phraseColumns + ` FROM phrases`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	phrases, err := s.query(ctx, "list", query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list phrases",
			slog.String("error", err.Error()))
		return nil, err
	}
	return phrases, nil
}

// ListDue implements store.PhraseStore.ListDue
func (s *SQLitePhraseStore) ListDue(ctx context.Context, now time.Time) ([]*domain.Phrase, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + phraseColumns + `
		FROM phrases
		WHERE status <> ? AND next_review_at <= ?
		ORDER BY next_review_at ASC, created_at ASC, id
	`
	phrases, err := s.query(ctx, "list_due", query, domain.StatusMastered.String(), formatTime(now))
	if err != nil {
		log.Error("failed to list due phrases", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed due phrases", slog.Int("count", len(phrases)))
	return phrases, nil
}

// CountByStatus implements store.PhraseStore.CountByStatus
func (s *SQLitePhraseStore) CountByStatus(ctx context.Context, now time.Time) (store.StatusCounts, error) {
	query := `
		SELECT
			coalesce(sum(CASE WHEN status = 'New' THEN 1 ELSE 0 END), 0),
			coalesce(sum(CASE WHEN status = 'Learning' THEN 1 ELSE 0 END), 0),
			coalesce(sum(CASE WHEN status = 'Mastered' THEN 1 ELSE 0 END), 0),
			coalesce(sum(CASE WHEN status <> 'Mastered' AND next_review_at <= ? THEN 1 ELSE 0 END), 0)
		FROM phrases
	`
	var c store.StatusCounts
	err := s.dbtx.QueryRowContext(ctx, query, formatTime(now)).Scan(&c.New, &c.Learning, &c.Mastered, &c.Due)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count phrases",
			slog.String("error", err.Error()))
		return store.StatusCounts{}, phraseError("count", err)
	}
	return c, nil
}

// Update implements store.PhraseStore.Update
func (s *SQLitePhraseStore) Update(ctx context.Context, phrase *domain.Phrase) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := phrase.Validate(); err != nil {
		log.Warn("phrase validation failed during update",
			slog.String("error", err.Error()),
			slog.String("phrase_id", phrase.ID.String()))
		return err
	}

	query := `
		UPDATE phrases
		SET text = ?, meaning = ?, example = ?, personal_note = ?, status = ?,
			last_reviewed_at = ?, next_review_at = ?
		WHERE id = ?
	`
	result, err := s.dbtx.ExecContext(ctx, query,
		phrase.Text,
		nullString(phrase.Meaning),
		nullString(phrase.Example),
		nullString(phrase.PersonalNote),
		phrase.Status.String(),
		nullTime(phrase.LastReviewedAt),
		formatTime(phrase.NextReviewAt),
		phrase.ID.String(),
	)
	if err != nil {
		log.Error("failed to update phrase",
			slog.String("error", err.Error()),
			slog.String("phrase_id", phrase.ID.String()))
		return phraseError("update", err)
	}

	if err := checkRowsAffected(result, store.ErrPhraseNotFound); err != nil {
		return err
	}

	log.Debug("phrase updated",
		slog.String("phrase_id", phrase.ID.String()),
		slog.String("status", phrase.Status.String()))
	return nil
}

// Delete implements store.PhraseStore.Delete
func (s *SQLitePhraseStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.dbtx.ExecContext(ctx, `DELETE FROM phrases WHERE id = ?`, id.String())
	if err != nil {
		log.Error("failed to delete phrase",
			slog.String("error", err.Error()),
			slog.String("phrase_id", id.String()))
		return phraseError("delete", err)
	}

	if err := checkRowsAffected(result, store.ErrPhraseNotFound); err != nil {
		return err
	}

	log.Debug("phrase deleted", slog.String("phrase_id", id.String()))
	return nil
}

func (s *SQLitePhraseStore) query(ctx context.Context, op, query string, args ...any) ([]*domain.Phrase, error) {
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
		id, status             string
		meaning, example, note sql.NullString
		createdAt, nextReview  string
		lastReviewed           sql.NullString
	)
	if err := row.Scan(
		&id,
		&p.Text,
		&meaning,
		&example,
		&note,
		&status,
		&createdAt,
		&lastReviewed,
		&nextReview,
	); err != nil {
		return nil, err
	}

	var err error
	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid stored phrase id %q: %w", id, err)
	}
	if p.Status, err = domain.ParsePhraseStatus(status); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.NextReviewAt, err = parseTime(nextReview); err != nil {
		return nil, err
	}
	if lastReviewed.Valid {
		t, err := parseTime(lastReviewed.String)
		if err != nil {
			return nil, err
		}
		p.LastReviewedAt = &t
	}

	p.Meaning = meaning.String
	p.Example = example.String
	p.PersonalNote = note.String
	return &p, nil
}
