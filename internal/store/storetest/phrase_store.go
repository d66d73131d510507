// Package storetest holds the behavioural test suite every store.PhraseStore
// implementation must pass.
package storetest

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/phrasebook/internal/domain"
	"github.com/phrazzld/phrasebook/internal/domain/srs"
	"github.com/phrazzld/phrasebook/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty, migrated phrase store for a single test.
type Factory func(t *testing.T) store.PhraseStore

var baseTime = time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

// NewTestPhrase builds a valid phrase created at createdAt.
func NewTestPhrase(t *testing.T, text string, createdAt time.Time) *domain.Phrase {
	t.Helper()
	p, err := domain.NewPhrase(domain.PhraseContent{Text: text}, createdAt)
	require.NoError(t, err)
	return p
}

// RunPhraseStoreTests runs the full suite against stores built by newStore.
func RunPhraseStoreTests(t *testing.T, newStore Factory) {
	t.Run("CreateAndGet", func(t *testing.T) { testCreateAndGet(t, newStore(t)) })
	t.Run("CreateDuplicate", func(t *testing.T) { testCreateDuplicate(t, newStore(t)) })
	t.Run("CreateInvalid", func(t *testing.T) { testCreateInvalid(t, newStore(t)) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, newStore(t)) })
	t.Run("ListNewestFirst", func(t *testing.T) { testListNewestFirst(t, newStore(t)) })
	t.Run("ListSearch", func(t *testing.T) { testListSearch(t, newStore(t)) })
	t.Run("ListStatus", func(t *testing.T) { testListStatus(t, newStore(t)) })
	t.Run("ListDue", func(t *testing.T) { testListDue(t, newStore(t)) })
	t.Run("CountByStatus", func(t *testing.T) { testCountByStatus(t, newStore(t)) })
	t.Run("Update", func(t *testing.T) { testUpdate(t, newStore(t)) })
	t.Run("UpdateMissing", func(t *testing.T) { testUpdateMissing(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("TransactionRollback", func(t *testing.T) { testTransactionRollback(t, newStore(t)) })
	t.Run("TransactionCommit", func(t *testing.T) { testTransactionCommit(t, newStore(t)) })
}

func mustCreate(t *testing.T, s store.PhraseStore, p *domain.Phrase) *domain.Phrase {
	t.Helper()
	require.NoError(t, s.Create(context.Background(), p))
	return p
}

func ids(phrases []*domain.Phrase) []uuid.UUID {
	out := make([]uuid.UUID, len(phrases))
	for i, p := range phrases {
		out[i] = p.ID
	}
	return out
}

func testCreateAndGet(t *testing.T, s store.PhraseStore) {
	ctx := context.Background()

	p, err := domain.NewPhrase(domain.PhraseContent{
		Text:         "bite the bullet",
		Meaning:      "face something unpleasant",
		Example:      "I bit the bullet and called them.",
		PersonalNote: "heard at work",
	}, baseTime)
	require.NoError(t, err)
	mustCreate(t, s, p)

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Text, got.Text)
	assert.Equal(t, p.Meaning, got.Meaning)
	assert.Equal(t, p.Example, got.Example)
	assert.Equal(t, p.PersonalNote, got.PersonalNote)
	assert.Equal(t, domain.StatusNew, got.Status)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, p.NextReviewAt.Equal(got.NextReviewAt))
	assert.Nil(t, got.LastReviewedAt)

	// Absent optional fields read back as empty.
	bare := mustCreate(t, s, NewTestPhrase(t, "bare", baseTime))
	got, err = s.GetByID(ctx, bare.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Meaning)
	assert.Empty(t, got.Example)
	assert.Empty(t, got.PersonalNote)
}

func testCreateDuplicate(t *testing.T, s store.PhraseStore) {
	p := mustCreate(t, s, NewTestPhrase(t, "twice", baseTime))

	err := s.Create(context.Background(), p)
	assert.ErrorIs(t, err, store.ErrPhraseExists)
	assert.True(t, store.IsDuplicateError(err))
}

func testCreateInvalid(t *testing.T, s store.PhraseStore) {
	p := NewTestPhrase(t, "valid", baseTime)
	p.Text = ""

	err := s.Create(context.Background(), p)
	assert.ErrorIs(t, err, domain.ErrValidation)

	all, err := s.List(context.Background(), store.PhraseFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testGetMissing(t *testing.T, s store.PhraseStore) {
	_, err := s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrPhraseNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func testListNewestFirst(t *testing.T, s store.PhraseStore) {
	ctx := context.Background()

	all, err := s.List(ctx, store.PhraseFilter{})
	require.NoError(t, err)
	assert.NotNil(t, all, "empty result is a non-nil slice")
	assert.Empty(t, all)

	oldest := mustCreate(t, s, NewTestPhrase(t, "oldest", baseTime))
	newest := mustCreate(t, s, NewTestPhrase(t, "newest", baseTime.Add(2*time.Hour)))
	middle := mustCreate(t, s, NewTestPhrase(t, "middle", baseTime.Add(time.Hour)))

	all, err = s.List(ctx, store.PhraseFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{newest.ID, middle.ID, oldest.ID}, ids(all))
}

func testListSearch(t *testing.T, s store.PhraseStore) {
	ctx := context.Background()

	byText := mustCreate(t, s, NewTestPhrase(t, "Spill the Beans", baseTime))

	byMeaning, err := domain.NewPhrase(domain.PhraseContent{Text: "let the cat out", Meaning: "reveal a secret by accident"}, baseTime.Add(time.Minute))
	require.NoError(t, err)
	mustCreate(t, s, byMeaning)

	byNote, err := domain.NewPhrase(domain.PhraseContent{Text: "under wraps", PersonalNote: "opposite of SECRET reveal"}, baseTime.Add(2*time.Minute))
	require.NoError(t, err)
	mustCreate(t, s, byNote)

	mustCreate(t, s, NewTestPhrase(t, "unrelated", baseTime.Add(3*time.Minute)))

	tests := []struct {
		search string
		want   []uuid.UUID
	}{
		{"beans", []uuid.UUID{byText.ID}},
		{"SPILL", []uuid.UUID{byText.ID}},
		{"secret", []uuid.UUID{byNote.ID, byMeaning.ID}},
		{"accident", []uuid.UUID{byMeaning.ID}},
		{"%", []uuid.UUID{}},
		{"zzz", []uuid.UUID{}},
	}
	for _, tt := range tests {
		got, err := s.List(ctx, store.PhraseFilter{Search: tt.search})
		require.NoError(t, err, tt.search)
		assert.Equal(t, tt.want, ids(got), "search %q", tt.search)
	}
}

func testListStatus(t *testing.T, s store.PhraseStore) {
	ctx := context.Background()

	fresh := mustCreate(t, s, NewTestPhrase(t, "fresh", baseTime))

	learning := NewTestPhrase(t, "learning", baseTime.Add(time.Minute))
	learning.Status = domain.StatusLearning
	mustCreate(t, s, learning)

	mastered := NewTestPhrase(t, "mastered", baseTime.Add(2*time.Minute))
	mastered.Status = domain.StatusMastered
	mastered.NextReviewAt = domain.NeverDue
	mustCreate(t, s, mastered)

	status := domain.StatusLearning
	got, err := s.List(ctx, store.PhraseFilter{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{learning.ID}, ids(got))

	status = domain.StatusNew
	got, err = s.List(ctx, store.PhraseFilter{Status: &status, Search: "fre"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{fresh.ID}, ids(got))

	status = domain.StatusMastered
	got, err = s.List(ctx, store.PhraseFilter{Status: &status, Search: "fresh"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testListDue(t *testing.T, s store.PhraseStore) {
	ctx := context.Background()
	now := baseTime.Add(24 * time.Hour)

	// created later but scheduled earlier
	early := NewTestPhrase(t, "early", baseTime.Add(time.Hour))
	early.Status = domain.StatusLearning
	early.NextReviewAt = baseTime.Add(-time.Hour)
	mustCreate(t, s, early)

	fresh := mustCreate(t, s, NewTestPhrase(t, "fresh", baseTime))

	exact := NewTestPhrase(t, "exactly now", baseTime.Add(2*time.Hour))
	exact.Status = domain.StatusLearning
	exact.NextReviewAt = now
	mustCreate(t, s, exact)

	future := NewTestPhrase(t, "future", baseTime)
	future.Status = domain.StatusLearning
	future.NextReviewAt = now.Add(time.Second)
	mustCreate(t, s, future)

	mastered := NewTestPhrase(t, "mastered", baseTime)
	mastered.Status = domain.StatusMastered
	mastered.NextReviewAt = domain.NeverDue
	mustCreate(t, s, mastered)

	// Mastered rows are excluded by status, not only by their sentinel time.
	oddMastered := NewTestPhrase(t, "mastered with past time", baseTime)
	oddMastered.Status = domain.StatusMastered
	mustCreate(t, s, oddMastered)

	got, err := s.ListDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{early.ID, fresh.ID, exact.ID}, ids(got))

	for _, p := range got {
		assert.True(t, p.IsDue(now), p.Text)
	}

	all, err := s.List(ctx, store.PhraseFilter{})
	require.NoError(t, err)
	assert.Equal(t, ids(srs.NewDefaultService().DueNow(all, now)), ids(got))

	got, err = s.ListDue(ctx, baseTime.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func testCountByStatus(t *testing.T, s store.PhraseStore) {
	ctx := context.Background()
	now := baseTime.Add(time.Hour)

	counts, err := s.CountByStatus(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, store.StatusCounts{}, counts)

	mustCreate(t, s, NewTestPhrase(t, "a", baseTime))
	mustCreate(t, s, NewTestPhrase(t, "b", baseTime))

	learning := NewTestPhrase(t, "c", baseTime)
	learning.Status = domain.StatusLearning
	learning.NextReviewAt = now.Add(time.Minute)
	mustCreate(t, s, learning)

	mastered := NewTestPhrase(t, "d", baseTime)
	mastered.Status = domain.StatusMastered
	mastered.NextReviewAt = domain.NeverDue
	mustCreate(t, s, mastered)

	counts, err = s.CountByStatus(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, store.StatusCounts{New: 2, Learning: 1, Mastered: 1, Due: 2}, counts)
	assert.Equal(t, 4, counts.Total())
}

func testUpdate(t *testing.T, s store.PhraseStore) {
	ctx := context.Background()

	p := mustCreate(t, s, NewTestPhrase(t, "before", baseTime))

	reviewed := baseTime.Add(time.Hour)
	p.Text = "after"
	p.Meaning = "changed"
	p.Status = domain.StatusMastered
	p.LastReviewedAt = &reviewed
	p.NextReviewAt = domain.NeverDue
	require.NoError(t, s.Update(ctx, p))

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Text)
	assert.Equal(t, "changed", got.Meaning)
	assert.Equal(t, domain.StatusMastered, got.Status)
	require.NotNil(t, got.LastReviewedAt)
	assert.True(t, reviewed.Equal(*got.LastReviewedAt))
	assert.True(t, domain.NeverDue.Equal(got.NextReviewAt))
	assert.True(t, baseTime.Equal(got.CreatedAt), "created time is immutable")

	// Clearing an optional field stores it as absent.
	p.Meaning = ""
	require.NoError(t, s.Update(ctx, p))
	got, err = s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Meaning)
}

func testUpdateMissing(t *testing.T, s store.PhraseStore) {
	err := s.Update(context.Background(), NewTestPhrase(t, "ghost", baseTime))
	assert.ErrorIs(t, err, store.ErrPhraseNotFound)
}

func testDelete(t *testing.T, s store.PhraseStore) {
	ctx := context.Background()

	p := mustCreate(t, s, NewTestPhrase(t, "doomed", baseTime))
	require.NoError(t, s.Delete(ctx, p.ID))

	_, err := s.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrPhraseNotFound)

	err = s.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrPhraseNotFound)
}

var errAbort = errors.New("abort")

func testTransactionRollback(t *testing.T, s store.PhraseStore) {
	ctx := context.Background()
	p := NewTestPhrase(t, "rolled back", baseTime)

	err := store.RunInTransaction(ctx, s.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.WithTx(tx)
		require.NoError(t, txStore.Create(ctx, p))

		got, err := txStore.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Text, got.Text)
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	_, err = s.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrPhraseNotFound)
}

func testTransactionCommit(t *testing.T, s store.PhraseStore) {
	ctx := context.Background()
	p := mustCreate(t, s, NewTestPhrase(t, "original", baseTime))

	err := store.RunInTransaction(ctx, s.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.WithTx(tx)
		got, err := txStore.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		got.Text = "edited"
		return txStore.Update(ctx, got)
	})
	require.NoError(t, err)

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)
}
