package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/phrasebook/internal/clock"
	"github.com/phrazzld/phrasebook/internal/domain"
	"github.com/phrazzld/phrasebook/internal/platform/sqlite"
	"github.com/phrazzld/phrasebook/internal/store"
	"github.com/phrazzld/phrasebook/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var startTime = time.Date(2025, time.April, 1, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (PhraseService, *clock.Manual, store.PhraseStore) {
	t.Helper()
	clk := clock.NewManual(startTime)
	phraseStore := sqlite.NewSQLitePhraseStore(testdb.OpenSQLite(t), nil)
	svc, err := NewPhraseService(phraseStore, clk, nil)
	require.NoError(t, err)
	return svc, clk, phraseStore
}

func strPtr(s string) *string { return &s }

func TestNewPhraseService_Validation(t *testing.T) {
	_, err := NewPhraseService(nil, clock.System{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewPhraseService(&MockPhraseStore{}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreatePhrase(t *testing.T) {
	svc, _, phraseStore := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePhrase(ctx, PhraseInput{Text: " hit the sack ", Meaning: "go to bed"})
	require.NoError(t, err)
	assert.Equal(t, "hit the sack", p.Text)
	assert.Equal(t, domain.StatusNew, p.Status)
	assert.Equal(t, startTime, p.CreatedAt)
	assert.Equal(t, startTime, p.NextReviewAt)
	assert.Nil(t, p.LastReviewedAt)

	stored, err := phraseStore.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Text, stored.Text)

	_, err = svc.CreatePhrase(ctx, PhraseInput{Text: "   "})
	assert.ErrorIs(t, err, domain.ErrPhraseTextEmpty)
	assert.True(t, domain.IsValidationError(err))

	_, err = svc.CreatePhrase(ctx, PhraseInput{Text: strings.Repeat("x", domain.MaxTextLength+1)})
	assert.ErrorIs(t, err, domain.ErrPhraseTextTooLong)
}

func TestGetPhrase(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePhrase(ctx, PhraseInput{Text: "once in a blue moon"})
	require.NoError(t, err)

	got, err := svc.GetPhrase(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetPhrase(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrPhraseNotFound)
}

func TestListPhrases(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreatePhrase(ctx, PhraseInput{Text: "first", Example: "Apple pie"})
	require.NoError(t, err)
	clk.Advance(time.Minute)
	second, err := svc.CreatePhrase(ctx, PhraseInput{Text: "second"})
	require.NoError(t, err)

	_, err = svc.UpdatePhrase(ctx, second.ID, PhraseUpdate{
		PhraseInput: PhraseInput{Text: "second"},
		Status:      strPtr("Learning"),
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter ListFilter
		want   []uuid.UUID
	}{
		{"all newest first", ListFilter{}, []uuid.UUID{second.ID, first.ID}},
		{"search example", ListFilter{Search: "apple"}, []uuid.UUID{first.ID}},
		{"status", ListFilter{Status: "learning"}, []uuid.UUID{second.ID}},
		{"unknown status ignored", ListFilter{Status: "Forgotten"}, []uuid.UUID{second.ID, first.ID}},
		{"no match", ListFilter{Search: "missing"}, []uuid.UUID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListPhrases(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]uuid.UUID, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestUpdatePhrase(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces content", func(t *testing.T) {
		svc, clk, _ := newTestService(t)
		p, err := svc.CreatePhrase(ctx, PhraseInput{Text: "old", Meaning: "m"})
		require.NoError(t, err)
		clk.Advance(time.Hour)

		updated, err := svc.UpdatePhrase(ctx, p.ID, PhraseUpdate{PhraseInput: PhraseInput{Text: "new"}})
		require.NoError(t, err)
		assert.Equal(t, "new", updated.Text)
		assert.Empty(t, updated.Meaning, "omitted fields are cleared")
		assert.Equal(t, domain.StatusNew, updated.Status)
		assert.Equal(t, startTime, updated.NextReviewAt)

		got, err := svc.GetPhrase(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "new", got.Text)
	})

	t.Run("manual mastery sets never due", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		p, err := svc.CreatePhrase(ctx, PhraseInput{Text: "x"})
		require.NoError(t, err)

		updated, err := svc.UpdatePhrase(ctx, p.ID, PhraseUpdate{
			PhraseInput: PhraseInput{Text: "x"},
			Status:      strPtr("Mastered"),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusMastered, updated.Status)
		assert.Equal(t, domain.NeverDue, updated.NextReviewAt)
	})

	t.Run("leaving mastery makes phrase due", func(t *testing.T) {
		svc, clk, _ := newTestService(t)
		p, err := svc.CreatePhrase(ctx, PhraseInput{Text: "x"})
		require.NoError(t, err)
		_, err = svc.UpdatePhrase(ctx, p.ID, PhraseUpdate{PhraseInput: PhraseInput{Text: "x"}, Status: strPtr("Mastered")})
		require.NoError(t, err)

		now := clk.Advance(72 * time.Hour)
		updated, err := svc.UpdatePhrase(ctx, p.ID, PhraseUpdate{PhraseInput: PhraseInput{Text: "x"}, Status: strPtr("New")})
		require.NoError(t, err)
		assert.Equal(t, now, updated.NextReviewAt)
	})

	t.Run("blank status is ignored", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		p, err := svc.CreatePhrase(ctx, PhraseInput{Text: "x"})
		require.NoError(t, err)

		updated, err := svc.UpdatePhrase(ctx, p.ID, PhraseUpdate{PhraseInput: PhraseInput{Text: "x"}, Status: strPtr(" ")})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNew, updated.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		p, err := svc.CreatePhrase(ctx, PhraseInput{Text: "x"})
		require.NoError(t, err)

		_, err = svc.UpdatePhrase(ctx, p.ID, PhraseUpdate{PhraseInput: PhraseInput{Text: "x"}, Status: strPtr("Forgotten")})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("invalid text leaves stored phrase unchanged", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		p, err := svc.CreatePhrase(ctx, PhraseInput{Text: "keep me"})
		require.NoError(t, err)

		_, err = svc.UpdatePhrase(ctx, p.ID, PhraseUpdate{PhraseInput: PhraseInput{Text: ""}})
		assert.ErrorIs(t, err, domain.ErrPhraseTextEmpty)

		got, err := svc.GetPhrase(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "keep me", got.Text)
	})

	t.Run("missing phrase", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.UpdatePhrase(ctx, uuid.New(), PhraseUpdate{PhraseInput: PhraseInput{Text: "x"}})
		assert.ErrorIs(t, err, store.ErrPhraseNotFound)
	})
}

func TestDeletePhrase(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePhrase(ctx, PhraseInput{Text: "gone"})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePhrase(ctx, p.ID))
	_, err = svc.GetPhrase(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrPhraseNotFound)

	assert.ErrorIs(t, svc.DeletePhrase(ctx, p.ID), store.ErrPhraseNotFound)
}

func TestStats(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreatePhrase(ctx, PhraseInput{Text: "a"})
	require.NoError(t, err)
	_, err = svc.CreatePhrase(ctx, PhraseInput{Text: "b"})
	require.NoError(t, err)
	_, err = svc.UpdatePhrase(ctx, a.ID, PhraseUpdate{PhraseInput: PhraseInput{Text: "a"}, Status: strPtr("Mastered")})
	require.NoError(t, err)
	clk.Advance(time.Second)

	counts, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.StatusCounts{New: 1, Mastered: 1, Due: 1}, counts)
}

func TestExportCSV(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePhrase(ctx, PhraseInput{Text: "hello, world", Example: `she said "hi"`})
	require.NoError(t, err)
	clk.Advance(time.Minute)
	_, err = svc.CreatePhrase(ctx, PhraseInput{Text: "second"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, ListFilter{}, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, []string{"second", "", "", "", "New", "2025-04-01T08:01:00Z"}, records[1])
	assert.Equal(t, []string{"hello, world", "", `she said "hi"`, "", "New", "2025-04-01T08:00:00Z"}, records[2])

	buf.Reset()
	require.NoError(t, svc.ExportCSV(ctx, ListFilter{Search: "nothing"}, &buf))
	assert.Equal(t, "text,meaning,example,personalNote,status,createdAt\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExportCSV_WriteError(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.ExportCSV(context.Background(), ListFilter{}, failingWriter{})
	var svcErr *PhraseServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "export", svcErr.Operation)
}

func TestPhraseService_StoreFailures(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("connection refused")

	newMocked := func(t *testing.T) (PhraseService, *MockPhraseStore) {
		m := &MockPhraseStore{db: testdb.OpenSQLite(t)}
		svc, err := NewPhraseService(m, clock.NewManual(startTime), nil)
		require.NoError(t, err)
		return svc, m
	}

	t.Run("create", func(t *testing.T) {
		svc, m := newMocked(t)
		m.On("Create", mock.Anything, mock.AnythingOfType("*domain.Phrase")).Return(dbErr)

		_, err := svc.CreatePhrase(ctx, PhraseInput{Text: "x"})
		var svcErr *PhraseServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, "create_phrase", svcErr.Operation)
		assert.ErrorIs(t, err, dbErr)
		m.AssertExpectations(t)
	})

	t.Run("get", func(t *testing.T) {
		svc, m := newMocked(t)
		m.On("GetByID", mock.Anything, mock.Anything).Return(nil, dbErr)

		_, err := svc.GetPhrase(ctx, uuid.New())
		assert.ErrorIs(t, err, dbErr)
		assert.False(t, store.IsNotFoundError(err))
	})

	t.Run("list passes parsed filter", func(t *testing.T) {
		svc, m := newMocked(t)
		status := domain.StatusMastered
		m.On("List", mock.Anything, store.PhraseFilter{Search: "tea", Status: &status}).
			Return([]*domain.Phrase{}, nil)

		got, err := svc.ListPhrases(ctx, ListFilter{Search: "  tea ", Status: "MASTERED"})
		require.NoError(t, err)
		assert.Empty(t, got)
		m.AssertExpectations(t)
	})

	t.Run("update write failure", func(t *testing.T) {
		svc, m := newMocked(t)
		p, err := domain.NewPhrase(domain.PhraseContent{Text: "x"}, startTime)
		require.NoError(t, err)
		m.On("GetByID", mock.Anything, p.ID).Return(p, nil)
		m.On("Update", mock.Anything, mock.Anything).Return(dbErr)

		_, err = svc.UpdatePhrase(ctx, p.ID, PhraseUpdate{PhraseInput: PhraseInput{Text: "y"}})
		var svcErr *PhraseServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, "update_phrase", svcErr.Operation)
	})

	t.Run("stats", func(t *testing.T) {
		svc, m := newMocked(t)
		m.On("CountByStatus", mock.Anything, startTime).Return(store.StatusCounts{}, dbErr)

		_, err := svc.Stats(ctx)
		assert.ErrorIs(t, err, dbErr)
	})
}
