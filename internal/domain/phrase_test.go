package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func TestNewPhrase(t *testing.T) {
	t.Parallel()

	phrase, err := NewPhrase(PhraseContent{
		Text:         "  break the ice ",
		Meaning:      " start a conversation ",
		PersonalNote: "   ",
	}, testNow)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, phrase.ID)
	assert.Equal(t, "break the ice", phrase.Text)
	assert.Equal(t, "start a conversation", phrase.Meaning)
	assert.Empty(t, phrase.Example)
	assert.Empty(t, phrase.PersonalNote, "blank optional fields are absent")
	assert.Equal(t, StatusNew, phrase.Status)
	assert.Equal(t, testNow, phrase.CreatedAt)
	assert.Equal(t, testNow, phrase.NextReviewAt, "a new phrase is immediately due")
	assert.Nil(t, phrase.LastReviewedAt)
	assert.True(t, phrase.IsDue(testNow))
}

func TestNewPhrase_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content PhraseContent
		field   string
		wantErr error
	}{
		{
			name:    "empty text",
			content: PhraseContent{Text: ""},
			field:   "text",
			wantErr: ErrPhraseTextEmpty,
		},
		{
			name:    "whitespace text",
			content: PhraseContent{Text: " \t\n "},
			field:   "text",
			wantErr: ErrPhraseTextEmpty,
		},
		{
			name:    "text too long",
			content: PhraseContent{Text: strings.Repeat("a", MaxTextLength+1)},
			field:   "text",
			wantErr: ErrPhraseTextTooLong,
		},
		{
			name:    "meaning too long",
			content: PhraseContent{Text: "ok", Meaning: strings.Repeat("m", MaxNoteLength+1)},
			field:   "meaning",
			wantErr: ErrPhraseNoteTooLong,
		},
		{
			name:    "example too long",
			content: PhraseContent{Text: "ok", Example: strings.Repeat("e", MaxNoteLength+1)},
			field:   "example",
			wantErr: ErrPhraseNoteTooLong,
		},
		{
			name:    "note too long",
			content: PhraseContent{Text: "ok", PersonalNote: strings.Repeat("n", MaxNoteLength+1)},
			field:   "personalNote",
			wantErr: ErrPhraseNoteTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			phrase, err := NewPhrase(tt.content, testNow)
			require.Error(t, err)
			assert.Nil(t, phrase)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
			assert.True(t, IsValidationError(err))

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestNewPhrase_LengthCountsCharacters(t *testing.T) {
	t.Parallel()

	// 500 multi-byte characters is within the limit even though it is
	// well over 500 bytes.
	text := strings.Repeat("é", MaxTextLength)
	phrase, err := NewPhrase(PhraseContent{Text: text}, testNow)
	require.NoError(t, err)
	assert.Equal(t, text, phrase.Text)

	_, err = NewPhrase(PhraseContent{Text: text + "é"}, testNow)
	assert.ErrorIs(t, err, ErrPhraseTextTooLong)
}

func TestPhraseValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Phrase {
		p, err := NewPhrase(PhraseContent{Text: "on the fence"}, testNow)
		require.NoError(t, err)
		return p
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("nil id", func(t *testing.T) {
		p := valid()
		p.ID = uuid.Nil
		assert.ErrorIs(t, p.Validate(), ErrPhraseIDEmpty)
	})

	t.Run("zero status", func(t *testing.T) {
		p := valid()
		p.Status = PhraseStatus{}
		assert.ErrorIs(t, p.Validate(), ErrInvalidStatus)
	})
}

func TestPhraseIsDue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status PhraseStatus
		next   time.Time
		want   bool
	}{
		{"new in past", StatusNew, testNow.Add(-time.Hour), true},
		{"learning exactly now", StatusLearning, testNow, true},
		{"learning in future", StatusLearning, testNow.Add(time.Second), false},
		{"mastered in past", StatusMastered, testNow.Add(-time.Hour), false},
		{"mastered never due", StatusMastered, NeverDue, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Phrase{Status: tt.status, NextReviewAt: tt.next}
			assert.Equal(t, tt.want, p.IsDue(testNow))
		})
	}
}

func TestPhraseEdit(t *testing.T) {
	t.Parallel()

	later := testNow.Add(48 * time.Hour)
	mastered := StatusMastered
	learning := StatusLearning

	t.Run("content only keeps schedule", func(t *testing.T) {
		p, err := NewPhrase(PhraseContent{Text: "old"}, testNow)
		require.NoError(t, err)

		err = p.Edit(PhraseContent{Text: " new ", Meaning: "m"}, nil, later)
		require.NoError(t, err)
		assert.Equal(t, "new", p.Text)
		assert.Equal(t, "m", p.Meaning)
		assert.Equal(t, StatusNew, p.Status)
		assert.Equal(t, testNow, p.NextReviewAt)
	})

	t.Run("into mastered sets never due", func(t *testing.T) {
		p, err := NewPhrase(PhraseContent{Text: "x"}, testNow)
		require.NoError(t, err)

		require.NoError(t, p.Edit(p.Content(), &mastered, later))
		assert.Equal(t, StatusMastered, p.Status)
		assert.Equal(t, NeverDue, p.NextReviewAt)
		assert.False(t, p.IsDue(later))
	})

	t.Run("out of mastered becomes due", func(t *testing.T) {
		p, err := NewPhrase(PhraseContent{Text: "x"}, testNow)
		require.NoError(t, err)
		p.Status = StatusMastered
		p.NextReviewAt = NeverDue

		require.NoError(t, p.Edit(p.Content(), &learning, later))
		assert.Equal(t, StatusLearning, p.Status)
		assert.Equal(t, later, p.NextReviewAt)
		assert.True(t, p.IsDue(later))
	})

	t.Run("same status keeps schedule", func(t *testing.T) {
		p, err := NewPhrase(PhraseContent{Text: "x"}, testNow)
		require.NoError(t, err)
		p.Status = StatusLearning
		p.NextReviewAt = later

		require.NoError(t, p.Edit(p.Content(), &learning, testNow))
		assert.Equal(t, later, p.NextReviewAt)
	})

	t.Run("invalid content leaves phrase untouched", func(t *testing.T) {
		p, err := NewPhrase(PhraseContent{Text: "keep"}, testNow)
		require.NoError(t, err)
		before := *p

		err = p.Edit(PhraseContent{Text: "  "}, &mastered, later)
		assert.ErrorIs(t, err, ErrPhraseTextEmpty)
		assert.Equal(t, before, *p)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		p, err := NewPhrase(PhraseContent{Text: "keep"}, testNow)
		require.NoError(t, err)

		err = p.Edit(p.Content(), &PhraseStatus{}, later)
		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Equal(t, StatusNew, p.Status)
	})
}
