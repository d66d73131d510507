package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// MaxTextLength is the maximum number of characters in a phrase's text.
	MaxTextLength = 500

	// MaxNoteLength is the maximum number of characters in each of the
	// optional meaning, example and personal note fields.
	MaxNoteLength = 1000
)

// NeverDue is the sentinel review time assigned to mastered phrases.
// It is later than any instant a real clock will report.
var NeverDue = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// Phrase-specific validation errors
var (
	// ErrPhraseIDEmpty is returned when a phrase ID is nil.
	ErrPhraseIDEmpty = errors.New("phrase ID cannot be empty")

	// ErrPhraseTextEmpty is returned when a phrase's text is blank after trimming.
	ErrPhraseTextEmpty = errors.New("phrase text cannot be empty")

	// ErrPhraseTextTooLong is returned when a phrase's text exceeds MaxTextLength.
	ErrPhraseTextTooLong = errors.New("phrase text is too long")

	// ErrPhraseNoteTooLong is returned when an optional field exceeds MaxNoteLength.
	ErrPhraseNoteTooLong = errors.New("phrase field is too long")
)

// PhraseContent holds the user-editable text fields of a phrase.
// An empty optional field means the value is absent.
type PhraseContent struct {
	Text         string
	Meaning      string
	Example      string
	PersonalNote string
}

// Normalize trims surrounding whitespace from every field.
func (c PhraseContent) Normalize() PhraseContent {
	return PhraseContent{
		Text:         strings.TrimSpace(c.Text),
		Meaning:      strings.TrimSpace(c.Meaning),
		Example:      strings.TrimSpace(c.Example),
		PersonalNote: strings.TrimSpace(c.PersonalNote),
	}
}

// Validate checks the content against the length limits. Content is expected
// to be normalized first.
func (c PhraseContent) Validate() error {
	if c.Text == "" {
		return NewValidationError("text", "is required", ErrPhraseTextEmpty)
	}
	if utf8.RuneCountInString(c.Text) > MaxTextLength {
		return NewValidationError("text", "must be at most 500 characters", ErrPhraseTextTooLong)
	}

	optional := []struct {
		field string
		value string
	}{
		{"meaning", c.Meaning},
		{"example", c.Example},
		{"personalNote", c.PersonalNote},
	}
	for _, f := range optional {
		if utf8.RuneCountInString(f.value) > MaxNoteLength {
			return NewValidationError(f.field, "must be at most 1000 characters", ErrPhraseNoteTooLong)
		}
	}

	return nil
}

// Phrase is a word or expression the user is learning, together with its
// review schedule.
type Phrase struct {
	ID             uuid.UUID
	Text           string
	Meaning        string
	Example        string
	PersonalNote   string
	Status         PhraseStatus
	CreatedAt      time.Time
	LastReviewedAt *time.Time
	NextReviewAt   time.Time
}

// NewPhrase creates a phrase in the New status that is immediately due.
// The content is normalized before validation.
func NewPhrase(content PhraseContent, now time.Time) (*Phrase, error) {
	content = content.Normalize()
	if err := content.Validate(); err != nil {
		return nil, err
	}

	now = now.UTC()
	return &Phrase{
		ID:           uuid.New(),
		Text:         content.Text,
		Meaning:      content.Meaning,
		Example:      content.Example,
		PersonalNote: content.PersonalNote,
		Status:       StatusNew,
		CreatedAt:    now,
		NextReviewAt: now,
	}, nil
}

// Validate checks that the phrase holds a consistent set of values.
func (p *Phrase) Validate() error {
	if p.ID == uuid.Nil {
		return NewValidationError("id", "is required", ErrPhraseIDEmpty)
	}
	if err := p.Content().Validate(); err != nil {
		return err
	}
	if !p.Status.Valid() {
		return NewValidationError("status", "is invalid", ErrInvalidStatus)
	}
	return nil
}

// Content returns the editable fields of the phrase.
func (p *Phrase) Content() PhraseContent {
	return PhraseContent{
		Text:         p.Text,
		Meaning:      p.Meaning,
		Example:      p.Example,
		PersonalNote: p.PersonalNote,
	}
}

// IsDue reports whether the phrase should be presented for review at now.
func (p *Phrase) IsDue(now time.Time) bool {
	return p.Status.Reviewable() && !p.NextReviewAt.After(now)
}

// Edit replaces the phrase content and, when status is non-nil, its status.
//
// A manual change into Mastered sets NextReviewAt to NeverDue. A manual
// change out of Mastered makes the phrase due at now. The receiver is left
// untouched when validation fails.
func (p *Phrase) Edit(content PhraseContent, status *PhraseStatus, now time.Time) error {
	content = content.Normalize()
	if err := content.Validate(); err != nil {
		return err
	}
	if status != nil && !status.Valid() {
		return NewValidationError("status", "is invalid", ErrInvalidStatus)
	}

	p.Text = content.Text
	p.Meaning = content.Meaning
	p.Example = content.Example
	p.PersonalNote = content.PersonalNote

	if status != nil && *status != p.Status {
		switch {
		case *status == StatusMastered:
			p.NextReviewAt = NeverDue
		case p.Status == StatusMastered:
			p.NextReviewAt = now.UTC()
		}
		p.Status = *status
	}

	return nil
}
