package api

import (
	"strings"
	"time"

	"github.com/phrazzld/phrasebook/internal/domain"
	"github.com/phrazzld/phrasebook/internal/generation"
	"github.com/phrazzld/phrasebook/internal/service"
	"github.com/phrazzld/phrasebook/internal/store"
)

// PhraseRequest defines the payload for creating a phrase. Optional fields
// may be omitted, null or blank. Length limits apply to the trimmed values.
type PhraseRequest struct {
	Text         string  `json:"text"         validate:"max=500"`
	Meaning      *string `json:"meaning"      validate:"omitempty,max=1000"`
	Example      *string `json:"example"      validate:"omitempty,max=1000"`
	PersonalNote *string `json:"personalNote" validate:"omitempty,max=1000"`
}

func (r *PhraseRequest) normalize() {
	r.Text = strings.TrimSpace(r.Text)
	trimPtr(r.Meaning)
	trimPtr(r.Example)
	trimPtr(r.PersonalNote)
}

func (r PhraseRequest) input() service.PhraseInput {
	return service.PhraseInput{
		Text:         r.Text,
		Meaning:      deref(r.Meaning),
		Example:      deref(r.Example),
		PersonalNote: deref(r.PersonalNote),
	}
}

// UpdatePhraseRequest defines the payload for replacing a phrase.
type UpdatePhraseRequest struct {
	PhraseRequest
	Status *string `json:"status"`
}

func (r *AutofillRequest) normalize() {
	r.Text = strings.TrimSpace(r.Text)
}

// ReviewRequest defines the payload for recording a review.
type ReviewRequest struct {
	Action string `json:"action"`
}

// AutofillRequest defines the payload for the autofill endpoint.
type AutofillRequest struct {
	Text string `json:"text" validate:"max=500"`
}

// PhraseResponse is the wire form of a phrase. Absent optional fields are null.
type PhraseResponse struct {
	ID             string     `json:"id"`
	Text           string     `json:"text"`
	Meaning        *string    `json:"meaning"`
	Example        *string    `json:"example"`
	PersonalNote   *string    `json:"personalNote"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastReviewedAt *time.Time `json:"lastReviewedAt"`
	NextReviewAt   time.Time  `json:"nextReviewAt"`
}

// StatsResponse reports phrase counts.
type StatsResponse struct {
	New      int `json:"new"`
	Learning int `json:"learning"`
	Mastered int `json:"mastered"`
	Total    int `json:"total"`
	Due      int `json:"due"`
}

// SuggestionResponse is the autofill result.
type SuggestionResponse = generation.Suggestion

func phraseToResponse(p *domain.Phrase) PhraseResponse {
	resp := PhraseResponse{
		ID:           p.ID.String(),
		Text:         p.Text,
		Meaning:      optional(p.Meaning),
		Example:      optional(p.Example),
		PersonalNote: optional(p.PersonalNote),
		Status:       p.Status.String(),
		CreatedAt:    p.CreatedAt.UTC(),
		NextReviewAt: p.NextReviewAt.UTC(),
	}
	if p.LastReviewedAt != nil {
		t := p.LastReviewedAt.UTC()
		resp.LastReviewedAt = &t
	}
	return resp
}

func phrasesToResponse(phrases []*domain.Phrase) []PhraseResponse {
	out := make([]PhraseResponse, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, phraseToResponse(p))
	}
	return out
}

func statsToResponse(c store.StatusCounts) StatsResponse {
	return StatsResponse{
		New:      c.New,
		Learning: c.Learning,
		Mastered: c.Mastered,
		Total:    c.Total(),
		Due:      c.Due,
	}
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
