package srs

import (
	"bytes"
	"sort"
	"time"

	"github.com/phrazzld/phrasebook/internal/domain"
)

// applyReview returns a copy of phrase with the outcome of a review at now
// applied. The input phrase is never modified.
//
// Know moves the phrase to Mastered and out of rotation. DontKnow moves it
// to Learning and defers it by params.DeferInterval. Either way the review
// time is recorded in LastReviewedAt and no other field changes.
func applyReview(
	phrase *domain.Phrase,
	outcome Outcome,
	now time.Time,
	params *Params,
) *domain.Phrase {
	next := *phrase

	reviewedAt := now.UTC()
	next.LastReviewedAt = &reviewedAt

	switch outcome {
	case Know:
		next.Status = domain.StatusMastered
		next.NextReviewAt = params.NeverDue
	case DontKnow:
		next.Status = domain.StatusLearning
		next.NextReviewAt = reviewedAt.Add(params.DeferInterval)
	}

	return &next
}

// isDue reports whether phrase belongs to the due set at now.
func isDue(phrase *domain.Phrase, now time.Time) bool {
	return phrase != nil && phrase.IsDue(now)
}

// dueNow filters phrases down to the due set and orders it by NextReviewAt,
// earliest first. Equal review times are ordered by CreatedAt and then ID,
// matching the order the stores return.
func dueNow(phrases []*domain.Phrase, now time.Time) []*domain.Phrase {
	due := make([]*domain.Phrase, 0, len(phrases))
	for _, p := range phrases {
		if isDue(p, now) {
			due = append(due, p)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i], due[j]
		if !a.NextReviewAt.Equal(b.NextReviewAt) {
			return a.NextReviewAt.Before(b.NextReviewAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})

	return due
}
