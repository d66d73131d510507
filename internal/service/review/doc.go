// Package review implements the review workflow: listing the phrases that
// are due and recording the outcome of a single review.
//
// Scheduling decisions are delegated to srs.Service; this package only
// loads the phrase, applies the transition and saves the result inside a
// single transaction.
package review
