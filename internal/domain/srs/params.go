package srs

import (
	"time"

	"github.com/phrazzld/phrasebook/internal/domain"
)

// DefaultDeferInterval is how long a phrase the user did not know is
// deferred before it becomes due again.
const DefaultDeferInterval = time.Second

// Params defines the configurable parameters of the review scheduler.
type Params struct {
	// DeferInterval is added to the review time after a DontKnow outcome.
	DeferInterval time.Duration

	// NeverDue is the review time assigned after a Know outcome.
	NeverDue time.Time
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		DeferInterval: DefaultDeferInterval,
		NeverDue:      domain.NeverDue,
	}
}
