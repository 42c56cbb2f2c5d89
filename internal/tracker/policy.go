package tracker

import "github.com/akyairhashvil/worktime/internal/models"

// Policy holds the behaviour switches of a registry.
type Policy struct {
	// Exclusive stops every other running timer when one is started.
	Exclusive bool
	// Tick selects live (commit on stop) or fold (commit every tick).
	Tick models.TickMode
}

// DefaultPolicy is one active timer at a time with live ticking.
func DefaultPolicy() Policy {
	return Policy{Exclusive: true, Tick: models.TickLive}
}
