package events

import "time"

// Source names a planner collaborator.
type Source string

const (
	SourceFleet     Source = "fleet"
	SourceOptimizer Source = "optimizer"
	SourceGeography Source = "geography"
	SourceDepot     Source = "depot"
	SourceState     Source = "state"
)

// FallbackEvent is emitted when a collaborator fails and the planner
// substitutes its documented fallback. Fallback describes what was used.
type FallbackEvent struct {
	Source   Source
	Fallback string
	Err      error
	At       time.Time
}
