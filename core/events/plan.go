package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/depotplan/core/model"
)

// PlanEvent is published after each successful plan generation.
type PlanEvent struct {
	PlanID   uuid.UUID
	Date     string
	Trips    []model.ServiceTrip
	Degraded []string
	Duration time.Duration
}

// ReadinessEvent is published whenever the readiness records change.
type ReadinessEvent struct {
	Records []model.ReadinessRecord
	At      time.Time
}
