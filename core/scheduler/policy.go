package scheduler

import (
	"time"

	"github.com/kilianp07/depotplan/core/model"
)

// Assignment binds one departure slot to one vehicle and a direction.
type Assignment struct {
	Slot      int
	Departure time.Time
	VehicleID string
	// Outbound trips run origin to destination, the others run back.
	Outbound bool
}

// SlotAssignmentPolicy decides which vehicle serves each departure slot.
// Implementations must be deterministic and must not assign one vehicle to
// two slots with the same departure.
type SlotAssignmentPolicy interface {
	Assign(slots []time.Time, vehicles []model.CanonicalDecision) []Assignment
}

// RoundRobin cycles through the vehicles in the given order and alternates
// direction on every slot. Every slot is filled while vehicles exist and each
// vehicle serves floor(S/N) or ceil(S/N) slots.
type RoundRobin struct{}

func (RoundRobin) Assign(slots []time.Time, vehicles []model.CanonicalDecision) []Assignment {
	if len(vehicles) == 0 || len(slots) == 0 {
		return nil
	}
	out := make([]Assignment, len(slots))
	for i, dep := range slots {
		out[i] = Assignment{
			Slot:      i,
			Departure: dep,
			VehicleID: vehicles[i%len(vehicles)].VehicleID,
			Outbound:  i%2 == 0,
		}
	}
	return out
}
