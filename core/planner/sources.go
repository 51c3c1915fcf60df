package planner

import (
	"context"

	"github.com/kilianp07/depotplan/core/model"
	"github.com/kilianp07/depotplan/core/optimizer"
)

// FleetSource returns the current fleet condition.
type FleetSource interface {
	Vehicles(ctx context.Context) ([]model.Vehicle, error)
}

// OptimizerSource triggers an optimizer run and returns its raw decisions.
// A payload that cannot be decoded is reported as optimizer.ErrMalformedPayload.
type OptimizerSource interface {
	Run(ctx context.Context) ([]optimizer.RawDecision, error)
}

// GeographySource lists the stations of the served line.
type GeographySource interface {
	Stations(ctx context.Context) ([]model.Station, error)
}

// DepotSource lists the stabling bays and their occupants.
type DepotSource interface {
	Bays(ctx context.Context) ([]model.Bay, error)
}

// JobCardSource lists the maintenance job cards of one vehicle.
type JobCardSource interface {
	JobCards(ctx context.Context, vehicleID string) ([]model.JobCard, error)
}

// Sources groups the collaborators. A nil source is treated as unavailable.
type Sources struct {
	Fleet     FleetSource
	Optimizer OptimizerSource
	Geography GeographySource
	Depot     DepotSource
	JobCards  JobCardSource
}
