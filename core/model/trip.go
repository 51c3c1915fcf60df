package model

import "time"

// DateLayout is the plan date format used on the wire.
const DateLayout = "2006-01-02"

// TripStatus describes the lifecycle of a generated trip.
type TripStatus string

const TripScheduled TripStatus = "scheduled"

// ServiceTrip is one timetabled departure of one vehicle.
type ServiceTrip struct {
	Date        string     `json:"date"`
	VehicleID   string     `json:"vehicle_id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Departure   time.Time  `json:"departure"`
	Arrival     time.Time  `json:"arrival"`
	Status      TripStatus `json:"status"`
}

// ReadinessRecord is the merged per-vehicle view served to operators.
type ReadinessRecord struct {
	VehicleID   string            `json:"vehicle_id"`
	Status      Status            `json:"status"`
	Bay         string            `json:"bay"`
	Conflicts   []ConflictFinding `json:"conflicts"`
	IsReady     bool              `json:"is_ready"`
	IsScheduled bool              `json:"is_scheduled"`
	Action      string            `json:"action,omitempty"`
	Score       float64           `json:"score"`
	Reasons     []string          `json:"reasons,omitempty"`
	FirstOut    *time.Time        `json:"first_out,omitempty"`
}
