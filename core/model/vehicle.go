package model

import "strings"

// Status is the lifecycle status reported by the fleet source.
type Status string

const (
	StatusRun             Status = "run"
	StatusStandby         Status = "standby"
	StatusMaintenanceHold Status = "maintenance-hold"
)

// ParseStatus maps a fleet status label to a Status. Labels that cannot be
// recognised map to StatusMaintenanceHold so that a vehicle with an unknown
// state is never reported as ready.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "run", "revenue", "in-service", "in_service":
		return StatusRun, true
	case "standby", "stand-by":
		return StatusStandby, true
	case "maintenance-hold", "maintenance_hold", "maintenance", "hold", "ibl":
		return StatusMaintenanceHold, true
	default:
		return StatusMaintenanceHold, false
	}
}

// Fitness groups the three independent certificates a vehicle needs for
// revenue service.
type Fitness struct {
	Chassis bool `json:"chassis"`
	Signal  bool `json:"signal"`
	Telecom bool `json:"telecom"`
}

// Failed returns the names of the certificates that are not valid.
func (f Fitness) Failed() []string {
	var out []string
	if !f.Chassis {
		out = append(out, "chassis")
	}
	if !f.Signal {
		out = append(out, "signal")
	}
	if !f.Telecom {
		out = append(out, "telecom")
	}
	return out
}

// Vehicle is the read-only view of a trainset as reported by the fleet source.
type Vehicle struct {
	ID            string  `json:"id"`
	Status        Status  `json:"status"`
	Mileage       int     `json:"mileage"`        // km
	OpenJobCards  int     `json:"open_job_cards"` // >= 0
	Fitness       Fitness `json:"fitness"`
	Bay           string  `json:"bay,omitempty"`
	ConflictCount int     `json:"conflict_count"`

	// Missing lists the source fields that were absent from the record the
	// vehicle was decoded from. Rules treat missing data conservatively.
	Missing []string `json:"missing,omitempty"`
}

// IsMissing reports whether the named source field was absent.
func (v Vehicle) IsMissing(field string) bool {
	for _, m := range v.Missing {
		if m == field {
			return true
		}
	}
	return false
}

// Bay is a depot stabling position and the vehicles currently parked on it.
type Bay struct {
	BayID       string   `json:"bayId"`
	BayNumber   int      `json:"bayNumber"`
	OccupantIDs []string `json:"occupantVehicleIds"`
}

// Holds reports whether the bay currently owns the vehicle.
func (b Bay) Holds(vehicleID string) bool {
	for _, id := range b.OccupantIDs {
		if id == vehicleID {
			return true
		}
	}
	return false
}

// Station is a stop on the corridor. Only the latitude is used to pick the
// corridor endpoints.
type Station struct {
	Name     string  `json:"name"`
	Latitude float64 `json:"latitude"`
}

// JobCard is an open maintenance item shown in the readiness drill-down.
type JobCard struct {
	ID        string `json:"id"`
	VehicleID string `json:"vehicleId"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Priority  string `json:"priority,omitempty"`
}
