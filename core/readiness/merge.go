// Package readiness merges rule findings, optimizer decisions, the generated
// timetable and depot occupancy into one record per vehicle.
package readiness

import (
	"time"

	"github.com/kilianp07/depotplan/core/model"
)

// NoBay is reported when no bay holds the vehicle.
const NoBay = "-"

// Inputs are the sources of one merge. Merge never mutates them.
type Inputs struct {
	Vehicles  []model.Vehicle
	Conflicts []model.ConflictFinding
	Decisions []model.CanonicalDecision
	Trips     []model.ServiceTrip
	Bays      []model.Bay
}

// Merge returns one ReadinessRecord per vehicle in input order.
//
// A vehicle is ready when it is not on maintenance hold, no rule finding
// applies and the fleet source reports no open conflict.
// It is scheduled when a run decision with a non-negative score exists. The
// first-out time is its earliest departure in Trips.
func Merge(in Inputs) []model.ReadinessRecord {
	conflicts := make(map[string][]model.ConflictFinding)
	for _, c := range in.Conflicts {
		conflicts[c.VehicleID] = append(conflicts[c.VehicleID], c)
	}
	decisions := indexDecisions(in.Decisions)
	firstOut := make(map[string]time.Time)
	for _, t := range in.Trips {
		if cur, ok := firstOut[t.VehicleID]; !ok || t.Departure.Before(cur) {
			firstOut[t.VehicleID] = t.Departure
		}
	}

	out := make([]model.ReadinessRecord, 0, len(in.Vehicles))
	for _, v := range in.Vehicles {
		cs := append([]model.ConflictFinding{}, conflicts[v.ID]...)
		rec := model.ReadinessRecord{
			VehicleID: v.ID,
			Status:    v.Status,
			Bay:       bayFor(v, in.Bays),
			Conflicts: cs,
			IsReady:   v.Status != model.StatusMaintenanceHold && len(cs) == 0 && v.ConflictCount == 0,
		}
		if d, ok := decisions[v.ID]; ok {
			rec.IsScheduled = d.Schedulable()
			rec.Action = d.Action.String()
			rec.Score = d.Score
			if len(d.Reasons) > 0 {
				rec.Reasons = append([]string(nil), d.Reasons...)
			}
		}
		if t, ok := firstOut[v.ID]; ok {
			t := t
			rec.FirstOut = &t
		}
		out = append(out, rec)
	}
	return out
}

// indexDecisions keeps, per vehicle, the first schedulable decision or, when
// there is none, the first decision.
func indexDecisions(ds []model.CanonicalDecision) map[string]model.CanonicalDecision {
	idx := make(map[string]model.CanonicalDecision, len(ds))
	for _, d := range ds {
		cur, ok := idx[d.VehicleID]
		if !ok || (!cur.Schedulable() && d.Schedulable()) {
			idx[d.VehicleID] = d
		}
	}
	return idx
}

func bayFor(v model.Vehicle, bays []model.Bay) string {
	for _, b := range bays {
		if b.Holds(v.ID) {
			return b.BayID
		}
	}
	if v.Bay != "" {
		return v.Bay
	}
	return NoBay
}

// Counts tallies readiness states.
type Counts struct {
	Total     int `json:"total"`
	Ready     int `json:"ready"`
	Blocked   int `json:"blocked"`
	Scheduled int `json:"scheduled"`
}

// Count returns the readiness counts of recs.
func Count(recs []model.ReadinessRecord) Counts {
	c := Counts{Total: len(recs)}
	for _, r := range recs {
		if r.IsReady {
			c.Ready++
		} else {
			c.Blocked++
		}
		if r.IsScheduled {
			c.Scheduled++
		}
	}
	return c
}
