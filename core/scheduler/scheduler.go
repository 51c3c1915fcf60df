// Package scheduler builds the daily timetable. Departures are laid out at a
// fixed headway over the service window, vehicles are assigned to slots by a
// SlotAssignmentPolicy and directions alternate along the corridor. All
// functions are pure: the same inputs produce the same trips.
package scheduler

import (
	"sort"
	"time"

	"github.com/kilianp07/depotplan/core/model"
)

// Params are the inputs of one timetable assembly.
type Params struct {
	Date         time.Time
	Vehicles     []model.CanonicalDecision
	Origin       string
	Destination  string
	Headway      time.Duration
	TripDuration time.Duration
	ServiceStart time.Duration // offset from midnight
	ServiceEnd   time.Duration // offset from midnight, inclusive
}

// NewParams builds Params from the configuration.
func NewParams(cfg Config, date time.Time, vehicles []model.CanonicalDecision, c Corridor) (Params, error) {
	cfg.SetDefaults()
	start, end, err := cfg.Window()
	if err != nil {
		return Params{}, err
	}
	return Params{
		Date:         date,
		Vehicles:     vehicles,
		Origin:       c.Origin,
		Destination:  c.Destination,
		Headway:      cfg.Headway(),
		TripDuration: cfg.TripDuration(),
		ServiceStart: start,
		ServiceEnd:   end,
	}, nil
}

// Slots returns the departure instants from start up to and including end.
// It is empty when end precedes start or the headway is not positive.
func Slots(date time.Time, start, end, headway time.Duration) []time.Time {
	if headway <= 0 || end < start {
		return nil
	}
	n := int((end-start)/headway) + 1
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, clockOn(date, start+time.Duration(i)*headway))
	}
	return out
}

// clockOn returns the wall-clock time offset from midnight of date's day in
// date's location.
func clockOn(date time.Time, offset time.Duration) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, int(offset/time.Second), 0, date.Location())
}

// Assemble produces the trips for one service day. It never fails: invalid
// parameters and an empty vehicle list produce an empty, non-nil plan. A nil
// policy defaults to RoundRobin.
func Assemble(p Params, policy SlotAssignmentPolicy) []model.ServiceTrip {
	trips := []model.ServiceTrip{}
	if len(p.Vehicles) == 0 {
		return trips
	}
	if policy == nil {
		policy = RoundRobin{}
	}
	slots := Slots(p.Date, p.ServiceStart, p.ServiceEnd, p.Headway)
	date := p.Date.Format(model.DateLayout)
	for _, a := range policy.Assign(slots, p.Vehicles) {
		from, to := p.Origin, p.Destination
		if !a.Outbound {
			from, to = to, from
		}
		trips = append(trips, model.ServiceTrip{
			Date:        date,
			VehicleID:   a.VehicleID,
			Origin:      from,
			Destination: to,
			Departure:   a.Departure,
			Arrival:     a.Departure.Add(p.TripDuration),
			Status:      model.TripScheduled,
		})
	}
	sort.SliceStable(trips, func(i, j int) bool { return trips[i].Departure.Before(trips[j].Departure) })
	return trips
}

// SelectRunVehicles returns the decisions eligible for service: action run
// with a non-negative score. Order is preserved and a vehicle listed more than
// once keeps its first decision.
func SelectRunVehicles(decisions []model.CanonicalDecision) []model.CanonicalDecision {
	out := make([]model.CanonicalDecision, 0, len(decisions))
	seen := make(map[string]bool, len(decisions))
	for _, d := range decisions {
		if !d.Schedulable() || seen[d.VehicleID] {
			continue
		}
		seen[d.VehicleID] = true
		out = append(out, d)
	}
	return out
}
