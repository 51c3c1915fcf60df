package scheduler

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/depotplan/core/model"
)

// Summary describes how the trips of a plan are spread over the vehicles.
type Summary struct {
	Trips           int            `json:"trips"`
	Vehicles        int            `json:"vehicles"`
	TripsPerVehicle map[string]int `json:"trips_per_vehicle"`
	MeanTrips       float64        `json:"mean_trips"`
	StdDevTrips     float64        `json:"stddev_trips"`
	MinTrips        int            `json:"min_trips"`
	MaxTrips        int            `json:"max_trips"`
	FirstDeparture  *time.Time     `json:"first_departure,omitempty"`
	LastArrival     *time.Time     `json:"last_arrival,omitempty"`
}

// Summarize computes the Summary of trips.
func Summarize(trips []model.ServiceTrip) Summary {
	s := Summary{Trips: len(trips), TripsPerVehicle: map[string]int{}}
	if len(trips) == 0 {
		return s
	}
	first, last := trips[0].Departure, trips[0].Arrival
	for _, t := range trips {
		s.TripsPerVehicle[t.VehicleID]++
		if t.Departure.Before(first) {
			first = t.Departure
		}
		if t.Arrival.After(last) {
			last = t.Arrival
		}
	}
	s.FirstDeparture, s.LastArrival = &first, &last
	s.Vehicles = len(s.TripsPerVehicle)

	ids := make([]string, 0, len(s.TripsPerVehicle))
	for id := range s.TripsPerVehicle {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	counts := make([]float64, len(ids))
	for i, id := range ids {
		counts[i] = float64(s.TripsPerVehicle[id])
	}
	s.MinTrips = int(floats.Min(counts))
	s.MaxTrips = int(floats.Max(counts))
	if len(counts) == 1 {
		s.MeanTrips = counts[0]
		return s
	}
	s.MeanTrips, s.StdDevTrips = stat.MeanStdDev(counts, nil)
	return s
}
