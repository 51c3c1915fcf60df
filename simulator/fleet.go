package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"

	"github.com/kilianp07/depotplan/core/model"
)

// fitnessRecord and fleetRecord mirror the fleet source wire format.
type fitnessRecord struct {
	Chassis bool `json:"chassis"`
	Signal  bool `json:"signal"`
	Telecom bool `json:"telecom"`
}

type fleetRecord struct {
	ID           string        `json:"id"`
	Mileage      int           `json:"mileage"`
	OpenJobCards int           `json:"openJobCards"`
	Fitness      fitnessRecord `json:"fitness"`
	Status       string        `json:"status"`
	Bay          string        `json:"bay,omitempty"`
}

type decision struct {
	TrainID  string   `json:"train_id"`
	Decision string   `json:"decision"`
	Score    float64  `json:"score"`
	Reasons  []string `json:"reasons,omitempty"`
}

// VehicleTemplate overrides generated fields of one vehicle.
type VehicleTemplate struct {
	Status       string `json:"status"`
	Mileage      *int   `json:"mileage"`
	OpenJobCards *int   `json:"openJobCards"`
}

// Depot is the synthetic state served by the simulator.
type Depot struct {
	Fleet     []fleetRecord
	Decisions []decision
	Stations  []model.Station
	Bays      []model.Bay
	JobCards  map[string][]model.JobCard
}

// line is the default corridor, south to north.
var line = []model.Station{
	{Name: "Tripunithura", Latitude: 9.9500},
	{Name: "Vyttila", Latitude: 9.9673},
	{Name: "Kadavanthra", Latitude: 9.9663},
	{Name: "MG Road", Latitude: 9.9833},
	{Name: "Kaloor", Latitude: 9.9974},
	{Name: "Edappally", Latitude: 10.0236},
	{Name: "Kalamassery", Latitude: 10.0580},
	{Name: "Aluva", Latitude: 10.1099},
}

var jobTitles = []string{"brake pad wear", "door sensor fault", "HVAC filter", "pantograph inspection", "bogie lubrication"}

// GenerateDepot creates FleetSize trainsets named TS-01..TS-NN with random
// condition, ranks them the way an optimizer would and parks them in bays.
func GenerateDepot(cfg Config, rng *rand.Rand, tmpl map[string]VehicleTemplate) Depot {
	d := Depot{Stations: append([]model.Station(nil), line...), JobCards: map[string][]model.JobCard{}}
	for i := 0; i < cfg.FleetSize; i++ {
		id := fmt.Sprintf("TS-%02d", i+1)
		rec := fleetRecord{
			ID:      id,
			Mileage: rng.Intn(cfg.MileageMax),
			Fitness: fitnessRecord{
				Chassis: rng.Float64() >= cfg.FitnessFail,
				Signal:  rng.Float64() >= cfg.FitnessFail,
				Telecom: rng.Float64() >= cfg.FitnessFail,
			},
			Status: "standby",
		}
		if rng.Float64() < cfg.HoldPct {
			rec.Status = "maintenance-hold"
		}
		if rng.Float64() < cfg.JobCardRate {
			rec.OpenJobCards = 1 + rng.Intn(3)
		}
		if t, ok := tmpl[id]; ok {
			if t.Status != "" {
				rec.Status = t.Status
			}
			if t.Mileage != nil {
				rec.Mileage = *t.Mileage
			}
			if t.OpenJobCards != nil {
				rec.OpenJobCards = *t.OpenJobCards
			}
		}
		for j := 0; j < rec.OpenJobCards; j++ {
			d.JobCards[id] = append(d.JobCards[id], model.JobCard{
				ID:        fmt.Sprintf("JC-%s-%d", id, j+1),
				VehicleID: id,
				Title:     jobTitles[rng.Intn(len(jobTitles))],
				Status:    "open",
				Priority:  []string{"low", "medium", "high"}[rng.Intn(3)],
			})
		}
		d.Fleet = append(d.Fleet, rec)
	}
	d.Decisions = rank(d.Fleet, cfg)
	d.Bays = park(d.Fleet, cfg.Bays)
	return d
}

// rank scores every vehicle and marks the best RunPct share of the
// serviceable ones for revenue service.
func rank(fleet []fleetRecord, cfg Config) []decision {
	out := make([]decision, 0, len(fleet))
	for _, v := range fleet {
		score := 1 - float64(v.Mileage)/float64(cfg.MileageMax) - 0.2*float64(v.OpenJobCards)
		out = append(out, decision{TrainID: v.ID, Decision: "STANDBY", Score: score})
	}
	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return out[order[a]].Score > out[order[b]].Score })
	quota := int(float64(len(fleet)) * cfg.RunPct)
	for _, i := range order {
		v := fleet[i]
		switch {
		case v.Status == "maintenance-hold":
			out[i].Decision = "HOLD"
			out[i].Reasons = []string{"maintenance hold"}
		case quota > 0 && v.OpenJobCards == 0:
			out[i].Decision = "RUN"
			out[i].Reasons = []string{"low wear"}
			quota--
		}
	}
	return out
}

// park distributes vehicles over n bays, two per bay, leaving the rest on
// their own stabling lines.
func park(fleet []fleetRecord, n int) []model.Bay {
	bays := make([]model.Bay, n)
	for i := range bays {
		bays[i] = model.Bay{BayID: fmt.Sprintf("B%d", i+1), BayNumber: i + 1, OccupantIDs: []string{}}
	}
	for i, v := range fleet {
		if b := i / 2; b < n {
			bays[b].OccupantIDs = append(bays[b].OccupantIDs, v.ID)
		}
	}
	return bays
}

// LoadTemplates decodes per-vehicle overrides keyed by vehicle id.
func LoadTemplates(data []byte) (map[string]VehicleTemplate, error) {
	var m map[string]VehicleTemplate
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
