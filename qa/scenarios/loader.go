// Package scenarios replays depot planning scenarios described in YAML
// against an in-memory planner.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/depotplan/core/model"
	"github.com/kilianp07/depotplan/core/optimizer"
	"github.com/kilianp07/depotplan/core/scheduler"
)

type FitnessDef struct {
	Chassis bool `yaml:"chassis"`
	Signal  bool `yaml:"signal"`
	Telecom bool `yaml:"telecom"`
}

type VehicleDef struct {
	ID           string     `yaml:"id"`
	Status       string     `yaml:"status"`
	Mileage      int        `yaml:"mileage"`
	OpenJobCards int        `yaml:"open_job_cards"`
	Fitness      FitnessDef `yaml:"fitness"`
	Bay          string     `yaml:"bay,omitempty"`
}

func (v VehicleDef) ToModel() model.Vehicle {
	st, _ := model.ParseStatus(v.Status)
	return model.Vehicle{
		ID:           v.ID,
		Status:       st,
		Mileage:      v.Mileage,
		OpenJobCards: v.OpenJobCards,
		Fitness:      model.Fitness{Chassis: v.Fitness.Chassis, Signal: v.Fitness.Signal, Telecom: v.Fitness.Telecom},
		Bay:          v.Bay,
	}
}

type DecisionDef struct {
	TrainID  string   `yaml:"train_id"`
	Decision string   `yaml:"decision"`
	Score    float64  `yaml:"score"`
	Reasons  []string `yaml:"reasons,omitempty"`
}

func (d DecisionDef) ToModel() optimizer.RawDecision {
	return optimizer.RawDecision{VehicleID: d.TrainID, Label: d.Decision, Score: d.Score, Reasons: d.Reasons}
}

type StationDef struct {
	Name     string  `yaml:"name"`
	Latitude float64 `yaml:"latitude"`
}

type BayDef struct {
	ID        string   `yaml:"id"`
	Number    int      `yaml:"number"`
	Occupants []string `yaml:"occupants"`
}

// Expected holds the assertions of a scenario. Empty maps and an empty
// origin are not checked.
type Expected struct {
	Trips       int               `yaml:"trips"`
	Ready       int               `yaml:"ready"`
	Scheduled   int               `yaml:"scheduled"`
	Origin      string            `yaml:"origin,omitempty"`
	Destination string            `yaml:"destination,omitempty"`
	Degraded    []string          `yaml:"degraded,omitempty"`
	PerVehicle  map[string]int    `yaml:"per_vehicle,omitempty"`
	Bays        map[string]string `yaml:"bays,omitempty"`
}

type Scenario struct {
	Name              string           `yaml:"name"`
	Description       string           `yaml:"description,omitempty"`
	Date              string           `yaml:"date"`
	Schedule          scheduler.Config `yaml:"schedule,omitempty"`
	SyntheticFallback bool             `yaml:"synthetic_fallback,omitempty"`
	Fleet             []VehicleDef     `yaml:"fleet"`
	Decisions         []DecisionDef    `yaml:"decisions"`
	Stations          []StationDef     `yaml:"stations"`
	Bays              []BayDef         `yaml:"bays,omitempty"`
	// Fail lists the collaborators that return an error: fleet, optimizer,
	// geography or depot.
	Fail     []string `yaml:"fail,omitempty"`
	Expected Expected `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Scenario) fails(name string) bool {
	for _, f := range s.Fail {
		if f == name {
			return true
		}
	}
	return false
}
