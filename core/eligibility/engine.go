// Package eligibility evaluates vehicles against the operational rules that
// gate revenue service. A violated rule is not an error: it is reported as a
// ConflictFinding and blocks the vehicle from being ready.
package eligibility

import (
	"fmt"

	"github.com/kilianp07/depotplan/core/model"
)

// DefaultMileageThresholdKM is the mileage above which maintenance is required.
const DefaultMileageThresholdKM = 20000

// Config defines the tunable rule parameters.
type Config struct {
	MileageThresholdKM int `json:"mileage_threshold_km"`
	// SyntheticFallback enables the degraded synthetic fleet when the fleet
	// source is unavailable.
	SyntheticFallback bool `json:"synthetic_fallback"`
}

// SetDefaults applies the default threshold.
func (c *Config) SetDefaults() {
	if c.MileageThresholdKM == 0 {
		c.MileageThresholdKM = DefaultMileageThresholdKM
	}
}

// Validate checks the configured values.
func (c Config) Validate() error {
	if c.MileageThresholdKM < 0 {
		return fmt.Errorf("mileage_threshold_km must not be negative")
	}
	return nil
}

// Engine runs a fixed set of rules. It holds no state between calls.
type Engine struct {
	rules []Rule
}

// NewEngine returns an engine with the standard rule set.
func NewEngine(cfg Config) *Engine {
	cfg.SetDefaults()
	return NewEngineWithRules(FitnessRule{}, JobCardRule{}, MileageRule{ThresholdKM: cfg.MileageThresholdKM})
}

// NewEngineWithRules returns an engine running the given rules in order.
func NewEngineWithRules(rules ...Rule) *Engine {
	return &Engine{rules: append([]Rule(nil), rules...)}
}

// Evaluate returns one finding per violated rule.
func (e *Engine) Evaluate(v model.Vehicle) []model.ConflictFinding {
	var out []model.ConflictFinding
	for _, r := range e.rules {
		if reason, fired := r.Check(v); fired {
			out = append(out, model.ConflictFinding{VehicleID: v.ID, Rule: r.Name(), Reason: reason})
		}
	}
	return out
}

// EvaluateFleet evaluates every vehicle and returns the findings grouped by
// vehicle id. Vehicles without findings have no entry.
func (e *Engine) EvaluateFleet(vehicles []model.Vehicle) map[string][]model.ConflictFinding {
	out := make(map[string][]model.ConflictFinding, len(vehicles))
	for _, v := range vehicles {
		if f := e.Evaluate(v); len(f) > 0 {
			out[v.ID] = append(out[v.ID], f...)
		}
	}
	return out
}

// Flatten returns all findings ordered by the vehicle order given.
func Flatten(vehicles []model.Vehicle, byVehicle map[string][]model.ConflictFinding) []model.ConflictFinding {
	var out []model.ConflictFinding
	seen := make(map[string]bool, len(vehicles))
	for _, v := range vehicles {
		if seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		out = append(out, byVehicle[v.ID]...)
	}
	return out
}
