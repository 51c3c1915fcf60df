package main

import (
	"fmt"
	"time"
)

// Config holds parameters for the simulator.
type Config struct {
	Addr         string
	FleetSize    int
	Seed         int64
	HoldPct      float64
	RunPct       float64
	JobCardRate  float64
	FitnessFail  float64
	MileageMax   int
	Bays         int
	FailRate     float64
	Latency      time.Duration
	Malformed    bool
	TemplateFile string
	Verbose      bool
}

// Validate checks that ratios are probabilities and sizes are usable.
func (c *Config) Validate() error {
	if c.FleetSize <= 0 {
		return fmt.Errorf("fleet size must be positive")
	}
	for name, v := range map[string]float64{
		"hold-pct": c.HoldPct, "run-pct": c.RunPct, "jobcard-rate": c.JobCardRate,
		"fitness-fail": c.FitnessFail, "fail-rate": c.FailRate,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1]", name)
		}
	}
	if c.MileageMax <= 0 {
		return fmt.Errorf("mileage-max must be positive")
	}
	if c.Bays < 0 {
		return fmt.Errorf("bays must not be negative")
	}
	return nil
}
