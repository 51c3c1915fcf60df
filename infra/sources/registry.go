package sources

import (
	"fmt"

	"github.com/kilianp07/depotplan/core/factory"
	"github.com/kilianp07/depotplan/core/planner"
)

// Config selects one implementation per collaborator. A zero entry leaves the
// collaborator unset and the planner degrades as if it were unavailable.
type Config struct {
	Fleet     factory.ModuleConfig `json:"fleet"`
	Optimizer factory.ModuleConfig `json:"optimizer"`
	Geography factory.ModuleConfig `json:"geography"`
	Depot     factory.ModuleConfig `json:"depot"`
	JobCards  factory.ModuleConfig `json:"jobcards"`
}

var (
	fleetRegistry     = factory.NewRegistry[planner.FleetSource]()
	optimizerRegistry = factory.NewRegistry[planner.OptimizerSource]()
	geographyRegistry = factory.NewRegistry[planner.GeographySource]()
	depotRegistry     = factory.NewRegistry[planner.DepotSource]()
	jobCardRegistry   = factory.NewRegistry[planner.JobCardSource]()
)

func httpFactory[T any, S any](build func(HTTPConfig) (S, error), wrap func(S) T) factory.Factory[T] {
	return func(m map[string]any) (T, error) {
		var zero T
		var cfg HTTPConfig
		if err := factory.Decode(m, &cfg); err != nil {
			return zero, err
		}
		s, err := build(cfg)
		if err != nil {
			return zero, err
		}
		return wrap(s), nil
	}
}

func fileFactory[T any](build func(FileConfig) T) factory.Factory[T] {
	return func(m map[string]any) (T, error) {
		var zero T
		var cfg FileConfig
		if err := factory.Decode(m, &cfg); err != nil {
			return zero, err
		}
		if cfg.Path == "" {
			return zero, fmt.Errorf("path is required")
		}
		return build(cfg), nil
	}
}

func init() {
	fleetRegistry.MustRegister("http", httpFactory(NewHTTPFleet, func(s *HTTPFleet) planner.FleetSource { return s }))
	fleetRegistry.MustRegister("file", fileFactory(func(c FileConfig) planner.FleetSource { return NewFileFleet(c) }))

	optimizerRegistry.MustRegister("http", httpFactory(NewHTTPOptimizer, func(s *HTTPOptimizer) planner.OptimizerSource { return s }))
	optimizerRegistry.MustRegister("file", fileFactory(func(c FileConfig) planner.OptimizerSource { return NewFileOptimizer(c) }))

	geographyRegistry.MustRegister("http", httpFactory(NewHTTPGeography, func(s *HTTPGeography) planner.GeographySource { return s }))
	geographyRegistry.MustRegister("file", fileFactory(func(c FileConfig) planner.GeographySource { return NewFileGeography(c) }))

	depotRegistry.MustRegister("http", httpFactory(NewHTTPDepot, func(s *HTTPDepot) planner.DepotSource { return s }))
	depotRegistry.MustRegister("file", fileFactory(func(c FileConfig) planner.DepotSource { return NewFileDepot(c) }))

	jobCardRegistry.MustRegister("http", httpFactory(NewHTTPJobCards, func(s *HTTPJobCards) planner.JobCardSource { return s }))
	jobCardRegistry.MustRegister("file", fileFactory(func(c FileConfig) planner.JobCardSource { return NewFileJobCards(c) }))
}

// Types lists the implementation names accepted for every collaborator.
func Types() []string { return fleetRegistry.Types() }

// Build instantiates the configured collaborators.
func Build(cfg Config) (planner.Sources, error) {
	var (
		out planner.Sources
		err error
	)
	if !cfg.Fleet.IsZero() {
		if out.Fleet, err = fleetRegistry.Create(cfg.Fleet); err != nil {
			return out, fmt.Errorf("fleet source: %w", err)
		}
	}
	if !cfg.Optimizer.IsZero() {
		if out.Optimizer, err = optimizerRegistry.Create(cfg.Optimizer); err != nil {
			return out, fmt.Errorf("optimizer source: %w", err)
		}
	}
	if !cfg.Geography.IsZero() {
		if out.Geography, err = geographyRegistry.Create(cfg.Geography); err != nil {
			return out, fmt.Errorf("geography source: %w", err)
		}
	}
	if !cfg.Depot.IsZero() {
		if out.Depot, err = depotRegistry.Create(cfg.Depot); err != nil {
			return out, fmt.Errorf("depot source: %w", err)
		}
	}
	if !cfg.JobCards.IsZero() {
		if out.JobCards, err = jobCardRegistry.Create(cfg.JobCards); err != nil {
			return out, fmt.Errorf("job card source: %w", err)
		}
	}
	return out, nil
}
