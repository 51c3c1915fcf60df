package scenarios

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/depotplan/core/eligibility"
	"github.com/kilianp07/depotplan/core/events"
	"github.com/kilianp07/depotplan/core/model"
	"github.com/kilianp07/depotplan/core/optimizer"
	"github.com/kilianp07/depotplan/core/planner"
	"github.com/kilianp07/depotplan/infra/logger"
	"github.com/kilianp07/depotplan/infra/metrics"
	"github.com/kilianp07/depotplan/internal/eventbus"
)

var errUnavailable = errors.New("scenario: source unavailable")

type scenarioSources struct{ sc *Scenario }

func (s scenarioSources) Vehicles(context.Context) ([]model.Vehicle, error) {
	if s.sc.fails(string(events.SourceFleet)) {
		return nil, errUnavailable
	}
	out := make([]model.Vehicle, len(s.sc.Fleet))
	for i, v := range s.sc.Fleet {
		out[i] = v.ToModel()
	}
	return out, nil
}

func (s scenarioSources) Run(context.Context) ([]optimizer.RawDecision, error) {
	if s.sc.fails(string(events.SourceOptimizer)) {
		return nil, errUnavailable
	}
	out := make([]optimizer.RawDecision, len(s.sc.Decisions))
	for i, d := range s.sc.Decisions {
		out[i] = d.ToModel()
	}
	return out, nil
}

func (s scenarioSources) Stations(context.Context) ([]model.Station, error) {
	if s.sc.fails(string(events.SourceGeography)) {
		return nil, errUnavailable
	}
	out := make([]model.Station, len(s.sc.Stations))
	for i, st := range s.sc.Stations {
		out[i] = model.Station{Name: st.Name, Latitude: st.Latitude}
	}
	return out, nil
}

func (s scenarioSources) Bays(context.Context) ([]model.Bay, error) {
	if s.sc.fails(string(events.SourceDepot)) {
		return nil, errUnavailable
	}
	out := make([]model.Bay, len(s.sc.Bays))
	for i, b := range s.sc.Bays {
		out[i] = model.Bay{BayID: b.ID, BayNumber: b.Number, OccupantIDs: b.Occupants}
	}
	return out, nil
}

// RunScenario generates the scenario's plan and checks its expectations.
func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	src := scenarioSources{sc: sc}
	p, err := planner.New(planner.Options{
		Schedule:    sc.Schedule,
		Eligibility: eligibility.Config{SyntheticFallback: sc.SyntheticFallback},
		Sources:     planner.Sources{Fleet: src, Optimizer: src, Geography: src, Depot: src},
		Metrics:     sink,
		Bus:         eventbus.New(),
		Logger:      logger.NopLogger{},
	})
	if err != nil {
		t.Fatalf("planner: %v", err)
	}
	date, err := planner.ParseDate(sc.Date, p.Location())
	if err != nil {
		t.Fatalf("date: %v", err)
	}
	plan, err := p.GeneratePlan(context.Background(), date)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	exp := sc.Expected
	if len(plan.Trips) != exp.Trips {
		t.Errorf("scenario %s expected %d trips, got %d", sc.Name, exp.Trips, len(plan.Trips))
	}
	ready, scheduled := 0, 0
	bays := map[string]string{}
	for _, r := range plan.Readiness {
		if r.IsReady {
			ready++
		}
		if r.IsScheduled {
			scheduled++
		}
		bays[r.VehicleID] = r.Bay
	}
	if ready != exp.Ready || scheduled != exp.Scheduled {
		t.Errorf("scenario %s expected ready=%d scheduled=%d, got %d/%d", sc.Name, exp.Ready, exp.Scheduled, ready, scheduled)
	}
	if exp.Origin != "" && (plan.Origin != exp.Origin || plan.Destination != exp.Destination) {
		t.Errorf("scenario %s expected corridor %s->%s, got %s->%s", sc.Name, exp.Origin, exp.Destination, plan.Origin, plan.Destination)
	}
	if len(exp.Degraded) > 0 || len(plan.Degraded) > 0 {
		if !reflect.DeepEqual(plan.Degraded, exp.Degraded) {
			t.Errorf("scenario %s expected degraded %v, got %v", sc.Name, exp.Degraded, plan.Degraded)
		}
	}
	if n, err := testutil.GatherAndCount(reg, "planner_fallbacks_total"); err != nil || n != len(exp.Degraded) {
		t.Errorf("scenario %s expected %d fallback series, got %d (%v)", sc.Name, len(exp.Degraded), n, err)
	}
	for id, n := range exp.PerVehicle {
		if got := plan.Summary.TripsPerVehicle[id]; got != n {
			t.Errorf("scenario %s expected %d trips for %s, got %d", sc.Name, n, id, got)
		}
	}
	for id, bay := range exp.Bays {
		if bays[id] != bay {
			t.Errorf("scenario %s expected %s in bay %s, got %s", sc.Name, id, bay, bays[id])
		}
	}
}
