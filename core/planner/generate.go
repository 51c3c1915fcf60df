package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/depotplan/core/eligibility"
	"github.com/kilianp07/depotplan/core/events"
	"github.com/kilianp07/depotplan/core/metrics"
	"github.com/kilianp07/depotplan/core/model"
	"github.com/kilianp07/depotplan/core/monitoring"
	"github.com/kilianp07/depotplan/core/optimizer"
	"github.com/kilianp07/depotplan/core/planlog"
	"github.com/kilianp07/depotplan/core/readiness"
	"github.com/kilianp07/depotplan/core/scheduler"
	"github.com/kilianp07/depotplan/core/state"
)

// Fallback descriptions reported with each degradation.
const (
	FallbackEmptyFleet     = "empty fleet"
	FallbackSyntheticFleet = "synthetic fleet"
	FallbackLastResults    = "last persisted results"
	FallbackNoResults      = "no optimizer results"
	FallbackUnknownStops   = "unknown endpoints"
	FallbackNoBays         = "no bays"
)

var errNotConfigured = errors.New("source not configured")

// GeneratePlan runs one planning cycle for date. A zero date plans today in
// the configured zone. Collaborator failures degrade the plan instead of
// failing it; the only errors are ErrPlanInProgress and context cancellation.
func (p *Planner) GeneratePlan(ctx context.Context, date time.Time) (Plan, error) {
	if !p.gen.TryLock() {
		return Plan{}, ErrPlanInProgress
	}
	defer p.gen.Unlock()

	start := p.now()
	if date.IsZero() {
		date = start
	}
	date = midnight(date, p.loc)
	dateStr := date.Format(model.DateLayout)
	p.log.Infof("generating plan for %s", dateStr)

	var degraded []string
	vehicles := p.fetchFleet(ctx, &degraded)
	bays := p.fetchBays(ctx, &degraded)
	corridor := p.fetchCorridor(ctx, &degraded)
	raws := p.fetchResults(ctx, &degraded)
	if err := ctx.Err(); err != nil {
		return Plan{}, err
	}

	conflicts := eligibility.Flatten(vehicles, p.engine.EvaluateFleet(vehicles))
	decisions, dropped := optimizer.NormalizeAll(raws)
	if dropped > 0 {
		p.log.Warnf("dropped %d optimizer decisions without vehicle id", dropped)
	}
	params, err := scheduler.NewParams(p.schedule, date, scheduler.SelectRunVehicles(decisions), corridor)
	if err != nil {
		return Plan{}, fmt.Errorf("schedule params: %w", err)
	}
	trips := scheduler.Assemble(params, p.policy)

	p.merge.Lock()
	recs := readiness.Merge(readiness.Inputs{
		Vehicles:  vehicles,
		Conflicts: conflicts,
		Decisions: decisions,
		Trips:     trips,
		Bays:      bays,
	})
	p.readiness.Replace(recs)
	plan := Plan{
		ID:          uuid.New(),
		Date:        dateStr,
		Origin:      corridor.Origin,
		Destination: corridor.Destination,
		Trips:       trips,
		Readiness:   recs,
		Summary:     scheduler.Summarize(trips),
		Degraded:    degraded,
		GeneratedAt: p.now(),
	}
	p.mu.Lock()
	p.results = raws
	p.decisions = decisions
	p.trips = trips
	p.last = &plan
	p.mu.Unlock()
	p.merge.Unlock()

	elapsed := p.now().Sub(start)
	p.persist(ctx, raws, trips)
	p.record(ctx, plan, decisions, elapsed)
	p.publish(events.PlanEvent{PlanID: plan.ID, Date: plan.Date, Trips: trips, Degraded: degraded, Duration: elapsed})
	p.publish(events.ReadinessEvent{Records: recs, At: plan.GeneratedAt})
	p.log.Infof("plan %s for %s: %d trips, %d vehicles, degraded=%v", plan.ID, dateStr, len(trips), plan.Summary.Vehicles, degraded)
	return plan, nil
}

func (p *Planner) fetchFleet(ctx context.Context, degraded *[]string) []model.Vehicle {
	var (
		vs  []model.Vehicle
		err = errNotConfigured
	)
	if p.src.Fleet != nil {
		cctx, cancel := p.bounded(ctx)
		vs, err = p.src.Fleet.Vehicles(cctx)
		cancel()
	}
	if err == nil {
		return vs
	}
	if p.eligCfg.SyntheticFallback {
		p.degrade(events.SourceFleet, FallbackSyntheticFleet, err, degraded)
		return eligibility.SyntheticFleet()
	}
	p.degrade(events.SourceFleet, FallbackEmptyFleet, err, degraded)
	return []model.Vehicle{}
}

func (p *Planner) fetchBays(ctx context.Context, degraded *[]string) []model.Bay {
	var (
		bays []model.Bay
		err  = errNotConfigured
	)
	if p.src.Depot != nil {
		cctx, cancel := p.bounded(ctx)
		bays, err = p.src.Depot.Bays(cctx)
		cancel()
	}
	if err != nil {
		p.degrade(events.SourceDepot, FallbackNoBays, err, degraded)
		return nil
	}
	return bays
}

func (p *Planner) fetchCorridor(ctx context.Context, degraded *[]string) scheduler.Corridor {
	var (
		stations []model.Station
		err      = errNotConfigured
	)
	if p.src.Geography != nil {
		cctx, cancel := p.bounded(ctx)
		stations, err = p.src.Geography.Stations(cctx)
		cancel()
	}
	if err != nil {
		p.degrade(events.SourceGeography, FallbackUnknownStops, err, degraded)
		return scheduler.UnknownCorridor()
	}
	return scheduler.ResolveCorridor(stations)
}

// fetchResults triggers the optimizer. A malformed payload yields no results;
// any other failure reuses the last known results.
func (p *Planner) fetchResults(ctx context.Context, degraded *[]string) []optimizer.RawDecision {
	var (
		raws []optimizer.RawDecision
		err  = errNotConfigured
	)
	if p.src.Optimizer != nil {
		cctx, cancel := p.bounded(ctx)
		raws, err = p.src.Optimizer.Run(cctx)
		cancel()
	}
	if err == nil {
		return raws
	}
	if errors.Is(err, optimizer.ErrMalformedPayload) {
		p.degrade(events.SourceOptimizer, FallbackNoResults, err, degraded)
		return nil
	}
	if last := p.lastResults(ctx); len(last) > 0 {
		p.degrade(events.SourceOptimizer, FallbackLastResults, err, degraded)
		return last
	}
	p.degrade(events.SourceOptimizer, FallbackNoResults, err, degraded)
	return nil
}

func (p *Planner) lastResults(ctx context.Context) []optimizer.RawDecision {
	p.mu.RLock()
	last := p.results
	p.mu.RUnlock()
	if len(last) > 0 {
		return last
	}
	snap, err := p.state.Load(ctx)
	if err != nil {
		p.log.Warnf("load persisted results: %v", err)
		return nil
	}
	return snap.Results
}

// degrade reports a collaborator failure on every channel and marks the plan.
func (p *Planner) degrade(src events.Source, fallback string, err error, degraded *[]string) {
	*degraded = append(*degraded, string(src))
	now := p.now()
	p.log.Warnf("%s source unavailable, using %s: %v", src, fallback, err)
	p.monitor.CaptureMessage(fmt.Sprintf("%s source unavailable: %v", src, err), monitoring.LevelWarning,
		map[string]string{"source": string(src), "fallback": fallback})
	if rerr := metrics.RecordFallback(p.metrics, metrics.FallbackEvent{
		Source: string(src), Fallback: fallback, Reason: err.Error(), Time: now,
	}); rerr != nil {
		p.log.Errorf("record fallback metric: %v", rerr)
	}
	p.publish(events.FallbackEvent{Source: src, Fallback: fallback, Err: err, At: now})
}

func (p *Planner) persist(ctx context.Context, raws []optimizer.RawDecision, trips []model.ServiceTrip) {
	if err := p.state.Save(ctx, state.Snapshot{Results: raws, Trips: trips, SavedAt: p.now()}); err != nil {
		p.log.Errorf("persist planner state: %v", err)
		p.monitor.CaptureException(err, map[string]string{"source": string(events.SourceState)})
	}
}

func (p *Planner) record(ctx context.Context, plan Plan, decisions []model.CanonicalDecision, elapsed time.Duration) {
	if err := p.metrics.RecordPlan(metrics.PlanResult{
		PlanID:   plan.ID.String(),
		Date:     plan.Date,
		Trips:    len(plan.Trips),
		Vehicles: plan.Summary.Vehicles,
		Degraded: plan.Degraded,
		Duration: elapsed,
		Time:     plan.GeneratedAt,
	}); err != nil {
		p.log.Errorf("record plan metric: %v", err)
	}

	rec := planlog.LogRecord{
		Timestamp:   plan.GeneratedAt,
		PlanID:      plan.ID.String(),
		Date:        plan.Date,
		Origin:      plan.Origin,
		Destination: plan.Destination,
		Trips:       len(plan.Trips),
		Scheduled:   []string{},
		Blocked:     []string{},
		Degraded:    plan.Degraded,
		DurationMS:  float64(elapsed.Microseconds()) / 1000,
	}
	for _, d := range scheduler.SelectRunVehicles(decisions) {
		rec.Scheduled = append(rec.Scheduled, d.VehicleID)
	}
	for _, r := range plan.Readiness {
		if !r.IsReady {
			rec.Blocked = append(rec.Blocked, r.VehicleID)
		}
	}
	if err := p.history.Append(ctx, rec); err != nil {
		p.log.Errorf("append plan history: %v", err)
	}
}
