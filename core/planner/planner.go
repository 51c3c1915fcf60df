// Package planner orchestrates a planning cycle: it gathers the fleet, the
// optimizer decisions, the line geography and the depot layout, evaluates
// eligibility, assembles the timetable and merges the readiness view.
//
// Every collaborator call is bounded by the configured timeout and degrades
// to a documented fallback instead of failing the cycle.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/depotplan/core/eligibility"
	"github.com/kilianp07/depotplan/core/events"
	"github.com/kilianp07/depotplan/core/logger"
	"github.com/kilianp07/depotplan/core/metrics"
	"github.com/kilianp07/depotplan/core/model"
	"github.com/kilianp07/depotplan/core/monitoring"
	"github.com/kilianp07/depotplan/core/optimizer"
	"github.com/kilianp07/depotplan/core/planlog"
	"github.com/kilianp07/depotplan/core/readiness"
	"github.com/kilianp07/depotplan/core/scheduler"
	"github.com/kilianp07/depotplan/core/state"
	"github.com/kilianp07/depotplan/internal/eventbus"
)

// ErrPlanInProgress is returned when a generation is requested while another
// one is still running.
var ErrPlanInProgress = errors.New("planner: plan generation already in progress")

// ErrNoJobCardSource is returned by JobCards when no source is configured.
var ErrNoJobCardSource = errors.New("planner: job card source not configured")

// Options wires a Planner. Nil stores, sinks, bus and logger default to
// in-memory or no-op implementations.
type Options struct {
	Config      Config
	Schedule    scheduler.Config
	Eligibility eligibility.Config
	Sources     Sources
	Policy      scheduler.SlotAssignmentPolicy
	State       state.Store
	Readiness   readiness.Store
	History     planlog.LogStore
	Metrics     metrics.MetricsSink
	Bus         eventbus.EventBus
	Monitor     monitoring.Monitor
	Logger      logger.Logger
	Now         func() time.Time
}

// Planner runs planning cycles. It is safe for concurrent use; at most one
// generation runs at a time.
type Planner struct {
	cfg       Config
	schedule  scheduler.Config
	eligCfg   eligibility.Config
	engine    *eligibility.Engine
	src       Sources
	policy    scheduler.SlotAssignmentPolicy
	state     state.Store
	readiness readiness.Store
	history   planlog.LogStore
	metrics   metrics.MetricsSink
	bus       eventbus.EventBus
	monitor   monitoring.Monitor
	log       logger.Logger
	now       func() time.Time
	loc       *time.Location

	gen   sync.Mutex
	merge sync.Mutex

	mu        sync.RWMutex
	results   []optimizer.RawDecision
	decisions []model.CanonicalDecision
	trips     []model.ServiceTrip
	last      *Plan
}

// New validates the configuration and returns a Planner.
func New(opts Options) (*Planner, error) {
	opts.Config.SetDefaults()
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	opts.Schedule.SetDefaults()
	if err := opts.Schedule.Validate(); err != nil {
		return nil, fmt.Errorf("schedule config: %w", err)
	}
	opts.Eligibility.SetDefaults()
	if err := opts.Eligibility.Validate(); err != nil {
		return nil, fmt.Errorf("eligibility config: %w", err)
	}
	p := &Planner{
		cfg:       opts.Config,
		schedule:  opts.Schedule,
		eligCfg:   opts.Eligibility,
		engine:    eligibility.NewEngine(opts.Eligibility),
		src:       opts.Sources,
		policy:    opts.Policy,
		state:     opts.State,
		readiness: opts.Readiness,
		history:   opts.History,
		metrics:   opts.Metrics,
		bus:       opts.Bus,
		monitor:   opts.Monitor,
		log:       opts.Logger,
		now:       opts.Now,
		loc:       opts.Config.Location(),
	}
	if p.policy == nil {
		p.policy = scheduler.RoundRobin{}
	}
	if p.state == nil {
		p.state = state.NewMemoryStore()
	}
	if p.readiness == nil {
		p.readiness = readiness.NewMemoryStore()
	}
	if p.history == nil {
		p.history = planlog.NopStore{}
	}
	if p.metrics == nil {
		p.metrics = metrics.NopSink{}
	}
	if p.monitor == nil {
		p.monitor = monitoring.Current()
	}
	if p.log == nil {
		p.log = nopLogger{}
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// Location is the zone plan dates are expressed in.
func (p *Planner) Location() *time.Location { return p.loc }

// ReadinessStore exposes the store holding the latest readiness records.
func (p *Planner) ReadinessStore() readiness.Store { return p.readiness }

// History exposes the plan history store.
func (p *Planner) History() planlog.LogStore { return p.history }

// LastPlan returns the most recent plan, if any.
func (p *Planner) LastPlan() (Plan, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return Plan{}, false
	}
	return *p.last, true
}

// JobCards returns the job cards of one vehicle for drill-down.
func (p *Planner) JobCards(ctx context.Context, vehicleID string) ([]model.JobCard, error) {
	if p.src.JobCards == nil {
		return nil, ErrNoJobCardSource
	}
	cctx, cancel := p.bounded(ctx)
	defer cancel()
	cards, err := p.src.JobCards.JobCards(cctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("job cards for %s: %w", vehicleID, err)
	}
	if cards == nil {
		cards = []model.JobCard{}
	}
	return cards, nil
}

// Restore seeds the last optimizer results and timetable from the state
// store. A malformed document restores nothing and is not an error.
func (p *Planner) Restore(ctx context.Context) error {
	snap, err := p.state.Load(ctx)
	if errors.Is(err, state.ErrMalformed) {
		p.log.Warnf("persisted state is malformed, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore state: %w", err)
	}
	if len(snap.Discarded) > 0 {
		p.log.Warnf("discarded malformed persisted state: %v", snap.Discarded)
	}
	decisions, _ := optimizer.NormalizeAll(snap.Results)
	p.mu.Lock()
	p.results = snap.Results
	p.decisions = decisions
	p.trips = snap.Trips
	p.mu.Unlock()
	p.log.Infof("restored %d optimizer results and %d trips", len(snap.Results), len(snap.Trips))
	return nil
}

// RefreshReadiness re-fetches the fleet and the depot layout and merges them
// with the last decisions and timetable. The timetable is not regenerated;
// the last plan's readiness is replaced by the fresh records.
func (p *Planner) RefreshReadiness(ctx context.Context) ([]model.ReadinessRecord, error) {
	var degraded []string
	vehicles := p.fetchFleet(ctx, &degraded)
	bays := p.fetchBays(ctx, &degraded)
	conflicts := eligibility.Flatten(vehicles, p.engine.EvaluateFleet(vehicles))

	p.merge.Lock()
	defer p.merge.Unlock()
	p.mu.RLock()
	in := readiness.Inputs{Vehicles: vehicles, Conflicts: conflicts, Decisions: p.decisions, Trips: p.trips, Bays: bays}
	p.mu.RUnlock()
	recs := readiness.Merge(in)
	p.readiness.Replace(recs)
	p.mu.Lock()
	if p.last != nil {
		last := *p.last
		last.Readiness = recs
		p.last = &last
	}
	p.mu.Unlock()
	p.publish(events.ReadinessEvent{Records: recs, At: p.now()})
	return recs, nil
}

func (p *Planner) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if t := p.cfg.SourceTimeout(); t > 0 {
		return context.WithTimeout(ctx, t)
	}
	return context.WithCancel(ctx)
}

func (p *Planner) publish(ev eventbus.Event) {
	if p.bus != nil {
		p.bus.Publish(ev)
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
