package metrics

import "time"

// PlanResult summarises one plan generation.
type PlanResult struct {
	PlanID   string
	Date     string
	Trips    int
	Vehicles int
	Degraded []string
	Duration time.Duration
	Time     time.Time
}

// MetricsSink records plan generations for observability purposes.
type MetricsSink interface {
	RecordPlan(res PlanResult) error
}

// FallbackEvent records a collaborator failure and the substitute used.
type FallbackEvent struct {
	Source   string
	Fallback string
	Reason   string
	Time     time.Time
}

// FallbackRecorder records source fallbacks.
type FallbackRecorder interface {
	RecordFallback(ev FallbackEvent) error
}

// ReadinessSnapshot counts vehicles per readiness state.
type ReadinessSnapshot struct {
	Total     int
	Ready     int
	Blocked   int
	Scheduled int
	Time      time.Time
}

// ReadinessRecorder records fleet readiness counts.
type ReadinessRecorder interface {
	RecordReadiness(s ReadinessSnapshot) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlan(PlanResult) error             { return nil }
func (NopSink) RecordFallback(FallbackEvent) error      { return nil }
func (NopSink) RecordReadiness(ReadinessSnapshot) error { return nil }
