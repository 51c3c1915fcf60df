package metrics

import "errors"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlan forwards the record to all sinks. Every sink is attempted; the
// errors are joined.
func (m *MultiSink) RecordPlan(res PlanResult) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordPlan(res))
	}
	return errors.Join(errs...)
}

// RecordFallback forwards fallbacks to sinks that support them.
func (m *MultiSink) RecordFallback(ev FallbackEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(FallbackRecorder); ok {
			errs = append(errs, rec.RecordFallback(ev))
		}
	}
	return errors.Join(errs...)
}

// RecordReadiness forwards readiness counts to sinks that support them.
func (m *MultiSink) RecordReadiness(snap ReadinessSnapshot) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(ReadinessRecorder); ok {
			errs = append(errs, rec.RecordReadiness(snap))
		}
	}
	return errors.Join(errs...)
}
