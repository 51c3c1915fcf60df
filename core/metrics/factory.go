package metrics

import "github.com/kilianp07/depotplan/core/factory"

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink adds a metrics sink factory identified by name.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink types.
func SinkTypes() []string { return sinkRegistry.Types() }

// NewMetricsSink creates a MetricsSink from the provided configuration.
func NewMetricsSink(cfgs []factory.ModuleConfig) (MetricsSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]MetricsSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}

// RecordFallback records ev when sink supports fallbacks.
func RecordFallback(sink MetricsSink, ev FallbackEvent) error {
	if r, ok := sink.(FallbackRecorder); ok {
		return r.RecordFallback(ev)
	}
	return nil
}

// RecordReadiness records snap when sink supports readiness counts.
func RecordReadiness(sink MetricsSink, snap ReadinessSnapshot) error {
	if r, ok := sink.(ReadinessRecorder); ok {
		return r.RecordReadiness(snap)
	}
	return nil
}
