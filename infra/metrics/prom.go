package metrics

import (
	"errors"
	"strconv"

	coremetrics "github.com/kilianp07/depotplan/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records plan generations in Prometheus metrics.
type PromSink struct {
	plans     *prometheus.CounterVec
	trips     prometheus.Gauge
	duration  prometheus.Histogram
	readiness *prometheus.GaugeVec
	fallbacks *prometheus.CounterVec
}

// NewPromSink registers planner metrics on the default Prometheus registerer.
// The metrics are exposed by the serve command's HTTP server.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plans_generated_total",
		Help: "Total number of generated plans",
	}, []string{"degraded"})
	trips := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "plan_trips",
		Help: "Number of trips in the last generated plan",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plan_generation_seconds",
		Help:    "Time spent generating a plan",
		Buckets: prometheus.DefBuckets,
	})
	readiness := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fleet_readiness_vehicles",
		Help: "Vehicles per readiness state",
	}, []string{"state"})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_fallbacks_total",
		Help: "Collaborator failures answered with a fallback",
	}, []string{"source"})

	var err error
	if plans, err = register(reg, plans); err != nil {
		return nil, err
	}
	if trips, err = register(reg, trips); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if readiness, err = register(reg, readiness); err != nil {
		return nil, err
	}
	if fallbacks, err = register(reg, fallbacks); err != nil {
		return nil, err
	}
	return &PromSink{plans: plans, trips: trips, duration: duration, readiness: readiness, fallbacks: fallbacks}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPlan counts the plan and updates the trip gauge and duration histogram.
func (s *PromSink) RecordPlan(res coremetrics.PlanResult) error {
	s.plans.WithLabelValues(strconv.FormatBool(len(res.Degraded) > 0)).Inc()
	s.trips.Set(float64(res.Trips))
	s.duration.Observe(res.Duration.Seconds())
	return nil
}

// RecordFallback increments the fallback counter of the failing source.
func (s *PromSink) RecordFallback(ev coremetrics.FallbackEvent) error {
	s.fallbacks.WithLabelValues(ev.Source).Inc()
	return nil
}

// RecordReadiness sets the readiness gauges.
func (s *PromSink) RecordReadiness(snap coremetrics.ReadinessSnapshot) error {
	s.readiness.WithLabelValues("total").Set(float64(snap.Total))
	s.readiness.WithLabelValues("ready").Set(float64(snap.Ready))
	s.readiness.WithLabelValues("blocked").Set(float64(snap.Blocked))
	s.readiness.WithLabelValues("scheduled").Set(float64(snap.Scheduled))
	return nil
}
