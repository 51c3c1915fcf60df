package metrics

import (
	"context"

	"github.com/kilianp07/depotplan/core/events"
	coremetrics "github.com/kilianp07/depotplan/core/metrics"
	"github.com/kilianp07/depotplan/core/readiness"
	"github.com/kilianp07/depotplan/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records readiness
// counts whenever readiness records are republished. It stops when the
// context is canceled and returns a channel closed on exit.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus, sink coremetrics.MetricsSink) <-chan struct{} {
	if bus == nil || sink == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return eventbus.HandleEvents(ctx, bus, func(ev eventbus.Event) {
		e, ok := ev.(events.ReadinessEvent)
		if !ok {
			return
		}
		c := readiness.Count(e.Records)
		_ = coremetrics.RecordReadiness(sink, coremetrics.ReadinessSnapshot{
			Total:     c.Total,
			Ready:     c.Ready,
			Blocked:   c.Blocked,
			Scheduled: c.Scheduled,
			Time:      e.At,
		})
	})
}
