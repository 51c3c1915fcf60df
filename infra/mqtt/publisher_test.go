package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/depotplan/core/events"
	"github.com/kilianp07/depotplan/core/model"
	"github.com/kilianp07/depotplan/internal/eventbus"
)

type fakePublisher struct {
	mu   sync.Mutex
	msgs map[string][]byte
	keep map[string]bool
	err  error
	hit  chan string
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{msgs: map[string][]byte{}, keep: map[string]bool{}, hit: make(chan string, 8)}
}

func (f *fakePublisher) Publish(topic string, payload []byte, retained bool) error {
	f.mu.Lock()
	f.msgs[topic] = payload
	f.keep[topic] = retained
	f.mu.Unlock()
	f.hit <- topic
	return f.err
}

func (f *fakePublisher) Disconnect() {}

func TestPublishPlan(t *testing.T) {
	fp := newFakePublisher()
	p := NewPlanPublisher(fp, "metro")
	id := uuid.New()
	dep := time.Date(2025, 1, 2, 6, 0, 0, 0, time.UTC)
	err := p.PublishPlan(events.PlanEvent{
		PlanID:   id,
		Date:     "2025-01-02",
		Trips:    []model.ServiceTrip{{VehicleID: "T1", Departure: dep}},
		Duration: 1500 * time.Millisecond,
	})
	require.NoError(t, err)
	raw, ok := fp.msgs["metro/plan/2025-01-02"]
	require.True(t, ok)
	assert.True(t, fp.keep["metro/plan/2025-01-02"])
	var msg PlanMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, id, msg.PlanID)
	assert.Equal(t, int64(1500), msg.DurationMS)
	require.Len(t, msg.Trips, 1)
	assert.Equal(t, "T1", msg.Trips[0].VehicleID)
}

func TestPublishReadinessCounts(t *testing.T) {
	fp := newFakePublisher()
	p := NewPlanPublisher(fp, "")
	require.NoError(t, p.PublishReadiness(events.ReadinessEvent{
		Records: []model.ReadinessRecord{{VehicleID: "T1", IsReady: true}, {VehicleID: "T2"}},
		At:      time.Now(),
	}))
	var msg ReadinessMessage
	require.NoError(t, json.Unmarshal(fp.msgs["depot/readiness"], &msg))
	assert.Equal(t, 2, msg.Counts.Total)
	assert.Equal(t, 1, msg.Counts.Blocked)
}

func TestRunForwardsBusEvents(t *testing.T) {
	fp := newFakePublisher()
	fp.err = errors.New("broker down")
	p := NewPlanPublisher(fp, "depot")
	bus := eventbus.New()
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := p.Run(ctx, bus)

	// Subscribe happens synchronously in Run, so publishing now is safe.
	bus.Publish("ignored")
	bus.Publish(events.PlanEvent{Date: "2025-01-03"})
	bus.Publish(events.ReadinessEvent{At: time.Now()})

	got := map[string]bool{}
	for len(got) < 2 {
		select {
		case topic := <-fp.hit:
			got[topic] = true
		case <-time.After(time.Second):
			t.Fatalf("timeout, got %v", got)
		}
	}
	assert.True(t, got["depot/plan/2025-01-03"])
	assert.True(t, got["depot/readiness"])
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("handler did not stop")
	}
}
