package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/depotplan/core/events"
	"github.com/kilianp07/depotplan/core/logger"
	"github.com/kilianp07/depotplan/core/model"
	coremqtt "github.com/kilianp07/depotplan/core/mqtt"
	"github.com/kilianp07/depotplan/core/readiness"
	infralog "github.com/kilianp07/depotplan/infra/logger"
	"github.com/kilianp07/depotplan/internal/eventbus"
)

// PlanMessage is the retained payload announcing a day's timetable.
type PlanMessage struct {
	PlanID      uuid.UUID           `json:"plan_id"`
	Date        string              `json:"date"`
	Trips       []model.ServiceTrip `json:"trips"`
	Degraded    []string            `json:"degraded,omitempty"`
	DurationMS  int64               `json:"duration_ms"`
	PublishedAt time.Time           `json:"published_at"`
}

// ReadinessMessage is the retained payload of the current readiness view.
type ReadinessMessage struct {
	At      time.Time               `json:"at"`
	Counts  readiness.Counts        `json:"counts"`
	Records []model.ReadinessRecord `json:"records"`
}

// PlanPublisher announces plans on <prefix>/plan/<date> and readiness on
// <prefix>/readiness. Both are retained so late subscribers get the latest.
type PlanPublisher struct {
	pub    coremqtt.Publisher
	prefix string
	log    logger.Logger
	now    func() time.Time
}

func NewPlanPublisher(pub coremqtt.Publisher, prefix string) *PlanPublisher {
	if prefix == "" {
		prefix = "depot"
	}
	return &PlanPublisher{pub: pub, prefix: prefix, log: infralog.New("mqtt_publisher"), now: time.Now}
}

func (p *PlanPublisher) PlanTopic(date string) string { return p.prefix + "/plan/" + date }

func (p *PlanPublisher) ReadinessTopic() string { return p.prefix + "/readiness" }

func (p *PlanPublisher) PublishPlan(ev events.PlanEvent) error {
	msg := PlanMessage{
		PlanID:      ev.PlanID,
		Date:        ev.Date,
		Trips:       ev.Trips,
		Degraded:    ev.Degraded,
		DurationMS:  ev.Duration.Milliseconds(),
		PublishedAt: p.now().UTC(),
	}
	if msg.Trips == nil {
		msg.Trips = []model.ServiceTrip{}
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.pub.Publish(p.PlanTopic(ev.Date), b, true)
}

func (p *PlanPublisher) PublishReadiness(ev events.ReadinessEvent) error {
	msg := ReadinessMessage{At: ev.At.UTC(), Counts: readiness.Count(ev.Records), Records: ev.Records}
	if msg.Records == nil {
		msg.Records = []model.ReadinessRecord{}
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.pub.Publish(p.ReadinessTopic(), b, true)
}

// Run forwards plan and readiness events from bus until ctx is done.
// Publish failures are logged and never stop the loop.
func (p *PlanPublisher) Run(ctx context.Context, bus *eventbus.Bus) <-chan struct{} {
	return eventbus.HandleEvents(ctx, bus, func(e eventbus.Event) {
		var err error
		switch ev := e.(type) {
		case events.PlanEvent:
			err = p.PublishPlan(ev)
		case events.ReadinessEvent:
			err = p.PublishReadiness(ev)
		default:
			return
		}
		if err != nil {
			p.log.Errorf("mqtt publish: %v", err)
		}
	})
}
