// Package eventbus provides in-process fan-out of planner events.
package eventbus

import "context"

// Event represents an arbitrary event passed on the bus.
type Event interface{}

// EventBus implements a simple publish/subscribe event bus.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// Bus is the untyped EventBus used when subscribers switch on event type.
type Bus struct {
	*TypedBus[Event]
}

// New creates a new Bus.
func New() *Bus { return &Bus{TypedBus: NewTyped[Event]()} }

// HandleEvents runs fn for every event published on bus until ctx is done.
func HandleEvents(ctx context.Context, bus *Bus, fn func(Event)) <-chan struct{} {
	return bus.Handle(ctx, fn)
}
