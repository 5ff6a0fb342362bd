// Package events provides an in-process event bus that decouples the modules
// producing picker state changes from the transports delivering them.
// This is part of the platform layer and contains no business logic.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every message published on a Bus.
type Event interface {
	// EventName identifies the event type; handlers subscribe by name.
	EventName() string
	// EventID is unique per published event.
	EventID() uuid.UUID
	// OccurredAt is when the producer created the event.
	OccurredAt() time.Time
}

// BaseEvent is embedded by concrete events to satisfy EventID and OccurredAt.
type BaseEvent struct {
	ID        uuid.UUID `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) EventID() uuid.UUID    { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps a fresh ID and the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{ID: uuid.New(), Timestamp: time.Now().UTC()}
}

// Handler reacts to one event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function act as a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes events to the handlers subscribed to their name.
type Bus interface {
	// Publish hands the event to every handler without waiting.
	Publish(ctx context.Context, event Event)
	// PublishSync runs every handler before returning, in subscription order.
	PublishSync(ctx context.Context, event Event) error
	// Subscribe adds a handler for eventName.
	Subscribe(eventName string, handler Handler)
}
