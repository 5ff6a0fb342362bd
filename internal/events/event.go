// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"location_picker/internal/geo"
	"location_picker/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Picker Events
// =============================================================================

// SelectionChanged is published after every change of a session's selection state.
// Revision increases by one per change so subscribers can drop stale copies.
type SelectionChanged struct {
	BaseEvent
	SessionID    uuid.UUID       `json:"sessionId"`
	Revision     uint64          `json:"revision"`
	Coordinate   *geo.Coordinate `json:"coordinate,omitempty"`
	Busy         bool            `json:"busy"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	Payload      interface{}     `json:"payload,omitempty"` // rendered view for stream clients
}

func (e SelectionChanged) EventName() string { return "picker.selection.changed" }

// GeolocationRequested is published when the server needs the browser to read
// its position sensor for request Seq.
type GeolocationRequested struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	Seq       uint64    `json:"seq"`
}

func (e GeolocationRequested) EventName() string { return "picker.geolocation.requested" }

// SessionClosed is published when a picker session is unmounted or expires.
type SessionClosed struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	Reason    string    `json:"reason"` // "unmounted", "expired", "shutdown"
}

func (e SessionClosed) EventName() string { return "picker.session.closed" }
