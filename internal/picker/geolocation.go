package picker

import (
	"context"
	"sync"

	"location_picker/internal/events"
	"location_picker/internal/geo"
	"location_picker/platform/apperr"

	"github.com/google/uuid"
)

var (
	// ErrUnsupported means the client runtime has no position sensor.
	ErrUnsupported = apperr.Unavailable(MessageUnsupported)
	// ErrUnavailable means the sensor read was denied or timed out.
	ErrUnavailable = apperr.Unavailable(MessageUnavailable)
	// ErrNoPendingRequest is returned for sensor reports nobody is waiting for.
	ErrNoPendingRequest = apperr.Gone("no geolocation request is pending")
)

// Sensor failure codes reported by the client.
const (
	SensorUnsupported = "unsupported"
	SensorDenied      = "denied"
	SensorTimeout     = "timeout"
	SensorUnavailable = "unavailable"
)

// GeolocationAdapter reads the device position for a session. It suspends
// until the device answers or ctx is cancelled.
type GeolocationAdapter interface {
	RequestCurrentPosition(ctx context.Context, sessionID uuid.UUID, seq uint64) (geo.Coordinate, error)
}

// PositionAwaiter is implemented by adapters that need a read registered
// before the device can answer it.
type PositionAwaiter interface {
	Await(sessionID uuid.UUID, seq uint64)
}

// SensorReporter accepts client sensor readings for a pending read.
type SensorReporter interface {
	Report(sessionID uuid.UUID, reading SensorReading) error
}

// SensorReading is the client's answer to a geolocation request.
type SensorReading struct {
	Seq       uint64  `json:"seq" validate:"gt=0"`
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lon" validate:"longitude"`
	Error     string  `json:"error,omitempty" validate:"omitempty,oneof=unsupported denied timeout unavailable"`
}

// result maps the reading to the adapter outcome.
func (r SensorReading) result() (geo.Coordinate, error) {
	switch r.Error {
	case "":
	case SensorUnsupported:
		return geo.Coordinate{}, ErrUnsupported
	default:
		return geo.Coordinate{}, ErrUnavailable
	}
	c, err := geo.New(r.Latitude, r.Longitude)
	if err != nil {
		return geo.Coordinate{}, ErrUnavailable
	}
	return c, nil
}

type pendingRead struct {
	seq      uint64
	ch       chan SensorReading
	answered bool
}

// BrowserLocator bridges the browser's position sensor: it asks the client
// over the event bus and waits for the matching Report.
type BrowserLocator struct {
	bus events.Bus

	mu      sync.Mutex
	pending map[uuid.UUID]*pendingRead
}

func NewBrowserLocator(bus events.Bus) *BrowserLocator {
	return &BrowserLocator{
		bus:     bus,
		pending: make(map[uuid.UUID]*pendingRead),
	}
}

// Await registers read seq for the session so a Report can land before
// RequestCurrentPosition starts waiting.
func (b *BrowserLocator) Await(sessionID uuid.UUID, seq uint64) {
	b.mu.Lock()
	b.register(sessionID, seq)
	b.mu.Unlock()
}

func (b *BrowserLocator) register(sessionID uuid.UUID, seq uint64) *pendingRead {
	if p, ok := b.pending[sessionID]; ok && p.seq == seq {
		return p
	}
	p := &pendingRead{seq: seq, ch: make(chan SensorReading, 1)}
	b.pending[sessionID] = p
	return p
}

func (b *BrowserLocator) RequestCurrentPosition(ctx context.Context, sessionID uuid.UUID, seq uint64) (geo.Coordinate, error) {
	b.mu.Lock()
	p := b.register(sessionID, seq)
	answered := p.answered
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		if cur, ok := b.pending[sessionID]; ok && cur == p {
			delete(b.pending, sessionID)
		}
		b.mu.Unlock()
	}()

	// The page also learns seq from the dispatch response and the state
	// snapshots, so a lost command does not strand the read.
	if !answered {
		if err := b.bus.PublishSync(ctx, events.GeolocationRequested{
			BaseEvent: events.NewBaseEvent(),
			SessionID: sessionID,
			Seq:       seq,
		}); err != nil {
			return geo.Coordinate{}, ErrUnavailable
		}
	}

	select {
	case reading := <-p.ch:
		return reading.result()
	case <-ctx.Done():
		return geo.Coordinate{}, ctx.Err()
	}
}

// Report delivers a client reading to the read with the same seq. Only the
// first reading per read is accepted.
func (b *BrowserLocator) Report(sessionID uuid.UUID, reading SensorReading) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pending[sessionID]
	if !ok || p.seq != reading.Seq || p.answered {
		return ErrNoPendingRequest
	}
	p.answered = true
	p.ch <- reading
	return nil
}

// Pending reports whether a read is waiting for its reading.
func (b *BrowserLocator) Pending(sessionID uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pending[sessionID]
	return ok && !p.answered
}

var (
	_ GeolocationAdapter = (*BrowserLocator)(nil)
	_ SensorReporter     = (*BrowserLocator)(nil)
	_ PositionAwaiter    = (*BrowserLocator)(nil)
)
