// Package sse provides Server-Sent Events support for pushing picker state to
// connected pages.
package sse

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"location_picker/internal/events"
	"location_picker/platform/logger"
	"location_picker/platform/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventType represents different types of SSE events
type EventType string

const (
	// EventState carries a full state snapshot.
	EventState EventType = "state"
	// EventLocate asks the page to read its position sensor.
	EventLocate EventType = "locate"
	// EventClosed tells the page its session is gone.
	EventClosed EventType = "closed"
)

// Event represents an SSE event payload
type Event struct {
	Type EventType
	Data interface{}
}

// client represents a connected SSE client
type client struct {
	sessionID uuid.UUID
	events    chan Event
}

// Service manages SSE connections and event fan-out per picker session.
type Service struct {
	mu        sync.Mutex
	clients   map[uuid.UUID][]*client
	log       *logger.Logger
	heartbeat time.Duration
}

// New creates a new SSE service
func New(log *logger.Logger) *Service {
	return &Service{
		clients:   make(map[uuid.UUID][]*client),
		log:       log,
		heartbeat: 25 * time.Second,
	}
}

// RegisterHandlers subscribes the service to picker events.
func (s *Service) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.SelectionChanged{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if ev, ok := e.(events.SelectionChanged); ok {
			s.Publish(ev.SessionID, Event{Type: EventState, Data: ev.Payload})
		}
		return nil
	}))
	bus.Subscribe(events.GeolocationRequested{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if ev, ok := e.(events.GeolocationRequested); ok {
			s.Publish(ev.SessionID, Event{Type: EventLocate, Data: gin.H{"seq": ev.Seq}})
		}
		return nil
	}))
	bus.Subscribe(events.SessionClosed{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if ev, ok := e.(events.SessionClosed); ok {
			s.CloseSession(ev.SessionID, ev.Reason)
		}
		return nil
	}))
}

// addClient registers a new client connection
func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients[c.sessionID] = append(s.clients[c.sessionID], c)
	metrics.ActiveStreams.Inc()
}

// removeClient unregisters a client connection unless CloseSession already did.
func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := s.clients[c.sessionID]
	for i, cl := range clients {
		if cl == c {
			s.clients[c.sessionID] = append(clients[:i], clients[i+1:]...)
			if len(s.clients[c.sessionID]) == 0 {
				delete(s.clients, c.sessionID)
			}
			close(c.events)
			metrics.ActiveStreams.Dec()
			return
		}
	}
}

// Publish sends an event to every stream of a session. Slow clients lose
// events rather than block the publisher.
func (s *Service) Publish(sessionID uuid.UUID, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.clients[sessionID] {
		select {
		case c.events <- event:
		default:
			s.log.Warn("sse buffer full, event dropped", "session_id", sessionID, "event", event.Type)
		}
	}
}

// CloseSession sends a final closed event and disconnects every stream of a session.
func (s *Service) CloseSession(sessionID uuid.UUID, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.clients[sessionID] {
		select {
		case c.events <- Event{Type: EventClosed, Data: gin.H{"reason": reason}}:
		default:
		}
		close(c.events)
		metrics.ActiveStreams.Dec()
	}
	delete(s.clients, sessionID)
}

// Connected returns the number of open streams for a session.
func (s *Service) Connected(sessionID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients[sessionID])
}

// Handler returns a Gin handler for SSE connections. resolve maps the request
// to a session and its current state, which is sent first; keepAlive is called
// on every heartbeat.
func (s *Service) Handler(resolve func(*gin.Context) (uuid.UUID, interface{}, error), keepAlive func(uuid.UUID)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, _, err := resolve(c)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		// Set SSE headers
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{
			sessionID: sessionID,
			events:    make(chan Event, 32),
		}
		s.addClient(cl)
		defer s.removeClient(cl)

		// State is read after registration so no change is missed; the
		// client drops anything older than the revision it holds.
		_, initial, err := resolve(c)
		if err != nil {
			return
		}
		s.write(c, Event{Type: EventState, Data: initial})

		ticker := time.NewTicker(s.heartbeat)
		defer ticker.Stop()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				return
			case <-ticker.C:
				if keepAlive != nil {
					keepAlive(sessionID)
				}
				c.SSEvent("ping", time.Now().Unix())
				c.Writer.Flush()
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				s.write(c, event)
			}
		}
	}
}

func (s *Service) write(c *gin.Context, event Event) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		s.log.Error("sse payload encode failed", "event", event.Type, "error", err)
		return
	}
	c.SSEvent(string(event.Type), string(data))
	c.Writer.Flush()
}
