package picker

import (
	"context"
	"sync"
	"time"

	"location_picker/platform/apperr"
	"location_picker/platform/metrics"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or already closed sessions.
var ErrSessionNotFound = apperr.NotFound("picker session not found")

// Registry tracks mounted sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		now:      now,
	}
}

// Open mounts a fresh session whose context derives from parent.
func (r *Registry) Open(parent context.Context) *Session {
	s := newSession(parent, r.now())

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	metrics.ActiveSessions.Inc()
	return s
}

// Get returns the session and marks it as seen.
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(r.now())
	return s, nil
}

// Close unmounts the session and cancels its context.
func (r *Registry) Close(id uuid.UUID) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return false
	}
	s.cancel()
	metrics.ActiveSessions.Dec()
	return true
}

// Expired lists sessions idle for longer than ttl.
func (r *Registry) Expired(ttl time.Duration) []uuid.UUID {
	cutoff := r.now().Add(-ttl)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []uuid.UUID
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}

// IDs lists every mounted session.
func (r *Registry) IDs() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of mounted sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
