package picker

import (
	"context"
	"sync"
	"time"

	"location_picker/internal/geo"
	"location_picker/platform/apperr"

	"github.com/google/uuid"
)

// ErrBusy is returned when a request is dispatched while another is in flight.
var ErrBusy = apperr.Conflict("a location request is already in progress")

// Session owns the selection state of one mounted picker for its lifetime.
// All transitions are serialized by mu.
type Session struct {
	id     uuid.UUID
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	seq      uint64 // latest dispatched request
	locating bool   // the in-flight request is a device position read
	revision uint64
	lastSeen time.Time
}

func newSession(parent context.Context, now time.Time) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		id:       uuid.New(),
		ctx:      ctx,
		cancel:   cancel,
		lastSeen: now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Context is cancelled when the session is unmounted.
func (s *Session) Context() context.Context { return s.ctx }

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID: s.id,
		Revision:  s.revision,
		State:     s.state,
		Details:   RenderDetails(s.state),
	}
	if s.state.Busy && s.locating {
		snap.LocateSeq = s.seq
	}
	return snap
}

func (s *Session) commitLocked() Snapshot {
	s.revision++
	return s.snapshotLocked()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// selectCoordinate applies a map click.
func (s *Session) selectCoordinate(c geo.Coordinate) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Coordinate = &c
	return s.commitLocked()
}

// begin marks the session busy, clears the error slot and returns the
// sequence number the eventual resolution must carry. locating marks the
// request as a device position read.
func (s *Session) begin(locating bool) (uint64, Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Busy {
		return 0, s.snapshotLocked(), ErrBusy
	}
	s.seq++
	s.locating = locating
	s.state.Busy = true
	s.state.ErrorMessage = ""
	return s.seq, s.commitLocked(), nil
}

// rejectUnsupported records a missing sensor without entering busy.
func (s *Session) rejectUnsupported() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Busy {
		return s.snapshotLocked(), ErrBusy
	}
	s.state.ErrorMessage = MessageUnsupported
	return s.commitLocked(), nil
}

// resolve completes request seq with a coordinate. Resolutions for any
// request other than the latest are dropped and report ok=false.
func (s *Session) resolve(seq uint64, c geo.Coordinate) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq || !s.state.Busy {
		return s.snapshotLocked(), false
	}
	s.state.Coordinate = &c
	s.state.Busy = false
	return s.commitLocked(), true
}

// fail completes request seq with a user-visible message.
func (s *Session) fail(seq uint64, message string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq || !s.state.Busy {
		return s.snapshotLocked(), false
	}
	s.state.ErrorMessage = message
	s.state.Busy = false
	return s.commitLocked(), true
}
