package picker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"location_picker/internal/events"
	"location_picker/internal/geo"
	"location_picker/internal/maps"
	"location_picker/platform/apperr"
	"location_picker/platform/logger"
	"location_picker/platform/metrics"

	"github.com/google/uuid"
)

// Service applies user events to sessions and runs the adapters.
// Adapter calls are fire-and-forget: they run on their own goroutine bound
// to the session context and resolve through the session's sequence check.
type Service struct {
	sessions *Registry
	searcher maps.Searcher
	locator  GeolocationAdapter
	bus      events.Bus
	log      *logger.Logger

	root     context.Context
	stopRoot context.CancelFunc
	inflight sync.WaitGroup
}

func NewService(sessions *Registry, searcher maps.Searcher, locator GeolocationAdapter, bus events.Bus, log *logger.Logger) *Service {
	root, stop := context.WithCancel(context.Background())
	return &Service{
		sessions: sessions,
		searcher: searcher,
		locator:  locator,
		bus:      bus,
		log:      log,
		root:     root,
		stopRoot: stop,
	}
}

// Mount opens a new session with no coordinate selected.
func (s *Service) Mount() Snapshot {
	sess := s.sessions.Open(s.root)
	s.log.Debug("picker session mounted", "session_id", sess.ID())
	return sess.Snapshot()
}

// Unmount closes the session, abandoning any in-flight request.
func (s *Service) Unmount(ctx context.Context, id uuid.UUID) error {
	return s.close(ctx, id, "unmounted")
}

func (s *Service) close(ctx context.Context, id uuid.UUID, reason string) error {
	if !s.sessions.Close(id) {
		return ErrSessionNotFound
	}
	ctx = logger.ContextWithSessionID(ctx, id.String())
	s.publish(ctx, events.SessionClosed{
		BaseEvent: events.NewBaseEvent(),
		SessionID: id,
		Reason:    reason,
	})
	s.log.WithContext(ctx).Debug("picker session closed", "reason", reason)
	return nil
}

// State returns the current snapshot of a session.
func (s *Service) State(id uuid.UUID) (Snapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// Touch keeps a session alive while its client is connected.
func (s *Service) Touch(id uuid.UUID) {
	_, _ = s.sessions.Get(id)
}

// ClickMap selects the clicked coordinate. The error slot is left as is.
func (s *Service) ClickMap(ctx context.Context, id uuid.UUID, c geo.Coordinate) (Snapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	if c, err = geo.New(c.Latitude, c.Longitude); err != nil {
		return sess.Snapshot(), apperr.Wrap(apperr.KindValidation, "coordinate out of range", err)
	}
	snap := sess.selectCoordinate(c)
	s.publishState(ctx, snap)
	return snap, nil
}

// UseLocation starts a device position read. The read is registered before
// returning and the snapshot carries its LocateSeq, so the caller can answer
// even when no event stream is connected. When the client declares the
// sensor unsupported the error is recorded without entering busy.
func (s *Service) UseLocation(ctx context.Context, id uuid.UUID, supported bool) (Snapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}

	if !supported {
		snap, err := sess.rejectUnsupported()
		if err != nil {
			return snap, err
		}
		metrics.GeolocationOutcomes.WithLabelValues("unsupported").Inc()
		s.publishState(ctx, snap)
		return snap, nil
	}

	seq, snap, err := sess.begin(true)
	if err != nil {
		return snap, err
	}
	if awaiter, ok := s.locator.(PositionAwaiter); ok {
		awaiter.Await(sess.ID(), seq)
	}
	s.publishState(ctx, snap)

	s.dispatch(func() {
		coord, err := s.locator.RequestCurrentPosition(sess.Context(), sess.ID(), seq)
		if sess.Context().Err() != nil {
			metrics.GeolocationOutcomes.WithLabelValues("abandoned").Inc()
			return
		}

		var (
			next Snapshot
			ok   bool
		)
		switch {
		case err == nil:
			metrics.GeolocationOutcomes.WithLabelValues("resolved").Inc()
			next, ok = sess.resolve(seq, coord)
		case errors.Is(err, ErrUnsupported):
			metrics.GeolocationOutcomes.WithLabelValues("unsupported").Inc()
			next, ok = sess.fail(seq, MessageUnsupported)
		default:
			metrics.GeolocationOutcomes.WithLabelValues("unavailable").Inc()
			next, ok = sess.fail(seq, MessageUnavailable)
		}
		if ok {
			s.publishState(s.root, next)
		}
	})

	return snap, nil
}

// ReportPosition forwards the client's sensor reading to a pending read.
func (s *Service) ReportPosition(id uuid.UUID, reading SensorReading) error {
	if _, err := s.sessions.Get(id); err != nil {
		return err
	}
	reporter, ok := s.locator.(SensorReporter)
	if !ok {
		return ErrNoPendingRequest
	}
	return reporter.Report(id, reading)
}

// Search geocodes query and selects its first match. A blank query is a
// no-op that leaves the state untouched and issues no request.
func (s *Service) Search(ctx context.Context, id uuid.UUID, query string) (Snapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return sess.Snapshot(), nil
	}

	seq, snap, err := sess.begin(false)
	if err != nil {
		return snap, err
	}
	s.publishState(ctx, snap)

	s.dispatch(func() {
		coord, err := s.searcher.Lookup(sess.Context(), query)
		if sess.Context().Err() != nil {
			return
		}

		var (
			next Snapshot
			ok   bool
		)
		switch {
		case err == nil:
			next, ok = sess.resolve(seq, coord)
		case errors.Is(err, maps.ErrNotFound):
			next, ok = sess.fail(seq, maps.MessageNotFound)
		default:
			next, ok = sess.fail(seq, maps.MessageFailure)
		}
		if ok {
			s.publishState(s.root, next)
		}
	})

	return snap, nil
}

// RunJanitor closes idle sessions every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval, idleTTL time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sweep(ctx, idleTTL)
		}
	}
}

func (s *Service) sweep(ctx context.Context, idleTTL time.Duration) int {
	expired := s.sessions.Expired(idleTTL)
	for _, id := range expired {
		_ = s.close(ctx, id, "expired")
	}
	if len(expired) > 0 {
		s.log.Info("expired idle picker sessions", "count", len(expired))
	}
	return len(expired)
}

// Shutdown closes every session and waits for in-flight adapter calls.
func (s *Service) Shutdown(ctx context.Context) {
	for _, id := range s.sessions.IDs() {
		_ = s.close(ctx, id, "shutdown")
	}
	s.stopRoot()
	s.Wait()
}

// Wait blocks until all in-flight adapter calls have returned.
func (s *Service) Wait() {
	s.inflight.Wait()
}

func (s *Service) dispatch(fn func()) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		fn()
	}()
}

func (s *Service) publishState(ctx context.Context, snap Snapshot) {
	s.publish(ctx, events.SelectionChanged{
		BaseEvent:    events.NewBaseEvent(),
		SessionID:    snap.SessionID,
		Revision:     snap.Revision,
		Coordinate:   snap.State.Coordinate,
		Busy:         snap.State.Busy,
		ErrorMessage: snap.State.ErrorMessage,
		Payload:      snap,
	})
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.bus.PublishSync(context.WithoutCancel(ctx), event); err != nil {
		s.log.WithContext(ctx).Warn("event delivery failed", "event", event.EventName(), "event_id", event.EventID(), "error", err)
	}
}
