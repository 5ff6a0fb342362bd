package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"location_picker/platform/logger"
)

type pinged struct {
	BaseEvent
}

func (pinged) EventName() string { return "test.pinged" }

func TestPublishSync_RunsHandlersInOrder(t *testing.T) {
	bus := NewInMemoryBus(logger.Nop())

	var order []int
	bus.Subscribe("test.pinged", HandlerFunc(func(ctx context.Context, e Event) error {
		order = append(order, 1)
		return nil
	}))
	bus.Subscribe("test.pinged", HandlerFunc(func(ctx context.Context, e Event) error {
		order = append(order, 2)
		return errors.New("boom")
	}))

	err := bus.PublishSync(context.Background(), pinged{BaseEvent: NewBaseEvent()})
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected joined handler error, got %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected handlers in registration order, got %v", order)
	}
}

func TestPublish_RecoversHandlerPanic(t *testing.T) {
	bus := NewInMemoryBus(logger.Nop())

	var calls atomic.Int32
	bus.Subscribe("test.pinged", HandlerFunc(func(ctx context.Context, e Event) error {
		panic("bad handler")
	}))
	bus.Subscribe("test.pinged", HandlerFunc(func(ctx context.Context, e Event) error {
		calls.Add(1)
		return nil
	}))

	bus.Publish(context.Background(), pinged{BaseEvent: NewBaseEvent()})

	done := make(chan struct{})
	go func() {
		bus.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handlers did not finish")
	}

	if calls.Load() != 1 {
		t.Fatalf("expected healthy handler to run once, got %d", calls.Load())
	}
}

func TestPublishSync_IgnoresOtherEvents(t *testing.T) {
	bus := NewInMemoryBus(logger.Nop())
	bus.Subscribe("test.other", HandlerFunc(func(ctx context.Context, e Event) error {
		t.Fatal("unexpected dispatch")
		return nil
	}))

	if err := bus.PublishSync(context.Background(), pinged{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	a, b := NewBaseEvent(), NewBaseEvent()
	if a.EventID() == b.EventID() {
		t.Fatal("event IDs must be unique")
	}
	if a.OccurredAt().Location() != time.UTC {
		t.Errorf("timestamp location = %v, want UTC", a.OccurredAt().Location())
	}
}
