package workers

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"chat-wire/domain"
	"chat-wire/domain/event"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

type recordingSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (s *recordingSink) Consume(_ context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type slowSink struct {
	timedOut chan struct{}
}

func (s *slowSink) Consume(ctx context.Context, _ event.DomainEvent) error {
	<-ctx.Done() // waiting for the per-sink timeout to trigger cancellation
	close(s.timedOut)
	return ctx.Err()
}

func TestEventFanout_DeliversToAllSinks(t *testing.T) {
	req := require.New(t)
	events := make(chan event.DomainEvent, 4)
	first := &recordingSink{}
	second := &recordingSink{}
	worker := NewEventFanout(testLogger(), events, time.Second, first, second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	// When an event is published
	events <- event.PresenceChanged{UserID: "alice-id", Status: domain.StatusOnline}

	// Then every permanent sink consumes it
	req.Eventually(func() bool {
		return first.count() == 1 && second.count() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestEventFanout_SinkTimeoutDoesNotStarveOthers(t *testing.T) {
	req := require.New(t)
	events := make(chan event.DomainEvent, 4)
	slow := &slowSink{timedOut: make(chan struct{})}
	fast := &recordingSink{}
	worker := NewEventFanout(testLogger(), events, 20*time.Millisecond, slow, fast)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	events <- event.PresenceChanged{UserID: "alice-id", Status: domain.StatusOnline}

	select {
	case <-slow.timedOut:
	case <-time.After(time.Second):
		req.Fail("slow sink should have been cancelled by the sink timeout")
	}
	req.Eventually(func() bool { return fast.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestEventFanout_StopsOnContextCancel(t *testing.T) {
	req := require.New(t)
	events := make(chan event.DomainEvent)
	worker := NewEventFanout(testLogger(), events, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		req.Fail("fanout should stop when the context is cancelled")
	}
}
