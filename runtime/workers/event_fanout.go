package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-wire/contract"
	"chat-wire/domain/event"
)

// EventFanout drains the hub's observability channel into the
// permanent sinks (timeline projection, metrics).
//
// It provides best-effort fan-out with no guarantees regarding
// delivery, ordering, durability, or retries. EventFanout is not the
// message delivery path: the router pushes to recipients directly and
// has already acknowledged the sender by the time an event lands here.
type EventFanout struct {
	Log         *slog.Logger
	Events      <-chan event.DomainEvent
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, events <-chan event.DomainEvent,
	sinkTimeout time.Duration, sinks ...contract.EventSink) *EventFanout {
	return &EventFanout{Log: log, Events: events, sinkTimeout: sinkTimeout, sinks: sinks}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.Events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.Log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// Fanout hands the event to every sink, each within its own timeout so
// one slow consumer cannot starve the rest.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.Log.Debug("Sink rejected event", "error", err)
		}
		cancel()
	}
}
