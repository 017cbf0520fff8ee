package hub

import (
	"fmt"
	"log/slog"

	"chat-wire/domain/event"
)

// publish pushes an event onto the observability channel without ever
// blocking the caller's connection task. The fanout is best-effort;
// dropping an observability event must not affect delivery or acks.
func publish(log *slog.Logger, events chan<- event.DomainEvent, e event.DomainEvent) {
	if events == nil {
		return
	}
	select {
	case events <- e:
	default:
		log.Debug(fmt.Sprintf("Observability channel full, dropping %T", e))
	}
}
