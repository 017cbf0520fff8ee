package hub

import (
	"context"
	"log/slog"

	"chat-wire/contract"
	"chat-wire/domain"
	"chat-wire/domain/event"
)

// TypingRelay forwards ephemeral typing signals to the addressed peer.
// No persistence, no acknowledgement, no retry: when the recipient is
// not connected the signal is dropped silently.
type TypingRelay struct {
	registry contract.Registry
	log      *slog.Logger
	events   chan<- event.DomainEvent
}

func NewTypingRelay(log *slog.Logger, registry contract.Registry,
	events chan<- event.DomainEvent) *TypingRelay {
	return &TypingRelay{registry: registry, log: log, events: events}
}

func (t *TypingRelay) NotifyTyping(ctx context.Context, sender domain.UserIdentity, recipientID string) {
	session, ok := t.registry.Lookup(recipientID)
	if !ok {
		return
	}

	signal := event.TypingStarted{
		SenderID:   sender.ID,
		SenderName: sender.Username,
		Recipient:  recipientID,
	}
	if err := session.Consume(ctx, signal); err != nil {
		t.log.Debug("typing signal dropped", "recipient_id", recipientID, "error", err)
		return
	}
	publish(t.log, t.events, signal)
}
