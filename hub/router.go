package hub

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"chat-wire/contract"
	"chat-wire/domain"
	"chat-wire/domain/event"
	"chat-wire/errors"
	"chat-wire/repositories"
)

// Router delivers point-to-point messages. A message is durably
// recorded before the sender is acknowledged; the live push to the
// recipient is a best-effort enhancement whose failure is logged and
// swallowed (the recipient catches up via the history fetch).
type Router struct {
	registry         contract.Registry
	messages         repositories.IMessageRepository
	log              *slog.Logger
	events           chan<- event.DomainEvent
	maxContentLength int
}

func NewRouter(log *slog.Logger, registry contract.Registry,
	messages repositories.IMessageRepository, events chan<- event.DomainEvent,
	maxContentLength int) *Router {
	return &Router{
		registry:         registry,
		messages:         messages,
		log:              log,
		events:           events,
		maxContentLength: maxContentLength,
	}
}

// Send validates, persists and then best-effort delivers a message.
// A nil error is the positive delivery receipt: the message is on disk.
// Any error means nothing was stored and nothing was delivered.
func (r *Router) Send(ctx context.Context, sender domain.UserIdentity,
	recipientID, text string) (domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}
	if r.maxContentLength > 0 && len(text) > r.maxContentLength {
		return domain.Message{}, errors.ErrMessageTooLong
	}

	message := domain.NewMessage(sender, recipientID, text)

	// Fail closed: an unrecorded message is never pushed live, so a
	// positive ack can never be a false one.
	if err := r.messages.Store(repositories.FromDomain(message)); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrStoreMessage, err)
	}

	delivered := r.tryDeliver(ctx, message)
	publish(r.log, r.events, event.MessageStored{Message: message, Delivered: delivered})
	return message, nil
}

// tryDeliver pushes the message to the recipient's current session if
// there is one. It never returns an error: after successful
// persistence there is no failure mode left that concerns the sender.
func (r *Router) tryDeliver(ctx context.Context, message domain.Message) bool {
	session, ok := r.registry.Lookup(message.RecipientID)
	if !ok {
		return false
	}
	if err := session.Consume(ctx, event.MessageStored{Message: message, Delivered: true}); err != nil {
		r.log.Warn("live delivery failed, recipient will catch up via history",
			"message_id", message.ID, "recipient_id", message.RecipientID, "error", err)
		return false
	}
	return true
}
