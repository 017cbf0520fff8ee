// Package projection builds local timelines from observed events.
// Handles ordering and bounded retention for diagnostics.
// Does not emit events or take part in message delivery.
package projection

import (
	"context"
	"sync"

	"chat-wire/domain"
	"chat-wire/domain/event"
)

// Timeline keeps the most recent messages seen on the event stream.
// It backs the /stats diagnostics view only; history queries go to the
// message repository.
type Timeline struct {
	mu       sync.RWMutex
	capacity int
	messages []domain.Message
}

func NewTimeline(capacity int) *Timeline {
	return &Timeline{capacity: capacity}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	stored, ok := e.(event.MessageStored)
	if !ok {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, stored.Message)
	if t.capacity > 0 && len(t.messages) > t.capacity {
		t.messages = t.messages[len(t.messages)-t.capacity:]
	}
	return nil
}

// Recent returns a copy of the retained messages, oldest first.
func (t *Timeline) Recent() []domain.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]domain.Message{}, t.messages...)
}
