package hub

import (
	"log/slog"

	"chat-wire/domain"
	"chat-wire/domain/event"
	"chat-wire/repositories"
)

// PresenceTracker derives online/offline state from registry
// membership and persists the last known state on the profile store.
// It is the single writer of PresenceStatus.
//
// The caller decides when Disconnected fires: only after
// Registry.Unregister confirmed the departing connection was still the
// current one. A stale disconnect therefore never downgrades a user
// who has already reconnected.
type PresenceTracker struct {
	users  repositories.IUserRepository
	log    *slog.Logger
	events chan<- event.DomainEvent
}

func NewPresenceTracker(log *slog.Logger, users repositories.IUserRepository,
	events chan<- event.DomainEvent) *PresenceTracker {
	return &PresenceTracker{users: users, log: log, events: events}
}

// Connected marks a user online. Idempotent: re-confirming an online
// user rewrites the same state.
func (t *PresenceTracker) Connected(userID string) {
	t.transition(userID, domain.StatusOnline)
}

// Disconnected marks a user offline.
func (t *PresenceTracker) Disconnected(userID string) {
	t.transition(userID, domain.StatusOffline)
}

func (t *PresenceTracker) transition(userID string, status domain.PresenceStatus) {
	if err := t.users.SetStatus(userID, status); err != nil {
		// Presence is eventually consistent: a failed write is logged,
		// not surfaced, and the next transition re-syncs the store.
		t.log.Warn("presence persistence failed",
			"user_id", userID, "status", status, "error", err)
		return
	}
	publish(t.log, t.events, event.PresenceChanged{UserID: userID, Status: status})
}
