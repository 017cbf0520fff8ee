package event

import (
	"chat-wire/domain"
)

// DomainEvent is anything that happened in the live chat core.
// Addressed events carry the identifier of the single user they are
// destined for; lifecycle events return an empty recipient.
type DomainEvent interface {
	RecipientID() string
}

// MessageStored is emitted after a message has been durably recorded.
// It drives both the live push to the recipient and observability.
// Delivered reports whether the live push reached the recipient; it is
// informational only, the acknowledged contract is durability.
type MessageStored struct {
	Message   domain.Message
	Delivered bool
}

func (e MessageStored) RecipientID() string {
	return e.Message.RecipientID
}

// TypingStarted is ephemeral: forwarded to the addressed peer when
// connected, dropped otherwise, never persisted.
type TypingStarted struct {
	SenderID   string
	SenderName string
	Recipient  string
}

func (e TypingStarted) RecipientID() string {
	return e.Recipient
}

// PresenceChanged records a connect/disconnect transition. It is not
// addressed to anyone; clients observe presence via the profile store.
type PresenceChanged struct {
	UserID string
	Status domain.PresenceStatus
}

func (e PresenceChanged) RecipientID() string {
	return ""
}
