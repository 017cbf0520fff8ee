// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event between two users.
// It is created once by the router and never mutated afterwards.
type Message struct {
	ID          uuid.UUID
	SenderID    string
	SenderName  string
	RecipientID string
	Text        string
	CreatedAt   time.Time
}

// NewMessage builds a message with a fresh identifier and timestamp.
// The text is expected to be validated (trimmed, non-empty) by the caller.
func NewMessage(sender UserIdentity, recipientID, text string) Message {
	return Message{
		ID:          uuid.New(),
		SenderID:    sender.ID,
		SenderName:  sender.Username,
		RecipientID: recipientID,
		Text:        text,
		CreatedAt:   time.Now().UTC(),
	}
}

// ConversationID returns the canonical key for the unordered pair of
// participants. Both (a, b) and (b, a) map to the same conversation.
func ConversationID(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "#" + b
}
