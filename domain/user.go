// Package domain contains core concepts of the chat system.
// This file defines user identity and presence. Presence is derived
// from connection membership, never set directly by clients.
package domain

// UserIdentity is the stable identity of an authenticated user,
// independent of any particular connection. It is resolved once at
// connection time and immutable for the connection's lifetime.
type UserIdentity struct {
	ID       string
	Username string
}

// PresenceStatus is the persisted online/offline state of a user.
type PresenceStatus string

const (
	StatusOnline  PresenceStatus = "online"
	StatusOffline PresenceStatus = "offline"
)
