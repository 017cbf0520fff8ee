// Package observability aggregates live counters for diagnostics.
// It observes the event stream; it never influences delivery.
package observability

import (
	"context"
	"runtime"
	"sync/atomic"

	"chat-wire/domain"
	"chat-wire/domain/event"
)

// Snapshot is the /stats payload.
type Snapshot struct {
	ActiveConnections int64  `json:"active_connections"`
	MessagesStored    uint64 `json:"messages_stored"`
	MessagesDelivered uint64 `json:"messages_delivered"`
	MessagesMissed    uint64 `json:"messages_missed"`
	TypingRelayed     uint64 `json:"typing_relayed"`
	Connects          uint64 `json:"connects"`
	Disconnects       uint64 `json:"disconnects"`
	AllocMemMb        uint64 `json:"alloc_mem_mb"`
	NumGC             uint32 `json:"num_gc"`
}

// Metrics counts what flows through the system. It doubles as an
// EventSink so the fanout feeds it without extra plumbing.
type Metrics struct {
	activeConnections atomic.Int64
	messagesStored    atomic.Uint64
	messagesDelivered atomic.Uint64
	messagesMissed    atomic.Uint64
	typingRelayed     atomic.Uint64
	connects          atomic.Uint64
	disconnects       atomic.Uint64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageStored:
		m.messagesStored.Add(1)
		if evt.Delivered {
			m.messagesDelivered.Add(1)
		} else {
			m.messagesMissed.Add(1)
		}
	case event.TypingStarted:
		m.typingRelayed.Add(1)
	case event.PresenceChanged:
		if evt.Status == domain.StatusOnline {
			m.connects.Add(1)
		} else {
			m.disconnects.Add(1)
		}
	}
	return nil
}

// ConnectionOpened and ConnectionClosed are driven by the transport
// layer, which knows about sockets before any domain event exists.
func (m *Metrics) ConnectionOpened() { m.activeConnections.Add(1) }
func (m *Metrics) ConnectionClosed() { m.activeConnections.Add(-1) }

func (m *Metrics) Snapshot() Snapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return Snapshot{
		ActiveConnections: m.activeConnections.Load(),
		MessagesStored:    m.messagesStored.Load(),
		MessagesDelivered: m.messagesDelivered.Load(),
		MessagesMissed:    m.messagesMissed.Load(),
		TypingRelayed:     m.typingRelayed.Load(),
		Connects:          m.connects.Load(),
		Disconnects:       m.disconnects.Load(),
		AllocMemMb:        memStats.Alloc / 1024 / 1024,
		NumGC:             memStats.NumGC,
	}
}
