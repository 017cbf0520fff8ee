package services

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"chat-wire/domain"
	"chat-wire/domain/event"
	"chat-wire/hub"
	"chat-wire/repositories"

	"github.com/stretchr/testify/require"
)

type recordingSession struct {
	mu     sync.Mutex
	events []event.DomainEvent
	kicked bool
}

func (s *recordingSession) Consume(_ context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSession) Kick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kicked = true
}

func (s *recordingSession) received() []event.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.DomainEvent{}, s.events...)
}

func newChatFixture(t *testing.T) (*ChatService, *hub.Registry) {
	t.Helper()
	registry := hub.NewRegistry()
	messages := repositories.NewMessageRepository(openTestDB(t), slog.Default(), nil)
	router := hub.NewRouter(slog.Default(), registry, messages, nil, 4096)
	relay := hub.NewTypingRelay(slog.Default(), registry, nil)
	return NewChatService(router, relay, messages), registry
}

func TestChatService_EndToEnd_SendAndHistory(t *testing.T) {
	req := require.New(t)
	chat, registry := newChatFixture(t)
	ctx := context.Background()

	alice := domain.UserIdentity{ID: "alice-id", Username: "alice"}
	bobSession := &recordingSession{}
	registry.Register("bob-id", bobSession)

	// Given alice and bob are connected, alice sends "hi" to bob
	sent, err := chat.Send(ctx, alice, "bob-id", "hi")
	req.NoError(err)

	// Then bob's connection receives the full message record
	received := bobSession.received()
	req.Len(received, 1)
	stored := received[0].(event.MessageStored)
	req.Equal("hi", stored.Message.Text)
	req.Equal("alice", stored.Message.SenderName)

	// When alice sends to clara who is not connected
	toClara, err := chat.Send(ctx, alice, "clara-id", "hi")

	// Then alice still gets a positive receipt
	req.NoError(err)

	// And clara finds the message via a history fetch
	history, err := chat.History("clara-id", "alice-id")
	req.NoError(err)
	req.Len(history, 1)
	req.Equal(toClara.ID, history[0].ID)

	// Alice's own history with bob holds the first message, oldest first
	withBob, err := chat.History("alice-id", "bob-id")
	req.NoError(err)
	req.Len(withBob, 1)
	req.Equal(sent.ID, withBob[0].ID)
}

func TestChatService_TypingToDisconnectedPeerIsSilent(t *testing.T) {
	req := require.New(t)
	chat, registry := newChatFixture(t)

	// A connects, B connects, A disconnects
	alice := &recordingSession{}
	bob := &recordingSession{}
	epoch, _ := registry.Register("alice-id", alice)
	registry.Register("bob-id", bob)
	registry.Unregister("alice-id", epoch)

	// B types to A: dropped silently, nothing raised to B
	chat.NotifyTyping(context.Background(),
		domain.UserIdentity{ID: "bob-id", Username: "bob"}, "alice-id")

	req.Empty(alice.received())
	req.Empty(bob.received())
}
