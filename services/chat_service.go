package services

import (
	"context"

	"chat-wire/domain"
	"chat-wire/hub"
	"chat-wire/repositories"

	"github.com/samber/lo"
)

type IChatService interface {
	Send(ctx context.Context, sender domain.UserIdentity, recipientID, text string) (domain.Message, error)
	NotifyTyping(ctx context.Context, sender domain.UserIdentity, recipientID string)
	History(userID, peerID string) ([]domain.Message, error)
}

// ChatService is the transport-facing facade over the live core and
// the history store.
type ChatService struct {
	router   *hub.Router
	relay    *hub.TypingRelay
	messages repositories.IMessageRepository
}

func NewChatService(router *hub.Router, relay *hub.TypingRelay,
	messages repositories.IMessageRepository) *ChatService {
	return &ChatService{router: router, relay: relay, messages: messages}
}

func (s *ChatService) Send(ctx context.Context, sender domain.UserIdentity,
	recipientID, text string) (domain.Message, error) {
	return s.router.Send(ctx, sender, recipientID, text)
}

func (s *ChatService) NotifyTyping(ctx context.Context, sender domain.UserIdentity, recipientID string) {
	s.relay.NotifyTyping(ctx, sender, recipientID)
}

// History returns the persisted conversation between two users, oldest
// first. The live path never reads it; clients call this on
// conversation open and after reconnecting.
func (s *ChatService) History(userID, peerID string) ([]domain.Message, error) {
	stored, err := s.messages.History(userID, peerID)
	if err != nil {
		return nil, err
	}
	return lo.Map(stored, func(m repositories.StoredMessage, _ int) domain.Message {
		return repositories.ToDomain(m)
	}), nil
}
