//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-wire/domain"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	Store(message StoredMessage) error
	History(a, b string) ([]StoredMessage, error)
}

// MessageRepository is the append-only history store. The router only
// ever appends; reads happen exclusively through the history fetch.
type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// StoredMessage is the on-disk representation of a message.
type StoredMessage struct {
	ID          uuid.UUID `json:"id"`
	SenderID    string    `json:"senderId"`
	SenderName  string    `json:"senderName"`
	RecipientID string    `json:"recipientId"`
	Text        string    `json:"text"`
	At          time.Time `json:"createdAt"`
}

// key formats the Badger key as "msg:{pair}:{timestamp_padded}:{uuid}" to:
//  1. Group all messages of one unordered participant pair under a prefix.
//  2. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  3. Prevent data loss by using the UUID as a collision disconnector if
//     two messages land on the same nanosecond.
func (m MessageRepository) key(message StoredMessage) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s",
		domain.ConversationID(message.SenderID, message.RecipientID),
		message.At.UnixNano(),
		message.ID,
	))
}

// Store persists a message. It must succeed before the sender is
// acknowledged; callers treat any error here as a failed send.
func (m MessageRepository) Store(message StoredMessage) error {
	bytes, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(m.key(message), bytes)
	})
}

// History retrieves the conversation between two participants, oldest
// first. Thanks to the padded timestamp in the key, a reverse prefix
// scan yields the newest messages first; collection stops at the
// configured limit and the result is flipped back to chronological order.
func (m MessageRepository) History(a, b string) ([]StoredMessage, error) {
	var raw [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", domain.ConversationID(a, b)))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible timestamp for this pair.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(raw) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				raw = append(raw, append([]byte{}, value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]StoredMessage, 0, len(raw))
	for _, bytes := range raw {
		var message StoredMessage
		if err = json.Unmarshal(bytes, &message); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return lo.Reverse(messages), nil
}

func FromDomain(message domain.Message) StoredMessage {
	return StoredMessage{
		ID:          message.ID,
		SenderID:    message.SenderID,
		SenderName:  message.SenderName,
		RecipientID: message.RecipientID,
		Text:        message.Text,
		At:          message.CreatedAt,
	}
}

func ToDomain(message StoredMessage) domain.Message {
	return domain.Message{
		ID:          message.ID,
		SenderID:    message.SenderID,
		SenderName:  message.SenderName,
		RecipientID: message.RecipientID,
		Text:        message.Text,
		CreatedAt:   message.At,
	}
}
