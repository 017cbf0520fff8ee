package server

import (
	"encoding/json"
	"time"

	"chat-wire/domain"
)

// Frame types exchanged over the websocket. Inbound chatMessage frames
// are acknowledged with an ack frame carrying the same seq, giving the
// client request/response semantics over the asynchronous channel.
const (
	frameChatMessage = "chatMessage"
	frameTyping      = "typing"
	frameAck         = "ack"
	frameUserTyping  = "userTyping"
	frameConnected   = "connected"
)

const (
	ackStatusOK    = "ok"
	ackStatusError = "error"
)

type frame struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type sendPayload struct {
	RecipientID string `json:"recipientId"`
	Text        string `json:"text"`
}

type typingPayload struct {
	RecipientID string `json:"recipientId"`
}

type ackPayload struct {
	Status  string       `json:"status"`
	Message *messageJSON `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type connectedPayload struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type typingNotification struct {
	Username string `json:"username"`
}

type senderJSON struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type messageJSON struct {
	ID          string     `json:"id"`
	Sender      senderJSON `json:"sender"`
	RecipientID string     `json:"recipientId"`
	Text        string     `json:"text"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toMessageJSON(m domain.Message) messageJSON {
	return messageJSON{
		ID:          m.ID.String(),
		Sender:      senderJSON{ID: m.SenderID, Username: m.SenderName},
		RecipientID: m.RecipientID,
		Text:        m.Text,
		CreatedAt:   m.CreatedAt,
	}
}

func marshalFrame(frameType string, seq int64, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(frame{Type: frameType, Seq: seq, Payload: raw})
}
