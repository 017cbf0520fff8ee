package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"chat-wire/domain"
	"chat-wire/domain/event"
	"chat-wire/transport"
)

// session binds one websocket to one authenticated user. It implements
// contract.Session: the hub pushes events through Consume, the
// registry calls Kick when a newer connection supersedes this one.
type session struct {
	identity domain.UserIdentity
	conn     *transport.Conn
	events   chan event.DomainEvent
	log      *slog.Logger
}

func newSession(log *slog.Logger, identity domain.UserIdentity,
	conn *transport.Conn, bufferSize int) *session {
	return &session{
		identity: identity,
		conn:     conn,
		events:   make(chan event.DomainEvent, bufferSize),
		log:      log,
	}
}

// Consume hands an event to the pump. It never blocks: a full buffer
// means the client is not keeping up and the event is dropped, which
// the caller reports as a failed delivery.
func (s *session) Consume(_ context.Context, e event.DomainEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-s.conn.Done():
		return fmt.Errorf("session closed")
	default:
		return fmt.Errorf("session buffer full")
	}
}

// Kick closes the socket. The read loop unwinds and runs the normal
// cleanup, where the epoch guard keeps it from touching the newer
// registration.
func (s *session) Kick() {
	s.log.Info("session superseded", "userID", s.identity.ID)
	s.conn.Close()
}

// pumpEvents translates domain events into wire frames until the
// connection dies.
func (s *session) pumpEvents() {
	for {
		select {
		case e := <-s.events:
			s.push(e)
		case <-s.conn.Done():
			return
		}
	}
}

func (s *session) push(e event.DomainEvent) {
	var (
		data []byte
		err  error
	)

	switch evt := e.(type) {
	case event.MessageStored:
		msg := toMessageJSON(evt.Message)
		data, err = marshalFrame(frameChatMessage, 0, msg)
	case event.TypingStarted:
		data, err = marshalFrame(frameUserTyping, 0, typingNotification{Username: evt.SenderName})
	default:
		return
	}

	if err != nil {
		s.log.Error("frame encoding failed", "error", err)
		return
	}
	if err := s.conn.Send(data); err != nil {
		s.log.Warn("push failed, closing slow connection",
			"userID", s.identity.ID, "error", err)
		s.conn.Close()
	}
}

// handleWS authenticates, upgrades, and runs the connection lifecycle.
// Nothing is registered or counted before authentication succeeds: a
// bad token is refused without touching any state.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeErrorMessage(w, http.StatusUnauthorized, "authorization token is missing")
		return
	}
	identity, err := s.identity.Authenticate(token)
	if err != nil {
		writeErrorMessage(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "error", err)
		return
	}

	log := s.log.With("userID", identity.ID, "username", identity.Username)
	readLimit := int64(s.config.MaxContentLength) + 1024 // envelope overhead
	conn := transport.NewConn(log, ws, s.config.ConnectionBufferSize,
		s.config.WriteWait, s.config.PongWait, readLimit)
	sess := newSession(log, identity, conn, s.config.ConnectionBufferSize)

	epoch, superseded := s.registry.Register(identity.ID, sess)
	if superseded != nil {
		superseded.Kick()
	}
	s.presence.Connected(identity.ID)
	s.metrics.ConnectionOpened()
	log.Info("connection opened", "epoch", epoch)

	defer func() {
		conn.Close()
		// Only the connection that still owns the registration flips
		// presence; a superseded one lost that right at Register time.
		if s.registry.Unregister(identity.ID, epoch) {
			s.presence.Disconnected(identity.ID)
		}
		s.metrics.ConnectionClosed()
		log.Info("connection closed", "epoch", epoch)
	}()

	go conn.WriteLoop()
	go sess.pumpEvents()

	if data, err := marshalFrame(frameConnected, 0,
		connectedPayload{UserID: identity.ID, Username: identity.Username}); err == nil {
		_ = conn.Send(data)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-conn.Done()
		cancel()
	}()

	conn.ReadLoop(func(data []byte) {
		s.handleFrame(ctx, sess, data)
	})
}

func (s *Server) handleFrame(ctx context.Context, sess *session, data []byte) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		sess.log.Warn("malformed frame dropped", "error", err)
		return
	}

	switch f.Type {
	case frameChatMessage:
		s.handleChatFrame(ctx, sess, f)
	case frameTyping:
		var payload typingPayload
		if err := json.Unmarshal(f.Payload, &payload); err != nil {
			sess.log.Warn("malformed typing payload dropped", "error", err)
			return
		}
		s.chat.NotifyTyping(ctx, sess.identity, payload.RecipientID)
	default:
		sess.log.Warn("unknown frame type dropped", "type", f.Type)
	}
}

// handleChatFrame runs the send pipeline and answers with an ack frame
// carrying the client's seq, so the client can resolve the matching
// pending send.
func (s *Server) handleChatFrame(ctx context.Context, sess *session, f frame) {
	var payload sendPayload
	if err := json.Unmarshal(f.Payload, &payload); err != nil {
		s.sendAck(sess, f.Seq, ackPayload{Status: ackStatusError, Error: "malformed payload"})
		return
	}

	msg, err := s.chat.Send(ctx, sess.identity, payload.RecipientID, payload.Text)
	if err != nil {
		s.sendAck(sess, f.Seq, ackPayload{Status: ackStatusError, Error: err.Error()})
		return
	}

	stored := toMessageJSON(msg)
	s.sendAck(sess, f.Seq, ackPayload{Status: ackStatusOK, Message: &stored})
}

func (s *Server) sendAck(sess *session, seq int64, ack ackPayload) {
	data, err := marshalFrame(frameAck, seq, ack)
	if err != nil {
		sess.log.Error("ack encoding failed", "error", err)
		return
	}
	if err := sess.conn.Send(data); err != nil {
		sess.log.Warn("ack dropped", "error", err)
	}
}
