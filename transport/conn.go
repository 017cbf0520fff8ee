// Package transport wraps a websocket with the read/write pump pair.
// It knows nothing about chat semantics: bytes in, bytes out, liveness
// via ping/pong deadlines.
package transport

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Conn struct {
	ws        *websocket.Conn
	send      chan []byte
	log       *slog.Logger
	writeWait time.Duration
	pongWait  time.Duration
	readLimit int64
	closeOnce sync.Once
	done      chan struct{}
}

func NewConn(log *slog.Logger, ws *websocket.Conn, sendBuffer int,
	writeWait, pongWait time.Duration, readLimit int64) *Conn {
	return &Conn{
		ws:        ws,
		send:      make(chan []byte, sendBuffer),
		log:       log,
		writeWait: writeWait,
		pongWait:  pongWait,
		readLimit: readLimit,
		done:      make(chan struct{}),
	}
}

// Send queues a frame for the write pump. It never blocks: when the
// buffer is full the connection is considered too slow to live.
func (c *Conn) Send(data []byte) error {
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return websocket.ErrCloseSent
	default:
		return fmt.Errorf("send buffer full")
	}
}

// Close tears the socket down; both pumps exit on their next operation.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// Done is closed once the connection has been torn down.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// ReadLoop blocks, feeding every inbound text frame to the handler.
// It returns when the peer goes away or the socket errors; the caller
// owns the cleanup that follows.
func (c *Conn) ReadLoop(handler func(data []byte)) {
	defer c.Close()

	c.ws.SetReadLimit(c.readLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Error("read error", "error", err)
			}
			return
		}
		handler(data)
	}
}

// WriteLoop drains the send channel onto the wire and keeps the
// connection alive with periodic pings. Run it in its own goroutine.
func (c *Conn) WriteLoop() {
	pingPeriod := (c.pongWait * 9) / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
