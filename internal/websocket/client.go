// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package websocket

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/validation"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // 64 KB
)

// Config tunes map sessions.
type Config struct {
	// PointerMoveRate caps pointer_move messages per second per session.
	PointerMoveRate  float64 `koanf:"pointer_move_rate" validate:"gt=0"`
	PointerMoveBurst int     `koanf:"pointer_move_burst" validate:"gte=1"`
	SendBuffer       int     `koanf:"send_buffer" validate:"gte=1"`
	SessionQueue     int     `koanf:"session_queue" validate:"gte=1"`
}

// DefaultConfig allows 60 pointer moves per second with a burst of 4.
func DefaultConfig() Config {
	return Config{
		PointerMoveRate:  60,
		PointerMoveBurst: 4,
		SendBuffer:       256,
		SessionQueue:     64,
	}
}

func (c Config) normalize() Config {
	d := DefaultConfig()
	if !(c.PointerMoveRate > 0) {
		c.PointerMoveRate = d.PointerMoveRate
	}
	if c.PointerMoveBurst <= 0 {
		c.PointerMoveBurst = d.PointerMoveBurst
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = d.SendBuffer
	}
	if c.SessionQueue <= 0 {
		c.SessionQueue = d.SessionQueue
	}
	return c
}

// clientIDCounter generates unique, monotonically increasing IDs for clients.
// Clients are sorted by id for broadcasts.
var clientIDCounter atomic.Uint64

// Client is a middleman between the websocket connection, its map session
// and the hub.
type Client struct {
	id       uint64
	hub      *Hub
	conn     *websocket.Conn
	send     chan Message
	category models.Category
	limiter  *rate.Limiter
	session  *Session

	mu     sync.Mutex
	closed bool
}

// NewClient creates a new Client with a unique deterministic ID. Attach a
// session before Start; a client without one only answers pings.
func NewClient(hub *Hub, conn *websocket.Conn, category models.Category, cfg Config) *Client {
	cfg = cfg.normalize()
	return &Client{
		id:       clientIDCounter.Add(1),
		hub:      hub,
		conn:     conn,
		send:     make(chan Message, cfg.SendBuffer),
		category: category,
		limiter:  rate.NewLimiter(rate.Limit(cfg.PointerMoveRate), cfg.PointerMoveBurst),
	}
}

// ID returns the client's unique identifier for deterministic ordering
func (c *Client) ID() uint64 {
	return c.id
}

// Category returns the category the client is viewing.
func (c *Client) Category() models.Category {
	return c.category
}

// Attach binds the session that handles this client's input.
func (c *Client) Attach(s *Session) {
	c.session = s
}

// Send queues msg without blocking. It reports false when the buffer is
// full or the client has been closed.
func (c *Client) Send(msg Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel once; writePump then sends a close frame.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump pumps messages from the websocket connection to the session
func (c *Client) readPump(cancel context.CancelFunc) {
	defer func() {
		cancel()
		c.hub.Leave(c)
		_ = c.conn.Close() // Explicitly ignore error - best-effort cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Msg("unexpected websocket close error")
			}
			break
		}
		metrics.WSMessagesReceived.Inc()

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			metrics.RecordWSDropped("invalid")
			c.Send(Message{Type: MessageTypeError, Data: ErrorData{Code: "BAD_REQUEST", Message: "malformed message"}})
			continue
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg ClientMessage) {
	if msg.Type == MessageTypePing {
		c.Send(Message{Type: MessageTypePong})
		return
	}
	if msg.Type == MessageTypePointerMove && !c.limiter.Allow() {
		metrics.RecordWSDropped("throttled")
		return
	}
	if c.session == nil {
		return
	}
	if err := c.session.Handle(msg); err != nil {
		metrics.RecordWSDropped("invalid")
		logging.Debug().Err(err).Str("message_type", msg.Type).Uint64("client_id", c.id).Msg("rejected client message")
		c.Send(Message{Type: MessageTypeError, Data: errorData(msg.Type, err)})
	}
}

func errorData(msgType string, err error) ErrorData {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		apiErr := verr.ToAPIError()
		return ErrorData{Code: apiErr.Code, Message: apiErr.Message, Type: msgType}
	}
	return ErrorData{Code: "BAD_REQUEST", Message: err.Error(), Type: msgType}
}

// writePump pumps messages from the send channel to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Explicitly ignore error - best-effort cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// The hub closed the channel
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logging.Debug().Err(err).Msg("failed to write close message")
				}
				return
			}

			data, err := MarshalMessage(message)
			if err != nil {
				logging.Error().Err(err).Str("message_type", message.Type).Msg("failed to marshal message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logging.Error().Err(err).Msg("failed to write JSON message")
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start registers the client with the hub and begins reading, writing and
// running its session. The session stops when the connection closes or ctx
// is canceled. It reports false, closing the connection, when the hub has
// already stopped.
func (c *Client) Start(ctx context.Context) bool {
	if !c.hub.Join(c) {
		_ = c.conn.Close()
		if c.session != nil {
			c.session.Close()
		}
		return false
	}
	ctx, cancel := context.WithCancel(ctx)

	go c.writePump()
	if c.session != nil {
		go func() {
			_ = c.session.Run(ctx)
		}()
	}
	go c.readPump(cancel)
	return true
}
