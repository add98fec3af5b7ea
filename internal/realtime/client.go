package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/nventive-labs/todosync/internal/api/metrics"
	"github.com/nventive-labs/todosync/internal/core/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client is one live, authenticated connection. Its identity is fixed at
// handshake time and is the actor for every mutation it sends.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	identity domain.Identity
	send     chan []byte
	log      zerolog.Logger

	// mu guards closed and the close of send; enqueue and shut are the
	// only code allowed to touch the channel's lifecycle.
	mu     sync.Mutex
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn, identity domain.Identity, log zerolog.Logger) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		identity: identity,
		send:     make(chan []byte, sendBuffer),
		log:      log.With().Int64("user_id", identity.ID).Str("username", identity.Username).Logger(),
	}
}

// readPump reads inbound frames and dispatches them until the connection
// drops. Messages on one connection are handled sequentially; a dropped
// connection does not cancel mutations already in flight.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("read failed")
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			metrics.EventsErrorsTotal.WithLabelValues("malformed_frame").Inc()
			c.sendError("invalid message")
			continue
		}
		c.dispatch(context.Background(), env)
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings. One writer per connection; gorilla allows a single concurrent
// writer only.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) dispatch(ctx context.Context, env Envelope) {
	start := time.Now()
	var err error

	switch env.Event {
	case EventAddTodo:
		err = c.handleAddTodo(ctx, env.Data)
	case EventDeleteTodo:
		err = c.handleDeleteTodo(ctx, env.Data)
	case EventRetrieveComments:
		err = c.handleRetrieveComments(ctx, env.Data)
	case EventAddComment:
		err = c.handleAddComment(ctx, env.Data)
	default:
		c.log.Debug().Str("event", env.Event).Msg("ignoring unknown event")
		return
	}

	if err != nil {
		metrics.EventsErrorsTotal.WithLabelValues(env.Event).Inc()
	} else {
		metrics.EventsProcessedTotal.WithLabelValues(env.Event).Inc()
	}
	metrics.EventDuration.WithLabelValues(env.Event).Observe(time.Since(start).Seconds())
}

func (c *Client) handleAddTodo(ctx context.Context, data json.RawMessage) error {
	var title string
	if err := json.Unmarshal(data, &title); err != nil {
		c.sendError("invalid message")
		return err
	}

	if _, err := c.hub.service.AddTodo(ctx, title, c.identity); err != nil {
		c.sendError("error adding todo")
		return err
	}
	if err := c.hub.BroadcastTodos(ctx); err != nil {
		c.sendError("error fetching todos")
		return err
	}
	return nil
}

func (c *Client) handleDeleteTodo(ctx context.Context, data json.RawMessage) error {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		c.sendError("invalid message")
		return err
	}

	if err := c.hub.service.DeleteTodo(ctx, id, c.identity); err != nil {
		// nothing changed, so nothing is broadcast; only the initiator
		// hears about the refusal
		c.sendError(clientMessage(err, "error deleting todo"))
		return err
	}
	if err := c.hub.BroadcastTodos(ctx); err != nil {
		c.sendError("error fetching todos")
		return err
	}
	return nil
}

func (c *Client) handleRetrieveComments(ctx context.Context, data json.RawMessage) error {
	var todoID string
	if err := json.Unmarshal(data, &todoID); err != nil {
		c.sendError("invalid message")
		return err
	}

	comments, err := c.hub.service.ListComments(ctx, todoID)
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			// a missing todo yields no reply at all; clients treat
			// silence as "nothing to show"
			return nil
		}
		c.sendError("error retrieving comments")
		return err
	}

	// point-to-point reply, never broadcast
	frame, err := encode(EventDisplayComments, displayCommentsPayload{Comments: comments, TodoID: todoID})
	if err != nil {
		return err
	}
	c.enqueue(frame)
	return nil
}

func (c *Client) handleAddComment(ctx context.Context, data json.RawMessage) error {
	var payload addCommentPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendError("invalid message")
		return err
	}

	if _, err := c.hub.service.AddComment(ctx, payload.TodoID, payload.Comment, c.identity); err != nil {
		c.sendError(clientMessage(err, "error adding comment"))
		return err
	}
	if err := c.hub.BroadcastComments(ctx, payload.TodoID); err != nil {
		c.sendError("error retrieving comments")
		return err
	}
	return nil
}

func (c *Client) sendError(message string) {
	frame, err := encode(EventError, errorPayload{Message: message})
	if err != nil {
		return
	}
	c.enqueue(frame)
}

// enqueue delivers a frame to this client only, dropping it when the
// client's buffer is full instead of blocking the caller. Frames for a
// client the hub has already shut are discarded; the closed check and the
// channel send share the mutex with shut, so enqueue can never race the
// close of send.
func (c *Client) enqueue(frame []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- frame:
	default:
		c.log.Warn().Msg("send buffer full, dropping frame")
	}
}

// shut tears the client down exactly once: marks it closed, closes the
// send channel so writePump exits, and closes the connection so readPump
// stops dispatching. Safe to call from any goroutine.
func (c *Client) shut() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()
	c.conn.Close()
}

// clientMessage picks the message surfaced to the initiator: domain
// refusals are precise, everything else collapses to a generic fallback so
// storage internals never leak to clients.
func clientMessage(err error, fallback string) string {
	if errors.Is(err, domain.ErrTodoNotFound) || errors.Is(err, domain.ErrForbidden) {
		return err.Error()
	}
	return fallback
}
