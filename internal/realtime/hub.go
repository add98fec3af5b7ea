package realtime

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nventive-labs/todosync/internal/api/metrics"
	"github.com/nventive-labs/todosync/internal/core/ports"
)

// Hub owns the registry of live, authenticated connections and fans
// outbound frames to all of them. State is treated as globally shared and
// convergent: every mutation re-reads committed storage and the result is
// broadcast to every client, so views never drift apart. "All connections"
// is a deliberate topic here; scoping delivery to rooms later is a filter
// on the registry, not a protocol change.
//
// The run loop is the sole owner of the client map, so no lock is needed.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	service ports.TodoService
	log     zerolog.Logger
}

func NewHub(service ports.TodoService, log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client, 1),
		broadcast:  make(chan []byte, 16),
		service:    service,
		log:        log,
	}
}

// Run processes registry changes and broadcasts until ctx is cancelled,
// then closes every live connection and drains remaining unregisters
// before returning.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case client := <-h.register:
			h.clients[client] = true
			metrics.ConnectionsLive.Inc()
			h.log.Info().Int64("user_id", client.identity.ID).Str("username", client.identity.Username).Msg("client connected")
		case client := <-h.unregister:
			h.drop(client)
		case frame := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- frame:
				default:
					// client cannot keep up; cut it loose rather than
					// stalling everyone else's broadcasts
					h.drop(client)
				}
			}
		}
	}
}

// drop removes a client from the registry and shuts it down, connection
// included. Leaving the socket open would keep its read pump dispatching
// mutations it can never see the results of.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.shut()
	metrics.ConnectionsLive.Dec()
	h.log.Info().Int64("user_id", client.identity.ID).Str("username", client.identity.Username).Msg("client disconnected")
}

func (h *Hub) shutdown() {
	for client := range h.clients {
		h.drop(client)
	}
	for {
		select {
		case client := <-h.unregister:
			h.drop(client)
		case client := <-h.register:
			client.shut()
		default:
			return
		}
	}
}

// BroadcastTodos re-reads the full todo collection and pushes it to every
// connected client. The read bypasses the snapshot cache and happens after
// the triggering mutation has committed, so the broadcast always reflects
// storage state.
func (h *Hub) BroadcastTodos(ctx context.Context) error {
	todos, err := h.service.ListTodosFresh(ctx)
	if err != nil {
		return err
	}
	frame, err := encode(EventTodos, todos)
	if err != nil {
		return err
	}
	h.broadcast <- frame
	metrics.BroadcastsTotal.WithLabelValues(EventTodos).Inc()
	return nil
}

// BroadcastComments re-reads one todo's comment thread and pushes it to
// every connected client. Clients filter by todo_id on their side.
func (h *Hub) BroadcastComments(ctx context.Context, todoID string) error {
	comments, err := h.service.ListComments(ctx, todoID)
	if err != nil {
		return err
	}
	frame, err := encode(EventDisplayComments, displayCommentsPayload{Comments: comments, TodoID: todoID})
	if err != nil {
		return err
	}
	h.broadcast <- frame
	metrics.BroadcastsTotal.WithLabelValues(EventDisplayComments).Inc()
	return nil
}
