package realtime

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nventive-labs/todosync/internal/core/ports"
)

// Handler upgrades authenticated HTTP requests into hub connections.
type Handler struct {
	hub      *Hub
	auth     ports.AuthService
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewHandler(hub *Hub, auth ports.AuthService, log zerolog.Logger) *Handler {
	return &Handler{
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// mobile clients connect from arbitrary origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Serve handles GET /ws. The token travels in connection metadata, either
// the Authorization header or a token query parameter. Authentication
// completes before the upgrade: a refused connection never registers, never
// receives a frame, and no event handler ever runs for it.
func (h *Handler) Serve(c echo.Context) error {
	identity, err := h.auth.Verify(connectionToken(c))
	if err != nil {
		h.log.Warn().Err(err).Str("remote", c.RealIP()).Msg("connection refused")
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the failure response
		return nil
	}

	client := newClient(h.hub, conn, identity, h.log)

	// connect implies full resync: the complete collection goes to this
	// client alone, no request needed. The snapshot is queued before
	// registration so a broadcast from a concurrent mutation cannot slip
	// in ahead of it and be overwritten client-side.
	if todos, err := h.hub.service.ListTodos(c.Request().Context()); err != nil {
		client.sendError("error fetching todos")
	} else if frame, err := encode(EventTodos, todos); err == nil {
		client.enqueue(frame)
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}

func connectionToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	return c.QueryParam("token")
}
