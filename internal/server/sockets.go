package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Hub holds active dashboard connections: map[userID] -> connection. One
// connection per user; a new connection replaces the old one.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn

	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Allow CORS for development
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[userID]; ok {
		old.Close()
	}
	h.clients[userID] = conn
	log.Info().Str("user_id", userID).Msg("WebSocket client connected")
}

func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.clients[userID]; ok && current == conn {
		delete(h.clients, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket client disconnected")
	}
}

// TriggerDashboardUpdate notifies a specific user to refetch their dashboard.
func (h *Hub) TriggerDashboardUpdate(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.clients[userID]; ok {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("REFRESH")); err != nil {
			log.Error().Err(err).Msg("Failed to send WS message, removing client")
			conn.Close()
			delete(h.clients, userID)
		}
	}
}

func (s *Server) dashboardSocketHandler(c echo.Context) error {
	userID := c.Param("user_id")

	conn, err := s.hub.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}
	s.hub.Register(userID, conn)

	// Drain reads until the peer closes so pings and close frames are
	// processed; the server only ever writes.
	go func() {
		defer func() {
			s.hub.Unregister(userID, conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}
