// server/internal/socket/hub.go
package socket

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type client struct {
	conn *websocket.Conn
	role string
}

// Hub tracks connected WebSocket clients keyed by employee ID and pushes
// JSON event notifications to individual staff or to everyone in a role.
type Hub struct {
	clients map[string]*client
	mu      sync.RWMutex
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
	}
}

// Register adds a client connection to the Hub.
func (h *Hub) Register(employeeID, role string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[employeeID] = &client{conn: conn, role: role}
	log.Info().Str("employeeID", employeeID).Str("role", role).Msg("WebSocket client registered")
}

// Unregister removes a client from the Hub.
func (h *Hub) Unregister(employeeID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[employeeID]; ok {
		delete(h.clients, employeeID)
		log.Info().Str("employeeID", employeeID).Msg("WebSocket client unregistered")
	}
}

// Send delivers a message to one client. A missing client is not an error,
// the member of staff is simply offline.
func (h *Hub) Send(employeeID string, message []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	cl, ok := h.clients[employeeID]
	if !ok {
		log.Debug().Str("employeeID", employeeID).Msg("WebSocket client not found, message dropped")
		return nil
	}

	return cl.conn.WriteMessage(websocket.TextMessage, message)
}

// SendToRole delivers a message to every connected client holding the given role.
func (h *Hub) SendToRole(role string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for employeeID, cl := range h.clients {
		if cl.role != role {
			continue
		}
		if err := cl.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Warn().Err(err).Str("employeeID", employeeID).Msg("Failed to push WebSocket message")
		}
	}
}
