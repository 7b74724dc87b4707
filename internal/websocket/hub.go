// Package websocket pushes ledger change events to the browser sessions of
// the user that owns the changed data. Connections are push-only.
package websocket

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrClientClosed is returned by Send after the connection has gone away
	ErrClientClosed = errors.New("client is closed")
	// ErrSlowClient is returned by Send when the outbound buffer is full
	ErrSlowClient = errors.New("client send buffer full")
)

// ClientInterface is one subscribed session
type ClientInterface interface {
	ID() string
	OwnerID() uuid.UUID
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections grouped by owning user.
// A user with several open tabs or devices gets every event on each of them.
type Hub struct {
	// owner ID -> client ID -> client
	owners map[uuid.UUID]map[string]ClientInterface
	mu     sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		owners: make(map[uuid.UUID]map[string]ClientInterface),
	}
}

// Register subscribes a session to its owner's events
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ownerID := client.OwnerID()
	clientID := client.ID()

	if h.owners[ownerID] == nil {
		h.owners[ownerID] = make(map[string]ClientInterface)
	}

	h.owners[ownerID][clientID] = client

	log.Debug().
		Str("owner_id", ownerID.String()).
		Str("client_id", clientID).
		Msg("WebSocket client registered")
}

// Unregister removes a session. Unknown sessions are ignored.
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ownerID := client.OwnerID()
	clientID := client.ID()

	if clients, ok := h.owners[ownerID]; ok {
		if _, exists := clients[clientID]; exists {
			delete(clients, clientID)

			if len(clients) == 0 {
				delete(h.owners, ownerID)
			}

			log.Debug().
				Str("owner_id", ownerID.String()).
				Str("client_id", clientID).
				Msg("WebSocket client unregistered")
		}
	}
}

// Broadcast pushes an event to every session of the owner. Sends never block;
// a session that is closed or cannot keep up is dropped from the hub and must
// reconnect and refetch.
func (h *Hub) Broadcast(ownerID uuid.UUID, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("owner_id", ownerID.String()).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	sessions := make([]ClientInterface, 0, len(h.owners[ownerID]))
	for _, client := range h.owners[ownerID] {
		sessions = append(sessions, client)
	}
	h.mu.RUnlock()

	if len(sessions) == 0 {
		return
	}

	delivered := 0
	for _, client := range sessions {
		if err := client.Send(data); err != nil {
			log.Warn().
				Err(err).
				Str("owner_id", ownerID.String()).
				Str("client_id", client.ID()).
				Str("event_type", event.Type).
				Msg("Dropping websocket session")
			h.Unregister(client)
			client.Close()
			continue
		}
		delivered++
	}

	log.Debug().
		Str("owner_id", ownerID.String()).
		Str("event_type", event.Type).
		Int("delivered", delivered).
		Int("sessions", len(sessions)).
		Msg("Broadcast ledger event")
}

// ClientCount returns the number of open sessions of an owner
func (h *Hub) ClientCount(ownerID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.owners[ownerID]; ok {
		return len(clients)
	}
	return 0
}

// TotalClientCount returns the number of open sessions across all owners
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.owners {
		total += len(clients)
	}
	return total
}
