// Package broker forwards ledger events to external subscribers over RabbitMQ and Redis.
package broker

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/websocket"
)

// Message is the wire form of an event outside the process: the event plus the user it concerns
type Message struct {
	OwnerID uuid.UUID `json:"ownerId"`
	websocket.Event
}

func encode(ownerID uuid.UUID, event websocket.Event) ([]byte, error) {
	return json.Marshal(Message{OwnerID: ownerID, Event: event})
}
