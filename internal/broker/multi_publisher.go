package broker

import (
	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/websocket"
)

// MultiPublisher delivers each event to every configured publisher in order
type MultiPublisher struct {
	publishers []websocket.EventPublisher
}

// NewMultiPublisher creates a MultiPublisher. Nil entries are ignored.
func NewMultiPublisher(publishers ...websocket.EventPublisher) *MultiPublisher {
	m := &MultiPublisher{}
	for _, p := range publishers {
		if p != nil {
			m.publishers = append(m.publishers, p)
		}
	}
	return m
}

// Publish implements websocket.EventPublisher
func (m *MultiPublisher) Publish(ownerID uuid.UUID, event websocket.Event) {
	for _, p := range m.publishers {
		p.Publish(ownerID, event)
	}
}

// Len returns the number of publishers events are delivered to
func (m *MultiPublisher) Len() int {
	return len(m.publishers)
}

var _ websocket.EventPublisher = (*MultiPublisher)(nil)
