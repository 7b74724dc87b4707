package broker

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// queueSize bounds the events waiting for a broker
const queueSize = 256

type pending struct {
	ownerID uuid.UUID
	event   websocket.Event
}

// eventQueue hands events from request goroutines to a single delivery
// goroutine. A full buffer drops the event instead of blocking the caller.
type eventQueue struct {
	name    string
	events  chan pending
	done    chan struct{}
	deliver func(ownerID uuid.UUID, event websocket.Event)
	mu      sync.RWMutex
	closed  bool
}

func newEventQueue(name string, size int, deliver func(ownerID uuid.UUID, event websocket.Event)) *eventQueue {
	q := &eventQueue{
		name:    name,
		events:  make(chan pending, size),
		done:    make(chan struct{}),
		deliver: deliver,
	}
	go q.run()
	return q
}

func (q *eventQueue) run() {
	defer close(q.done)
	for p := range q.events {
		q.deliver(p.ownerID, p.event)
	}
}

// enqueue never blocks
func (q *eventQueue) enqueue(ownerID uuid.UUID, event websocket.Event) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return
	}

	select {
	case q.events <- pending{ownerID: ownerID, event: event}:
	default:
		log.Warn().
			Str("broker", q.name).
			Str("owner_id", ownerID.String()).
			Str("event_type", event.Type).
			Msg("Broker queue full, dropping event")
	}
}

// close stops accepting events and waits for the queued ones to be delivered
func (q *eventQueue) close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	close(q.events)
	q.mu.Unlock()
	<-q.done
}
