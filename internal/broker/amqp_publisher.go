package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/websocket"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const publishTimeout = 5 * time.Second

// amqpChannel is the subset of *amqp091.Channel used for publishing
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPPublisher publishes ledger events to a durable direct exchange.
// The routing key is the event type, so consumers can bind per event kind;
// the default queue is bound to every event type the service emits.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	channel  amqpChannel
	exchange string
	queue    *eventQueue
	mu       sync.Mutex
}

// routedEventTypes are bound to the default queue on setup
var routedEventTypes = []string{
	"transaction.created",
	"transaction.updated",
	"transaction.deleted",
	"account.balance_changed",
	"account.updated",
	"category.deleted",
}

// NewAMQPPublisher dials RabbitMQ and declares the exchange and queue
func NewAMQPPublisher(url, exchange, queue string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := setup(ch, exchange, queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return newAMQPPublisher(conn, ch, exchange, queueSize), nil
}

func newAMQPPublisher(conn *amqp091.Connection, ch amqpChannel, exchange string, size int) *AMQPPublisher {
	p := &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}
	p.queue = newEventQueue("amqp", size, p.send)
	return p
}

func setup(ch *amqp091.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	for _, key := range routedEventTypes {
		if err := ch.QueueBind(queue, key, exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue to %s: %w", key, err)
		}
	}
	return nil
}

// Publish implements websocket.EventPublisher. The event is queued and sent
// in the background; failures are logged, never returned.
func (p *AMQPPublisher) Publish(ownerID uuid.UUID, event websocket.Event) {
	p.queue.enqueue(ownerID, event)
}

func (p *AMQPPublisher) send(ownerID uuid.UUID, event websocket.Event) {
	body, err := encode(ownerID, event)
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to encode AMQP message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx, p.exchange, event.Type, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.Timestamp,
		MessageId:    uuid.New().String(),
		Body:         body,
	})
	p.mu.Unlock()

	if err != nil {
		log.Warn().
			Err(err).
			Str("owner_id", ownerID.String()).
			Str("event_type", event.Type).
			Msg("Failed to publish AMQP message")
		return
	}

	log.Debug().
		Str("owner_id", ownerID.String()).
		Str("event_type", event.Type).
		Str("exchange", p.exchange).
		Msg("Published AMQP message")
}

// Close flushes queued events, then closes the channel and connection
func (p *AMQPPublisher) Close() error {
	p.queue.close()
	if err := p.channel.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

var _ websocket.EventPublisher = (*AMQPPublisher)(nil)
