package broker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ChannelPrefix prefixes the per-user Redis pub/sub channel
const ChannelPrefix = "ledger:events:"

// redisPubSub is the subset of *redis.Client used for publishing
type redisPubSub interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisPublisher fans ledger events out on per-user Redis channels so other
// service instances can forward them to their own websocket clients
type RedisPublisher struct {
	client redisPubSub
	queue  *eventQueue
}

// NewRedisPublisher connects to Redis and verifies the connection
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newRedisPublisher(client, queueSize), nil
}

func newRedisPublisher(client redisPubSub, size int) *RedisPublisher {
	p := &RedisPublisher{client: client}
	p.queue = newEventQueue("redis", size, p.send)
	return p
}

// Channel returns the pub/sub channel of a user
func Channel(ownerID uuid.UUID) string {
	return ChannelPrefix + ownerID.String()
}

// Publish implements websocket.EventPublisher. Delivery happens in the background.
func (p *RedisPublisher) Publish(ownerID uuid.UUID, event websocket.Event) {
	p.queue.enqueue(ownerID, event)
}

func (p *RedisPublisher) send(ownerID uuid.UUID, event websocket.Event) {
	body, err := encode(ownerID, event)
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to encode Redis message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	receivers, err := p.client.Publish(ctx, Channel(ownerID), body).Result()
	if err != nil {
		log.Warn().
			Err(err).
			Str("owner_id", ownerID.String()).
			Str("event_type", event.Type).
			Msg("Failed to publish Redis message")
		return
	}

	log.Debug().
		Str("owner_id", ownerID.String()).
		Str("event_type", event.Type).
		Int64("receivers", receivers).
		Msg("Published Redis message")
}

// Ping checks the Redis connection
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close flushes queued events and closes the Redis client
func (p *RedisPublisher) Close() error {
	p.queue.close()
	return p.client.Close()
}

var _ websocket.EventPublisher = (*RedisPublisher)(nil)
