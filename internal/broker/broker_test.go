package broker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/websocket"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu        sync.Mutex
	published []amqp091.Publishing
	keys      []string
	err       error
	closed    bool
	release   chan struct{}
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type fakeRedis struct {
	channels []string
	payloads [][]byte
	err      error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.channels = append(f.channels, channel)
	f.payloads = append(f.payloads, message.([]byte))
	cmd.SetVal(1)
	return cmd
}

func (f *fakeRedis) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "ping")
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeRedis) Close() error { return nil }

type recordingPublisher struct {
	events []websocket.Event
}

func (r *recordingPublisher) Publish(ownerID uuid.UUID, event websocket.Event) {
	r.events = append(r.events, event)
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := newAMQPPublisher(nil, ch, "ledger", queueSize)
	owner := uuid.New()

	p.Publish(owner, websocket.TransactionCreated(map[string]interface{}{"amount": 100}))
	require.NoError(t, p.Close())

	require.Len(t, ch.published, 1)
	assert.Equal(t, "transaction.created", ch.keys[0])
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, amqp091.Persistent, ch.published[0].DeliveryMode)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &msg))
	assert.Equal(t, owner.String(), msg["ownerId"])
	assert.Equal(t, "transaction.created", msg["type"])
	assert.Equal(t, "transaction", msg["entity"])
}

func TestAMQPPublisher_PublishErrorIsSwallowed(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newAMQPPublisher(nil, ch, "ledger", queueSize)

	assert.NotPanics(t, func() {
		p.Publish(uuid.New(), websocket.TransactionDeleted(nil))
	})
	assert.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestRedisPublisher_Publish(t *testing.T) {
	client := &fakeRedis{}
	p := newRedisPublisher(client, queueSize)
	owner := uuid.New()

	p.Publish(owner, websocket.AccountBalanceChanged(map[string]interface{}{"currentBalance": 500}))
	require.NoError(t, p.Close())

	require.Len(t, client.channels, 1)
	assert.Equal(t, "ledger:events:"+owner.String(), client.channels[0])

	var msg Message
	require.NoError(t, json.Unmarshal(client.payloads[0], &msg))
	assert.Equal(t, owner, msg.OwnerID)
	assert.Equal(t, "account.balance_changed", msg.Type)
}

func TestRedisPublisher_PublishErrorIsSwallowed(t *testing.T) {
	p := newRedisPublisher(&fakeRedis{err: errors.New("connection refused")}, queueSize)

	assert.NotPanics(t, func() {
		p.Publish(uuid.New(), websocket.TransactionUpdated(nil))
	})
	assert.NoError(t, p.Close())
}

func TestRedisPublisher_Ping(t *testing.T) {
	assert.NoError(t, (&RedisPublisher{client: &fakeRedis{}}).Ping(context.Background()))
	assert.Error(t, (&RedisPublisher{client: &fakeRedis{err: errors.New("connection refused")}}).Ping(context.Background()))
}

func TestAMQPPublisher_SlowBrokerDoesNotBlockCaller(t *testing.T) {
	ch := &fakeChannel{release: make(chan struct{})}
	p := newAMQPPublisher(nil, ch, "ledger", 1)

	returned := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			p.Publish(uuid.New(), websocket.TransactionCreated(nil))
		}
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a stalled broker")
	}

	close(ch.release)
	require.NoError(t, p.Close())

	// one event in flight plus at most one buffered, the rest dropped
	assert.GreaterOrEqual(t, len(ch.published), 1)
	assert.LessOrEqual(t, len(ch.published), 2)
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	client := &fakeRedis{}
	p := newRedisPublisher(client, queueSize)
	require.NoError(t, p.Close())

	assert.NotPanics(t, func() {
		p.Publish(uuid.New(), websocket.TransactionCreated(nil))
	})
	assert.Empty(t, client.channels)
}

func TestMultiPublisher(t *testing.T) {
	first, second := &recordingPublisher{}, &recordingPublisher{}
	m := NewMultiPublisher(first, nil, second)

	assert.Equal(t, 2, m.Len())

	m.Publish(uuid.New(), websocket.TransactionCreated(nil))

	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
}
