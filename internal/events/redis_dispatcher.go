package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDispatcher queues events on a Redis list; Consume delivers them to local subscribers.
type RedisDispatcher struct {
	client *redis.Client
	key    string
	local  *inMemoryDispatcher
}

// NewRedisDispatcher creates a dispatcher backed by the list at key.
func NewRedisDispatcher(client *redis.Client, key string) *RedisDispatcher {
	return &RedisDispatcher{
		client: client,
		key:    key,
		local:  newInMemoryDispatcher(),
	}
}

// Publish enqueues the event and returns without waiting for handlers.
func (d *RedisDispatcher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return d.client.LPush(ctx, d.key, data).Err()
}

// Subscribe registers a handler invoked when the event is consumed.
func (d *RedisDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.local.Subscribe(eventType, handler)
}

// Consume waits up to wait for one queued event and dispatches it.
// It reports false when nothing arrived in time.
func (d *RedisDispatcher) Consume(ctx context.Context, wait time.Duration) (bool, error) {
	res, err := d.client.BRPop(ctx, wait, d.key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(res) != 2 {
		return false, fmt.Errorf("unexpected brpop reply of %d elements", len(res))
	}

	var event Event
	if err := json.Unmarshal([]byte(res[1]), &event); err != nil {
		return true, fmt.Errorf("decode event: %w", err)
	}
	return true, d.local.Publish(ctx, event)
}

// Pending returns the number of queued events.
func (d *RedisDispatcher) Pending(ctx context.Context) (int64, error) {
	return d.client.LLen(ctx, d.key).Result()
}
