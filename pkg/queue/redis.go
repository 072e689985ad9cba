// Package queue provides a small Redis-list work queue used to schedule
// symbols for background assessment warming.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEmpty is returned by Dequeue when no item arrived within the wait window.
var ErrEmpty = errors.New("queue: empty")

// RedisQueue is a FIFO queue backed by a Redis list. Enqueue is
// deduplicated with a companion set so a symbol is only queued once
// until a worker picks it up.
type RedisQueue struct {
	client    *redis.Client
	keyPrefix string
}

// RedisQueueOption configures RedisQueue.
type RedisQueueOption func(*RedisQueue)

// WithKeyPrefix sets custom key prefix.
func WithKeyPrefix(prefix string) RedisQueueOption {
	return func(r *RedisQueue) {
		r.keyPrefix = prefix
	}
}

// NewRedisQueue creates a new Redis queue on an existing client.
func NewRedisQueue(client *redis.Client, opts ...RedisQueueOption) *RedisQueue {
	rq := &RedisQueue{
		client:    client,
		keyPrefix: "marketlens:warm",
	}
	for _, opt := range opts {
		opt(rq)
	}
	return rq
}

func (r *RedisQueue) listKey() string { return r.keyPrefix + ":list" }
func (r *RedisQueue) setKey() string  { return r.keyPrefix + ":pending" }

// Enqueue appends a symbol unless it is already pending.
func (r *RedisQueue) Enqueue(ctx context.Context, symbol string) error {
	added, err := r.client.SAdd(ctx, r.setKey(), symbol).Result()
	if err != nil {
		return fmt.Errorf("queue enqueue: %w", err)
	}
	if added == 0 {
		return nil // already pending
	}
	if err := r.client.RPush(ctx, r.listKey(), symbol).Err(); err != nil {
		return fmt.Errorf("queue enqueue: %w", err)
	}
	return nil
}

// Dequeue blocks up to wait for the next symbol. Returns ErrEmpty on timeout.
func (r *RedisQueue) Dequeue(ctx context.Context, wait time.Duration) (string, error) {
	vals, err := r.client.BLPop(ctx, wait, r.listKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrEmpty
		}
		return "", fmt.Errorf("queue dequeue: %w", err)
	}
	// vals[0] is the list key, vals[1] the popped value
	symbol := vals[1]
	if err := r.client.SRem(ctx, r.setKey(), symbol).Err(); err != nil {
		return "", fmt.Errorf("queue dequeue: %w", err)
	}
	return symbol, nil
}

// Len returns the number of pending symbols.
func (r *RedisQueue) Len(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, r.listKey()).Result()
}

// Close is a no-op; the Redis client is owned by the caller.
func (r *RedisQueue) Close() error {
	return nil
}
