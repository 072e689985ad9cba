package queue

import (
	"context"
	"sync"
	"time"
)

// MemoryQueue is a channel-backed queue used when Redis is disabled.
// Same dedup semantics as RedisQueue.
type MemoryQueue struct {
	ch      chan string
	mu      sync.Mutex
	pending map[string]struct{}
	closed  bool
}

// NewMemoryQueue creates an in-process queue with the given capacity.
func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 256
	}
	return &MemoryQueue{
		ch:      make(chan string, capacity),
		pending: make(map[string]struct{}),
	}
}

func (m *MemoryQueue) Enqueue(ctx context.Context, symbol string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrEmpty
	}
	if _, ok := m.pending[symbol]; ok {
		m.mu.Unlock()
		return nil
	}
	m.pending[symbol] = struct{}{}
	m.mu.Unlock()

	select {
	case m.ch <- symbol:
		return nil
	case <-ctx.Done():
		m.mu.Lock()
		delete(m.pending, symbol)
		m.mu.Unlock()
		return ctx.Err()
	}
}

func (m *MemoryQueue) Dequeue(ctx context.Context, wait time.Duration) (string, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case symbol, ok := <-m.ch:
		if !ok {
			return "", ErrEmpty
		}
		m.mu.Lock()
		delete(m.pending, symbol)
		m.mu.Unlock()
		return symbol, nil
	case <-timer.C:
		return "", ErrEmpty
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (m *MemoryQueue) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.ch)
	}
	return nil
}
