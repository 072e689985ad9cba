package queue

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryQueueFIFO(t *testing.T) {
	q := NewMemoryQueue(8)
	defer q.Close()

	ctx := context.Background()
	for _, s := range []string{"AAPL", "MSFT", "TSLA"} {
		if err := q.Enqueue(ctx, s); err != nil {
			t.Fatalf("enqueue %s: %v", s, err)
		}
	}

	for _, want := range []string{"AAPL", "MSFT", "TSLA"} {
		got, err := q.Dequeue(ctx, time.Second)
		if err != nil {
			t.Fatalf("dequeue: %v", err)
		}
		if got != want {
			t.Fatalf("dequeue = %q, want %q", got, want)
		}
	}
}

func TestMemoryQueueDedup(t *testing.T) {
	q := NewMemoryQueue(8)
	defer q.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := q.Enqueue(ctx, "AAPL"); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	if _, err := q.Dequeue(ctx, time.Second); err != nil {
		t.Fatalf("first dequeue: %v", err)
	}
	if _, err := q.Dequeue(ctx, 20*time.Millisecond); !errors.Is(err, ErrEmpty) {
		t.Fatalf("second dequeue err = %v, want ErrEmpty", err)
	}
}

func TestMemoryQueueTimeout(t *testing.T) {
	q := NewMemoryQueue(1)
	defer q.Close()

	if _, err := q.Dequeue(context.Background(), 10*time.Millisecond); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
}

func TestMemoryQueueRequeueAfterDequeue(t *testing.T) {
	q := NewMemoryQueue(8)
	defer q.Close()

	ctx := context.Background()
	if err := q.Enqueue(ctx, "AAPL"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := q.Dequeue(ctx, time.Second); err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if err := q.Enqueue(ctx, "AAPL"); err != nil {
		t.Fatalf("re-enqueue: %v", err)
	}
	got, err := q.Dequeue(ctx, time.Second)
	if err != nil || got != "AAPL" {
		t.Fatalf("dequeue = (%q, %v), want (AAPL, nil)", got, err)
	}
}
