package repository

import (
	"context"
	"time"

	"MarketLens/internal/domain/models"
)

// AssessmentStore persists generated assessments for the dashboard
// history view. Append-only; rows are never updated.
type AssessmentStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, a *models.Assessment) error
	StoreBatch(ctx context.Context, as []*models.Assessment) error
	Recent(ctx context.Context, symbol string, limit int) ([]*models.Assessment, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// Publisher emits assessment events for downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, a *models.Assessment) error
	PublishBatch(ctx context.Context, as []*models.Assessment) error
	Close() error
}

// WarmQueue schedules symbols for background pre-computation so
// dashboard loads hit warm cache.
type WarmQueue interface {
	Enqueue(ctx context.Context, symbol string) error
	Dequeue(ctx context.Context, wait time.Duration) (string, error)
	Close() error
}

// Metrics abstracts the Prometheus recorder for use cases.
type Metrics interface {
	RecordAssessment(symbol, bias, strength string, confidence float64)
	RecordError(kind string)
	RecordCacheHit(kind string)
	RecordCacheMiss(kind string)
	RecordLatency(op string, seconds float64)
}
