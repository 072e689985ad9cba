package middleware

import (
	"context"
	"sync"
	"testing"
	"time"

	"MarketLens/internal/domain/models"
)

type fakeStore struct {
	mu      sync.Mutex
	batches [][]*models.Assessment
}

func (f *fakeStore) Init(ctx context.Context) error { return nil }
func (f *fakeStore) Store(ctx context.Context, a *models.Assessment) error {
	return f.StoreBatch(ctx, []*models.Assessment{a})
}
func (f *fakeStore) StoreBatch(ctx context.Context, as []*models.Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch := make([]*models.Assessment, len(as))
	copy(batch, as)
	f.batches = append(f.batches, batch)
	return nil
}
func (f *fakeStore) Recent(ctx context.Context, symbol string, limit int) ([]*models.Assessment, error) {
	return nil, nil
}
func (f *fakeStore) Health(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                     { return nil }

func (f *fakeStore) rows() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

type fakePublisher struct {
	mu    sync.Mutex
	count int
}

func (f *fakePublisher) Publish(ctx context.Context, a *models.Assessment) error {
	return f.PublishBatch(ctx, []*models.Assessment{a})
}
func (f *fakePublisher) PublishBatch(ctx context.Context, as []*models.Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count += len(as)
	return nil
}
func (f *fakePublisher) Close() error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordAssessment(symbol, bias, strength string, confidence float64) {}
func (nopMetrics) RecordError(kind string)                                            {}
func (nopMetrics) RecordCacheHit(kind string)                                         {}
func (nopMetrics) RecordCacheMiss(kind string)                                        {}
func (nopMetrics) RecordLatency(op string, seconds float64)                           {}

func makeAssessment(symbol string) *models.Assessment {
	return &models.Assessment{
		Symbol:    symbol,
		Timestamp: time.Now(),
		Signals: models.SignalVerdict{
			MarketBias:     models.BiasBullish,
			SignalStrength: models.StrengthModerate,
		},
	}
}

func TestPipelineFlushesBySize(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	p := NewAssessmentPipeline(store, pub, nopMetrics{}, nil,
		WithBatchSize(3), WithFlushInterval(time.Hour))

	p.Start(context.Background())
	for i := 0; i < 3; i++ {
		p.Accept(makeAssessment("AAPL"))
	}

	deadline := time.Now().Add(2 * time.Second)
	for store.rows() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	p.Stop()

	if got := store.rows(); got != 3 {
		t.Fatalf("stored rows = %d, want 3", got)
	}
	if pub.count != 3 {
		t.Fatalf("published = %d, want 3", pub.count)
	}
}

func TestPipelineFlushesByInterval(t *testing.T) {
	store := &fakeStore{}
	p := NewAssessmentPipeline(store, nil, nopMetrics{}, nil,
		WithBatchSize(100), WithFlushInterval(30*time.Millisecond))

	p.Start(context.Background())
	p.Accept(makeAssessment("MSFT"))

	deadline := time.Now().Add(2 * time.Second)
	for store.rows() < 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	p.Stop()

	if got := store.rows(); got != 1 {
		t.Fatalf("stored rows = %d, want 1", got)
	}
}

func TestPipelineDrainsOnStop(t *testing.T) {
	store := &fakeStore{}
	p := NewAssessmentPipeline(store, nil, nopMetrics{}, nil,
		WithBatchSize(100), WithFlushInterval(time.Hour))

	p.Start(context.Background())
	for i := 0; i < 5; i++ {
		p.Accept(makeAssessment("TSLA"))
	}
	p.Stop()

	if got := store.rows(); got != 5 {
		t.Fatalf("stored rows after stop = %d, want 5", got)
	}
}

func TestPipelineIgnoresInvalid(t *testing.T) {
	store := &fakeStore{}
	p := NewAssessmentPipeline(store, nil, nopMetrics{}, nil,
		WithBatchSize(1), WithFlushInterval(time.Hour))

	p.Start(context.Background())
	p.Accept(nil)
	p.Accept(&models.Assessment{})
	p.Stop()

	if got := store.rows(); got != 0 {
		t.Fatalf("stored rows = %d, want 0", got)
	}
}
