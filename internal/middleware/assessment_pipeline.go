package middleware

import (
	"context"
	"sync"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	applogger "MarketLens/pkg/logger"
)

// AssessmentPipeline sits between the narrative builder and the
// persistence/publish backends. Writes are accepted non-blocking and
// flushed in batches by size or interval, so a slow ClickHouse or
// Kafka never delays a dashboard response.
type AssessmentPipeline struct {
	store     domrepo.AssessmentStore
	publisher domrepo.Publisher
	metrics   domrepo.Metrics
	logger    *applogger.Logger

	batchSize     int
	flushInterval time.Duration

	inCh    chan *models.Assessment
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	mu      sync.Mutex
}

type PipelineOption func(*AssessmentPipeline)

// WithBatchSize sets the flush batch size.
func WithBatchSize(n int) PipelineOption {
	return func(p *AssessmentPipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithFlushInterval sets the max time a row waits before flushing.
func WithFlushInterval(d time.Duration) PipelineOption {
	return func(p *AssessmentPipeline) {
		if d > 0 {
			p.flushInterval = d
		}
	}
}

// NewAssessmentPipeline creates a pipeline. Store and publisher may be
// nil when the corresponding backend is disabled.
func NewAssessmentPipeline(store domrepo.AssessmentStore, publisher domrepo.Publisher, metrics domrepo.Metrics, logger *applogger.Logger, opts ...PipelineOption) *AssessmentPipeline {
	p := &AssessmentPipeline{
		store:         store,
		publisher:     publisher,
		metrics:       metrics,
		logger:        logger,
		batchSize:     100,
		flushInterval: 2 * time.Second,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.inCh = make(chan *models.Assessment, p.batchSize*4)
	return p
}

// Start launches the background flush loop.
func (p *AssessmentPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go p.loop(ctx)
}

// Stop drains the buffer and stops the flush loop.
func (p *AssessmentPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
	<-p.doneCh
}

// Accept queues an assessment for persistence. Never blocks; drops on
// a full buffer and records the drop.
func (p *AssessmentPipeline) Accept(a *models.Assessment) {
	if a == nil || a.Symbol == "" {
		return
	}
	select {
	case p.inCh <- a:
	default:
		p.metrics.RecordError("pipeline_buffer_full")
	}
}

func (p *AssessmentPipeline) loop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	batch := make([]*models.Assessment, 0, p.batchSize)
	for {
		select {
		case <-p.stopCh:
			// drain whatever is buffered before exit
			for {
				select {
				case a := <-p.inCh:
					batch = append(batch, a)
				default:
					p.flush(ctx, batch)
					return
				}
			}
		case a := <-p.inCh:
			batch = append(batch, a)
			if len(batch) >= p.batchSize {
				p.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				p.flush(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

func (p *AssessmentPipeline) flush(ctx context.Context, batch []*models.Assessment) {
	if len(batch) == 0 {
		return
	}
	start := time.Now()

	if p.store != nil {
		if err := p.store.StoreBatch(ctx, batch); err != nil {
			p.metrics.RecordError("pipeline_store")
			if p.logger != nil {
				p.logger.Error("pipeline store flush failed",
					applogger.Int("rows", len(batch)),
					applogger.Error(err),
				)
			}
		}
	}
	if p.publisher != nil {
		if err := p.publisher.PublishBatch(ctx, batch); err != nil {
			p.metrics.RecordError("pipeline_publish")
			if p.logger != nil {
				p.logger.Error("pipeline publish flush failed",
					applogger.Int("rows", len(batch)),
					applogger.Error(err),
				)
			}
		}
	}
	p.metrics.RecordLatency("pipeline_flush", time.Since(start).Seconds())
}
