package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/queue"
)

// Warmer pre-computes assessments for a configured watchlist so the
// dashboard's first load for popular symbols hits warm cache. A ticker
// enqueues symbols; workers dequeue and run the builder with the
// default profile.
type Warmer struct {
	builder  *NarrativeBuilder
	queue    domrepo.WarmQueue
	metrics  domrepo.Metrics
	logger   *applogger.Logger
	symbols  []string
	interval time.Duration
	workers  int

	stopCh  chan struct{}
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// NewWarmer creates a warmer over the given queue.
func NewWarmer(builder *NarrativeBuilder, q domrepo.WarmQueue, metrics domrepo.Metrics, logger *applogger.Logger, symbols []string, interval time.Duration, workers int) *Warmer {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if workers <= 0 {
		workers = 2
	}
	return &Warmer{
		builder:  builder,
		queue:    q,
		metrics:  metrics,
		logger:   logger,
		symbols:  symbols,
		interval: interval,
		workers:  workers,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the scheduler and workers.
func (w *Warmer) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started || len(w.symbols) == 0 {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.schedule(ctx)
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.work(ctx)
	}
}

// Stop stops the scheduler and waits for workers to drain.
func (w *Warmer) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	w.mu.Unlock()
	close(w.stopCh)
	w.wg.Wait()
}

func (w *Warmer) schedule(ctx context.Context) {
	defer w.wg.Done()

	// first round immediately, then on the ticker
	w.enqueueAll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.enqueueAll(ctx)
		}
	}
}

func (w *Warmer) enqueueAll(ctx context.Context) {
	for _, s := range w.symbols {
		if err := w.queue.Enqueue(ctx, s); err != nil {
			w.metrics.RecordError("warm_enqueue")
			if w.logger != nil {
				w.logger.Warn("warm enqueue failed",
					applogger.String("symbol", s),
					applogger.Error(err),
				)
			}
		}
	}
}

func (w *Warmer) work(ctx context.Context) {
	defer w.wg.Done()

	profile := models.InvestorProfile{
		Type:        models.InvestorBalanced,
		TimeHorizon: models.HorizonMediumTerm,
		PrimaryGoal: models.GoalGrowth,
	}
	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		symbol, err := w.queue.Dequeue(ctx, 2*time.Second)
		if err != nil {
			if errors.Is(err, queue.ErrEmpty) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			w.metrics.RecordError("warm_dequeue")
			continue
		}

		if _, err := w.builder.Build(ctx, symbol, profile); err != nil {
			w.metrics.RecordError("warm_build")
			if w.logger != nil {
				w.logger.Warn("warm build failed",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
		}
	}
}
