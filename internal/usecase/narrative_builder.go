package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	domsvc "MarketLens/internal/domain/service"
	"MarketLens/internal/engine"
	mid "MarketLens/internal/middleware"
	"MarketLens/internal/services/marketdata"
	"MarketLens/pkg/cache"
	applogger "MarketLens/pkg/logger"
)

// NarrativeBuilder turns a symbol and investor profile into a complete
// assessment: fetch market data and news concurrently, normalize,
// evaluate, render, then hand the result to the persistence pipeline.
type NarrativeBuilder struct {
	eng      *engine.Engine
	market   domsvc.MarketDataProvider
	news     domsvc.NewsProvider
	renderer domsvc.NarrativeRenderer
	cache    cache.Service
	pipe     *mid.AssessmentPipeline
	metrics  domrepo.Metrics
	logger   *applogger.Logger

	cacheTTL    time.Duration
	snapshotTTL time.Duration
	newsTTL     time.Duration
	timeout     time.Duration
}

type BuilderOption func(*NarrativeBuilder)

// WithCacheTTL sets how long a finished assessment stays cached.
func WithCacheTTL(d time.Duration) BuilderOption {
	return func(b *NarrativeBuilder) {
		if d > 0 {
			b.cacheTTL = d
		}
	}
}

// WithSourceTTLs sets how long raw market snapshots and news sentiment
// stay cached between builds.
func WithSourceTTLs(snapshot, news time.Duration) BuilderOption {
	return func(b *NarrativeBuilder) {
		if snapshot > 0 {
			b.snapshotTTL = snapshot
		}
		if news > 0 {
			b.newsTTL = news
		}
	}
}

// WithBuildTimeout caps the end-to-end build duration.
func WithBuildTimeout(d time.Duration) BuilderOption {
	return func(b *NarrativeBuilder) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// NewNarrativeBuilder creates a builder. Cache and pipeline may be nil
// when those backends are disabled.
func NewNarrativeBuilder(
	eng *engine.Engine,
	market domsvc.MarketDataProvider,
	news domsvc.NewsProvider,
	renderer domsvc.NarrativeRenderer,
	cacheSvc cache.Service,
	pipe *mid.AssessmentPipeline,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
	opts ...BuilderOption,
) *NarrativeBuilder {
	b := &NarrativeBuilder{
		eng:         eng,
		market:      market,
		news:        news,
		renderer:    renderer,
		cache:       cacheSvc,
		pipe:        pipe,
		metrics:     metrics,
		logger:      logger,
		cacheTTL:    5 * time.Minute,
		snapshotTTL: 5 * time.Minute,
		newsTTL:     15 * time.Minute,
		timeout:     15 * time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func assessmentKey(symbol string, p models.InvestorProfile) string {
	return cache.Key("assessment", symbol, p.Type, p.TimeHorizon, p.PrimaryGoal)
}

// Build produces an assessment for the symbol and profile. Results are
// cached per (symbol, profile) so repeated dashboard loads are cheap.
func (b *NarrativeBuilder) Build(ctx context.Context, symbol string, profile models.InvestorProfile) (*models.Assessment, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	key := assessmentKey(symbol, profile)
	if b.cache != nil {
		var cached models.Assessment
		if err := b.cache.Get(ctx, key, &cached); err == nil {
			b.metrics.RecordCacheHit("assessment")
			return &cached, nil
		}
		b.metrics.RecordCacheMiss("assessment")
	}

	snapshot, news, err := b.fetch(ctx, symbol)
	if err != nil {
		b.metrics.RecordError("build_fetch")
		return nil, err
	}

	signals := marketdata.Normalize(snapshot, news)
	eval, err := b.eng.Evaluate(signals, profile)
	if err != nil {
		b.metrics.RecordError("build_evaluate")
		return nil, fmt.Errorf("evaluate %s: %w", symbol, err)
	}

	state := marketdata.MarketStateOf(snapshot, news)
	out, err := b.renderer.Render(ctx, domsvc.RenderInput{
		Symbol:      symbol,
		Bias:        eval.Bias,
		Strength:    eval.Strength,
		Intensity:   eval.Intensity,
		Conflicting: eval.Result.Conflicting,
		State:       state,
		Profile:     profile,
	})
	if err != nil {
		b.metrics.RecordError("build_render")
		return nil, fmt.Errorf("render %s: %w", symbol, err)
	}

	a := &models.Assessment{
		Symbol:      symbol,
		Timestamp:   time.Now().UTC(),
		MarketState: state,
		Signals: models.SignalVerdict{
			MarketBias:     eval.Bias,
			SignalStrength: eval.Strength,
		},
		Narrative:   out,
		Composite:   eval.Result.Composite,
		Confidence:  eval.Result.Confidence,
		Conflicting: eval.Result.Conflicting,
		Intensity:   eval.Intensity,
	}

	if b.cache != nil {
		if err := b.cache.Set(ctx, key, a, b.cacheTTL); err != nil && b.logger != nil {
			b.logger.Warn("assessment cache set failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
	}
	if b.pipe != nil {
		b.pipe.Accept(a)
	}

	b.metrics.RecordAssessment(symbol, string(eval.Bias), string(eval.Strength), eval.Result.Confidence)
	b.metrics.RecordLatency("build_assessment", time.Since(start).Seconds())
	if b.logger != nil {
		b.logger.Info("assessment built",
			applogger.String("symbol", symbol),
			applogger.String("bias", string(eval.Bias)),
			applogger.String("strength", string(eval.Strength)),
			applogger.Bool("conflicting", eval.Result.Conflicting),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return a, nil
}

// fetch resolves market data and news concurrently. Both sources must
// succeed; a missing source would silently skew the composite.
func (b *NarrativeBuilder) fetch(ctx context.Context, symbol string) (models.MarketSnapshot, models.NewsSentiment, error) {
	var (
		snapshot models.MarketSnapshot
		news     models.NewsSentiment
		snapErr  error
		newsErr  error
		wg       sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		snapshot, snapErr = b.snapshot(ctx, symbol)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		news, newsErr = b.sentiment(ctx, symbol)
	}()
	wg.Wait()

	if snapErr != nil {
		return snapshot, news, fmt.Errorf("market data for %s: %w", symbol, snapErr)
	}
	if newsErr != nil {
		return snapshot, news, fmt.Errorf("news for %s: %w", symbol, newsErr)
	}
	return snapshot, news, nil
}

// snapshot returns a cached market snapshot when one is fresh, hitting
// the upstream provider otherwise. Raw snapshots are shared across
// profiles, so they are cached per symbol only.
func (b *NarrativeBuilder) snapshot(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	key := cache.Key("snapshot", symbol)
	if b.cache != nil {
		var cached models.MarketSnapshot
		if err := b.cache.Get(ctx, key, &cached); err == nil {
			b.metrics.RecordCacheHit("snapshot")
			return cached, nil
		}
		b.metrics.RecordCacheMiss("snapshot")
	}
	snap, err := b.market.Snapshot(ctx, symbol)
	if err != nil {
		return snap, err
	}
	if b.cache != nil {
		if err := b.cache.Set(ctx, key, snap, b.snapshotTTL); err != nil && b.logger != nil {
			b.logger.Warn("snapshot cache set failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
	}
	return snap, nil
}

func (b *NarrativeBuilder) sentiment(ctx context.Context, symbol string) (models.NewsSentiment, error) {
	key := cache.Key("news", symbol)
	if b.cache != nil {
		var cached models.NewsSentiment
		if err := b.cache.Get(ctx, key, &cached); err == nil {
			b.metrics.RecordCacheHit("news")
			return cached, nil
		}
		b.metrics.RecordCacheMiss("news")
	}
	sent, err := b.news.Sentiment(ctx, symbol)
	if err != nil {
		return sent, err
	}
	if b.cache != nil {
		if err := b.cache.Set(ctx, key, sent, b.newsTTL); err != nil && b.logger != nil {
			b.logger.Warn("news cache set failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
	}
	return sent, nil
}
