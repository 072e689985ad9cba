package di

import (
	"context"
	"fmt"
	"time"

	domrepo "MarketLens/internal/domain/repository"
	domsvc "MarketLens/internal/domain/service"
	"MarketLens/internal/engine"
	"MarketLens/internal/handler/api"
	mid "MarketLens/internal/middleware"
	internalrepo "MarketLens/internal/repository"
	"MarketLens/internal/narrative"
	"MarketLens/internal/services/marketdata"
	"MarketLens/internal/services/news"
	"MarketLens/internal/usecase"
	"MarketLens/pkg/cache"
	pkgch "MarketLens/pkg/clickhouse"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	pkgkafka "MarketLens/pkg/kafka"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/metrics"
	"MarketLens/pkg/queue"
	"MarketLens/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Logging.Format
	if format == "" {
		format = "console"
	}
	output := cfg.Logging.Output
	if output == "" {
		output = "stdout"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: output})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideEngine builds the reasoning engine from configuration. Load
// fills in the default weights and thresholds when the engine block is
// absent, so the config values are always complete here.
func ProvideEngine(cfg *config.Config) (*engine.Engine, error) {
	eng, err := engine.New(engine.Config{
		Weights: engine.Weights{
			Trend:      cfg.Engine.Weights.Trend,
			News:       cfg.Engine.Weights.News,
			Risk:       cfg.Engine.Weights.Risk,
			Volatility: cfg.Engine.Weights.Volatility,
		},
		Thresholds: engine.Thresholds{
			BiasEpsilon: cfg.Engine.Thresholds.BiasEpsilon,
			Strong:      cfg.Engine.Thresholds.Strong,
			Moderate:    cfg.Engine.Thresholds.Moderate,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return eng, nil
}

// ProvideRedisCache creates the Redis cache client, or nil when Redis
// is disabled.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideCacheService layers a memory cache over Redis when available,
// and falls back to memory only.
func ProvideCacheService(rc *cache.RedisCache) cache.Service {
	if rc == nil {
		return cache.NewMemoryCache()
	}
	return cache.NewLayeredCache(rc)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// history store is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when event
// publishing is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideAssessmentStore creates the ClickHouse-backed history store
// and ensures its schema, or nil when ClickHouse is disabled.
func ProvideAssessmentStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) (domrepo.AssessmentStore, error) {
	if chClient == nil {
		return nil, nil
	}
	database := cfg.ClickHouse.Database
	if database == "" {
		database = "marketlens"
	}
	store := internalrepo.NewCHAssessmentStore(chClient, database+".assessments")
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("assessment store: %w", err)
	}
	return store, nil
}

// ProvidePublisher creates the Kafka publisher, or nil when disabled.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideWarmQueue builds the warm queue on Redis when available.
func ProvideWarmQueue(rc *cache.RedisCache, cfg *config.Config) domrepo.WarmQueue {
	if !cfg.Warm.Enabled {
		return nil
	}
	if rc != nil {
		return queue.NewRedisQueue(rc.Client())
	}
	return queue.NewMemoryQueue(len(cfg.Warm.Symbols) * 2)
}

// ProvideMarketDataProvider selects the configured market data source.
func ProvideMarketDataProvider(cfg *config.Config, l *applogger.Logger) domsvc.MarketDataProvider {
	if cfg.MarketData.Provider == "alphavantage" {
		return marketdata.NewAlphaVantageProvider(marketdata.AlphaVantageConfig{
			APIKey:            cfg.MarketData.APIKey,
			BaseURL:           cfg.MarketData.BaseURL,
			Timeout:           cfg.MarketData.Timeout,
			RequestsPerMinute: float64(cfg.MarketData.RequestsPerMinute),
		}, l)
	}
	return marketdata.NewMockProvider()
}

// ProvideNewsProvider selects the configured news source.
func ProvideNewsProvider(cfg *config.Config, l *applogger.Logger) domsvc.NewsProvider {
	if cfg.News.Provider == "newsapi" {
		return news.NewNewsAPIProvider(news.NewsAPIConfig{
			APIKey:   cfg.News.APIKey,
			BaseURL:  cfg.News.BaseURL,
			Timeout:  cfg.News.Timeout,
			Days:     cfg.News.Days,
			PageSize: cfg.News.PageSize,
		}, l)
	}
	return news.NewMockProvider()
}

// ProvideRenderer selects the narrative renderer.
func ProvideRenderer(cfg *config.Config) domsvc.NarrativeRenderer {
	if cfg.Narrative.Renderer == "generative" {
		return narrative.NewGenerativeRenderer(narrative.GenerativeConfig{
			APIKey:      cfg.Narrative.OpenAI.APIKey,
			BaseURL:     cfg.Narrative.OpenAI.BaseURL,
			Model:       cfg.Narrative.OpenAI.Model,
			Temperature: cfg.Narrative.OpenAI.Temperature,
			MaxTokens:   cfg.Narrative.OpenAI.MaxTokens,
		})
	}
	return narrative.NewTemplateRenderer()
}

// ProvidePipeline creates the batching pipeline, or nil when no
// backend wants assessments.
func ProvidePipeline(store domrepo.AssessmentStore, publisher domrepo.Publisher, m domrepo.Metrics, l *applogger.Logger, cfg *config.Config) *mid.AssessmentPipeline {
	if store == nil && publisher == nil {
		return nil
	}
	opts := []mid.PipelineOption{}
	if cfg.ClickHouse.BatchSize > 0 {
		opts = append(opts, mid.WithBatchSize(cfg.ClickHouse.BatchSize))
	}
	if cfg.ClickHouse.BatchTimeout > 0 {
		opts = append(opts, mid.WithFlushInterval(cfg.ClickHouse.BatchTimeout))
	}
	return mid.NewAssessmentPipeline(store, publisher, m, l, opts...)
}

// ProvideNarrativeBuilder creates the core use case.
func ProvideNarrativeBuilder(
	eng *engine.Engine,
	market domsvc.MarketDataProvider,
	newsProvider domsvc.NewsProvider,
	renderer domsvc.NarrativeRenderer,
	cacheSvc cache.Service,
	pipe *mid.AssessmentPipeline,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.NarrativeBuilder {
	opts := []usecase.BuilderOption{}
	if cfg.Cache.TTL.Assessment > 0 {
		opts = append(opts, usecase.WithCacheTTL(cfg.Cache.TTL.Assessment))
	}
	if cfg.Cache.TTL.Snapshot > 0 || cfg.Cache.TTL.News > 0 {
		opts = append(opts, usecase.WithSourceTTLs(cfg.Cache.TTL.Snapshot, cfg.Cache.TTL.News))
	}
	return usecase.NewNarrativeBuilder(eng, market, newsProvider, renderer, cacheSvc, pipe, m, l, opts...)
}

// ProvideWarmer creates the cache warmer, or nil when disabled.
func ProvideWarmer(builder *usecase.NarrativeBuilder, q domrepo.WarmQueue, m domrepo.Metrics, l *applogger.Logger, cfg *config.Config) *usecase.Warmer {
	if !cfg.Warm.Enabled || q == nil {
		return nil
	}
	return usecase.NewWarmer(builder, q, m, l, cfg.Warm.Symbols, cfg.Warm.Interval, cfg.Warm.Workers)
}

// ProvideHTTPHandler creates the dashboard API handler.
func ProvideHTTPHandler(l *applogger.Logger, builder *usecase.NarrativeBuilder, store domrepo.AssessmentStore) xhttp.Handler {
	stream := api.NewStreamHandler(l, builder)
	return api.NewNarrativeHandler(l, builder, store, stream)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	pipe *mid.AssessmentPipeline,
	warmer *usecase.Warmer,
	cacheSvc cache.Service,
	chClient *pkgch.Client,
	publisher domrepo.Publisher,
	q domrepo.WarmQueue,
) *server.App {
	return server.New(cfg, l, handler, pipe, warmer, cacheSvc, chClient, publisher, q)
}
