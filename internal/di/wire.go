//go:build wireinject
// +build wireinject

package di

import (
	"MarketLens/pkg/config"
	"MarketLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Reasoning engine
		ProvideEngine,

		// Infrastructure clients
		ProvideRedisCache,
		ProvideCacheService,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideAssessmentStore,
		ProvidePublisher,
		ProvideWarmQueue,

		// Data providers and renderer
		ProvideMarketDataProvider,
		ProvideNewsProvider,
		ProvideRenderer,

		// Use cases
		ProvidePipeline,
		ProvideNarrativeBuilder,
		ProvideWarmer,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
