package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "MarketLens/internal/domain/repository"
	mid "MarketLens/internal/middleware"
	"MarketLens/internal/usecase"
	"MarketLens/pkg/cache"
	pkgch "MarketLens/pkg/clickhouse"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
	pipeline    *mid.AssessmentPipeline
	warmer      *usecase.Warmer
	cacheSvc    cache.Service
	chClient    *pkgch.Client
	publisher   domrepo.Publisher
	queue       domrepo.WarmQueue
}

// New creates a new App instance with all dependencies. Optional
// backends arrive nil when disabled in configuration.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	httpHandler xhttp.Handler,
	pipeline *mid.AssessmentPipeline,
	warmer *usecase.Warmer,
	cacheSvc cache.Service,
	chClient *pkgch.Client,
	publisher domrepo.Publisher,
	queue domrepo.WarmQueue,
) *App {
	return &App{
		cfg:         cfg,
		logger:      logger,
		httpHandler: httpHandler,
		pipeline:    pipeline,
		warmer:      warmer,
		cacheSvc:    cacheSvc,
		chClient:    chClient,
		publisher:   publisher,
		queue:       queue,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.pipeline != nil {
		a.pipeline.Start(ctx)
		a.logger.Info("assessment pipeline started")
	}
	if a.warmer != nil {
		a.warmer.Start(ctx)
		a.logger.Info("cache warmer started",
			applogger.Strings("symbols", a.cfg.Warm.Symbols),
			applogger.Duration("interval_ms", a.cfg.Warm.Interval),
		)
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRequestLogging(a.logger, 0),
	)
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown stops services in reverse dependency order: stop accepting
// requests and warm work first, then drain the pipeline, then close
// the backends it wrote to.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.warmer != nil {
		a.warmer.Stop()
	}
	if a.pipeline != nil {
		a.pipeline.Stop()
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.queue != nil {
		if err := a.queue.Close(); err != nil {
			a.logger.Warn("warm queue close error", applogger.Error(err))
		}
	}
	if a.cacheSvc != nil {
		if err := a.cacheSvc.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
