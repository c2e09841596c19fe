package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"newsengine/internal/config"
	"newsengine/internal/domain"
	"newsengine/internal/infrastructure/analysis"
	"newsengine/internal/infrastructure/feed"
	"newsengine/internal/infrastructure/httpapi"
	"newsengine/internal/infrastructure/metadata"
	"newsengine/internal/infrastructure/scheduler"
	"newsengine/internal/infrastructure/storage"
	"newsengine/internal/logging"
	"newsengine/internal/registry"
	"newsengine/internal/reliability"
	"newsengine/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	ingestor  *usecase.Ingestor
	server    *httpapi.Server
	scheduler *scheduler.TickerScheduler
	db        *sql.DB
}

// New builds a runnable application instance. A malformed category layout
// is a deployment error, so registry validation failures are fatal here.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.JSON)
	}

	reg, err := registry.New(cfg.Categories)
	if err != nil {
		return nil, fmt.Errorf("source registry: %w", err)
	}

	db, err := storage.Connect(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	repo := storage.NewPostgresRepository(db)

	fetcher := feed.NewFetcher(nil, cfg.Ingest.FetchTimeout)
	extractor := metadata.NewExtractor(nil, cfg.Ingest.PageTimeout)
	analysisClient := analysis.NewClient(cfg.Analysis)

	engine := reliability.NewEngine(reliability.Thresholds{
		HoaxTraceabilityMax: cfg.Reliability.HoaxTraceabilityMax,
		HoaxClickbaitMin:    cfg.Reliability.HoaxClickbaitMin,
		CorroboratedMin:     cfg.Reliability.CorroboratedMin,
		WeakMin:             cfg.Reliability.WeakMin,
	})

	ingestor := usecase.NewIngestor(usecase.IngestorDeps{
		Fetcher:    fetcher,
		Repository: repo,
		Registry:   reg,
		Logger:     baseLogger.With("component", "ingestor"),
	})
	enricher := usecase.NewEnricher(extractor, repo, baseLogger.With("component", "enricher"))
	scorer := usecase.NewScorer(analysisClient, engine, repo, baseLogger.With("component", "scorer"))

	server := httpapi.NewServer(ingestor, enricher, scorer, repo, cfg.Ingest.TargetPageSize, baseLogger.With("component", "httpapi"))

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		ingestor:  ingestor,
		server:    server,
		scheduler: scheduler.NewTickerScheduler(cfg.Ingest.CycleInterval),
		db:        db,
	}, nil
}

// IngestOnce runs a single ingestion cycle for the given category.
func (a *Application) IngestOnce(ctx context.Context, category string) (usecase.IngestReport, error) {
	return a.ingestor.Ingest(ctx, category, a.cfg.Ingest.TargetPageSize)
}

// Serve starts the periodic ingestion cycle and the HTTP trigger API and
// blocks until the context is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	if err := a.scheduler.Start(ctx, func() {
		report, err := a.ingestor.Ingest(ctx, domain.CategoryAll, a.cfg.Ingest.TargetPageSize)
		if err != nil {
			a.logger.Error("scheduled cycle failed", "error", err)
			return
		}
		a.logger.Info("scheduled cycle finished",
			"status", report.Status,
			"new", report.NewArticles,
			"duplicates", report.Duplicates)
	}); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	srv := &http.Server{Addr: a.cfg.HTTP.Addr, Handler: a.server.Router()}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http api listening", "addr", a.cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		_ = a.scheduler.Stop(context.Background())
		return fmt.Errorf("http server: %w", err)
	}

	if err := a.scheduler.Stop(context.Background()); err != nil {
		a.logger.Warn("scheduler stop", "error", err)
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		a.logger.Warn("http shutdown", "error", err)
	}
	return nil
}

// Close releases held resources.
func (a *Application) Close() error {
	return a.db.Close()
}
