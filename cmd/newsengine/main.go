package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"newsengine/internal/app"
	"newsengine/internal/config"
	"newsengine/internal/logging"
)

func main() {
	category := flag.String("ingest", "", "run one ingestion cycle for this category (or \"all\") and exit")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.JSON)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *category != "" {
		report, err := application.IngestOnce(ctx, *category)
		if err != nil {
			logger.Error("ingestion failed", "category", *category, "error", err)
			os.Exit(1)
		}
		logger.Info("ingestion finished",
			"category", *category,
			"status", report.Status,
			"fetched", report.TotalFetched,
			"new", report.NewArticles,
			"duplicates", report.Duplicates,
			"rejected", report.Rejected)
		return
	}

	if err := application.Serve(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
