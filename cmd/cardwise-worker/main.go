package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cardwise/internal/amqp"
	"cardwise/internal/catalog"
	"cardwise/internal/categorize"
	"cardwise/internal/config"
	"cardwise/internal/core"
	"cardwise/internal/export/sheets"
	applog "cardwise/internal/log"
	"cardwise/internal/recommend"
	"cardwise/internal/services"
	"cardwise/internal/storage"
	"cardwise/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting cardwise-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize report repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	cards, err := catalog.NewSQLiteStore(cfg.CatalogDBPath)
	if err != nil {
		logger.Error("Failed to initialize card catalog", "error", err, "path", cfg.CatalogDBPath)
		os.Exit(1)
	}
	defer cards.Close()

	appLogger := applog.New(applog.DefaultConfig())

	var external categorize.ExternalClient
	if cfg.CategorizerURL != "" {
		external = categorize.NewHTTPClient(cfg.CategorizerURL, cfg.CategorizerToken, cfg.CategorizerTimeout, appLogger)
		logger.Info("External categorizer enabled", "url", cfg.CategorizerURL)
	}

	// Initialize Google Sheets export (optional)
	var exporter sheets.ReportWriter
	if cfg.SheetsExportEnabled {
		client, err := sheets.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	engine := recommend.NewEngine(recommend.Options{
		TopN:                cfg.RecommendTopN,
		MilitaryWaiverOdds:  cfg.MilitaryWaiverOdds,
		BaselineRatePercent: cfg.BaselineRatePercent,
	}, appLogger)

	svc := services.NewAnalysisService(
		repo,
		cards,
		categorize.NewService(external, appLogger),
		engine,
		nil,
		appLogger,
	)

	analysisWorker := worker.NewAnalysisWorker(svc, exporter, core.UserProfile{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := amqpClient.ConsumeAnalyzeStatement(ctx, analysisWorker.HandleAnalyzeMessage); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give in-flight jobs a moment to finish.
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
