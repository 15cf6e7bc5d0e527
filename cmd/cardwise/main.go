package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cardwise/internal/amqp"
	"cardwise/internal/catalog"
	"cardwise/internal/categorize"
	"cardwise/internal/config"
	apphttp "cardwise/internal/http"
	applog "cardwise/internal/log"
	"cardwise/internal/recommend"
	"cardwise/internal/services"
	"cardwise/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
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

	// Seed the built-in catalog when the store is empty.
	if active, err := cards.ActiveCards(context.Background()); err == nil && len(active) == 0 {
		n, err := catalog.SeedDefault(context.Background(), cards)
		if err != nil {
			logger.Error("Failed to seed card catalog", "error", err)
			os.Exit(1)
		}
		logger.Info("Seeded card catalog", "cards", n)
	}

	appLogger := applog.New(applog.DefaultConfig())

	var external categorize.ExternalClient
	if cfg.CategorizerURL != "" {
		external = categorize.NewHTTPClient(cfg.CategorizerURL, cfg.CategorizerToken, cfg.CategorizerTimeout, appLogger)
		logger.Info("External categorizer enabled", "url", cfg.CategorizerURL)
	}

	var publisher services.JobPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP publisher enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - uploads are analyzed on demand only")
	}

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
		publisher,
		appLogger,
	)

	srv := apphttp.NewServer(":"+cfg.Port, svc)
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting cardwise server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
