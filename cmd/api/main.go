package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"phishshield/internal/api"
	"phishshield/internal/api/handlers"
	"phishshield/internal/config"
	"phishshield/internal/domain/services"
	"phishshield/internal/infrastructure/cache"
	"phishshield/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting PhishShield")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Redis (optional; rate limiting and counters degrade without it)
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without rate limiting and counters")
			redisCache = nil
		}
	}
	defer func() {
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Initialize detection collaborators
	reputationClient := services.NewReputationClientFromConfig(cfg.Reputation, log)
	classifier := services.NewClassifierFromConfig(cfg.ML, log)

	// Initialize the scan orchestrator
	scanService := services.NewScanService(cfg.Scan, reputationClient, classifier, redisCache, log)
	log.Info().
		Bool("model_loaded", classifier.Loaded()).
		Int("protected_domains", len(cfg.Scan.ProtectedDomains)).
		Msg("scan service initialized")

	// Initialize handlers and router
	h := handlers.NewHandlers(handlers.Dependencies{
		ScanService: scanService,
		Cache:       redisCache,
		Logger:      log,
	})

	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}
