// Package main provides the API server entry point for the portfolio
// insights service.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/portfolio-insights/internal/api"
	"github.com/portfolio-insights/internal/config"
	"github.com/portfolio-insights/internal/currency"
	"github.com/portfolio-insights/internal/graphql"
	"github.com/portfolio-insights/internal/logging"
	"github.com/portfolio-insights/internal/progress"
	"github.com/portfolio-insights/internal/service"
	"github.com/portfolio-insights/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	if cfg.Warehouse.Endpoint == "" {
		logger.Fatal("HASURA_ENDPOINT is required")
	}

	// Connect to Postgres
	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	// Connect to Redis
	redis, err := storage.NewRedisCache(&cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	logger.Info("Database connections established")

	// Initialize repositories and cache
	viewRepo := storage.NewViewRepository(postgres)
	preferenceRepo := storage.NewPreferenceRepository(postgres)
	userRepo := storage.NewUserRepository(postgres)
	cacheService := storage.NewCacheService(redis, cfg.Cache.TTL)

	// Initialize upstream clients
	warehouse := graphql.NewClient(cfg.Warehouse.Endpoint, cfg.Warehouse.AdminSecret)
	converter := currency.NewClient(cfg.Exchange.BaseURL)

	// Initialize services
	assetService := service.NewAssetService(warehouse, cacheService)
	dealService := service.NewDealService(warehouse, cacheService)
	metricsService := service.NewMetricsService(warehouse, cacheService)
	dashboardService := service.NewDashboardService(warehouse, cacheService)
	viewService := service.NewViewService(viewRepo)
	preferenceService := service.NewPreferenceService(preferenceRepo)
	projectionService := service.NewProjectionService(assetService, dealService, currency.NewAnnotator(converter))

	logger.Info("Services initialized")

	// Background context cancelled on shutdown, used by the progress feed
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracker := progress.NewTracker()
	if cfg.Progress.Enabled && cfg.Progress.FeedURL != "" {
		subscriber := progress.NewSubscriber(cfg.Progress.FeedURL, tracker)
		go func() {
			if err := subscriber.Run(logging.WithLogger(ctx, logger)); err != nil && ctx.Err() == nil {
				logger.WithError(err).Error("Progress subscriber stopped")
			}
		}()
		logger.WithField("feed_url", cfg.Progress.FeedURL).Info("Ingestion progress subscriber started")
	}

	// Create server configuration
	serverConfig := &api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		FreeTierRPS:     cfg.RateLimit.FreeTier,
		PaidTierRPS:     cfg.RateLimit.PaidTier,
	}

	server := api.NewServer(serverConfig, assetService, dealService, metricsService,
		dashboardService, viewService, preferenceService, projectionService, converter,
		tracker, userRepo)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
