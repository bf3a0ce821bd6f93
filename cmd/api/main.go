package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/oakhurst-health/intake-ai-platform/internal/api/router"
	appconfig "github.com/oakhurst-health/intake-ai-platform/internal/config"
	"github.com/oakhurst-health/intake-ai-platform/internal/dedup"
	"github.com/oakhurst-health/intake-ai-platform/internal/http/handlers"
	"github.com/oakhurst-health/intake-ai-platform/internal/intake"
	"github.com/oakhurst-health/intake-ai-platform/internal/notify"
	"github.com/oakhurst-health/intake-ai-platform/internal/observability/metrics"
	"github.com/oakhurst-health/intake-ai-platform/internal/provider"
	"github.com/oakhurst-health/intake-ai-platform/internal/submissions"
	"github.com/oakhurst-health/intake-ai-platform/internal/webhook"
	"github.com/oakhurst-health/intake-ai-platform/pkg/logging"
)

func main() {
	// Load .env in development; ignored when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting intake-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.ProviderWebhookSecret == "" {
		logger.Error("PROVIDER_WEBHOOK_SECRET is required")
		os.Exit(1)
	}

	ctx := context.Background()

	// Persistence
	var repo submissions.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to reach database", "error", err)
			os.Exit(1)
		}
		repo = submissions.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repository")
		repo = submissions.NewInMemoryRepository()
	}

	// Dedup guard (optional)
	var guard *dedup.Guard
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		guard = dedup.NewGuard(redis.NewClient(opts), cfg.DedupTTL, logger)
	}

	// Notifications (optional)
	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	var notifier *notify.Service
	if sender != nil && cfg.ReviewAlertEmail != "" {
		notifier = notify.NewService(sender, cfg.ReviewAlertEmail, logger)
	}

	// Pipeline and handlers
	intakeMetrics := metrics.NewIntakeMetrics(prometheus.DefaultRegisterer)
	pipeline := webhook.NewPipeline(intake.NewExtractor(intake.NewEmergencyDetector(logger)))

	webhookHandler := webhook.NewHandler(webhook.HandlerConfig{
		Secret:    cfg.ProviderWebhookSecret,
		Tolerance: cfg.WebhookTolerance,
		Pipeline:  pipeline,
		Repo:      repo,
		Guard:     guard,
		Notifier:  notifier,
		Metrics:   intakeMetrics,
		Logger:    logger,
	})

	adminCfg := handlers.AdminSubmissionsConfig{
		Repo:     repo,
		Pipeline: pipeline,
		Guard:    guard,
		Logger:   logger,
	}
	if cfg.ProviderAPIKey != "" {
		adminCfg.Provider = provider.NewClient(cfg.ProviderAPIBaseURL, cfg.ProviderAPIKey)
	}
	adminHandler := handlers.NewAdminSubmissionsHandler(adminCfg)

	r := router.New(&router.Config{
		Logger:             logger,
		WebhookHandler:     webhookHandler,
		AdminSubmissions:   adminHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
