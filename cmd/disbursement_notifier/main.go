package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/disbursement_notifier/internal/adapters/email"
	"github.com/SscSPs/disbursement_notifier/internal/core/services"
	"github.com/SscSPs/disbursement_notifier/internal/handlers"
	"github.com/SscSPs/disbursement_notifier/internal/middleware"
	"github.com/SscSPs/disbursement_notifier/internal/platform/config"
	"github.com/SscSPs/disbursement_notifier/internal/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	dispatcher, err := email.NewDispatcher(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize email dispatcher", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Email dispatcher ready", slog.String("provider", dispatcher.Name()), slog.Duration("timeout", cfg.SendTimeout))

	limiterInstance, err := middleware.NewLimiter(ctx, cfg.RateLimit, cfg.RedisURL)
	if err != nil {
		logger.Error("Failed to initialize rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	serviceContainer := services.NewServiceContainer(cfg, dispatcher)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, limiterInstance, posthogClient)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
