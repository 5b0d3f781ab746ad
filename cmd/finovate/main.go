package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/finovate_app/internal/adapters/database/kv"
	"github.com/SscSPs/finovate_app/internal/adapters/database/kvstore"
	"github.com/SscSPs/finovate_app/internal/core/services"
	"github.com/SscSPs/finovate_app/internal/handlers"
	"github.com/SscSPs/finovate_app/internal/middleware"
	"github.com/SscSPs/finovate_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// @title Finovate API
// @version 1.0
// @description Personal finance ledger: accounts, transfers, savings goals and reports.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()

	backend, err := kv.Open(ctx, kv.Options{
		Kind:        kv.Kind(cfg.StoreBackend),
		Path:        cfg.StorePath,
		RedisURL:    cfg.RedisURL,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		logger.Error("Failed to open state backend", slog.String("backend", cfg.StoreBackend), slog.String("error", err.Error()))
		os.Exit(1)
	}
	store := kvstore.NewStore(backend, cfg.StoreNamespace)
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("Error closing state backend", slog.String("error", cerr.Error()))
		}
	}()
	logger.Info("State backend ready", slog.String("backend", cfg.StoreBackend), slog.String("namespace", cfg.StoreNamespace))

	if cfg.SeedExampleData {
		seeded, err := kvstore.SeedExampleData(ctx, store, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to seed example data", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if seeded {
			logger.Info("Example data seeded", slog.String("user_id", kvstore.ExampleUserID), slog.String("admin_id", kvstore.ExampleAdminID))
		} else {
			logger.Info("State already present, skipping example data")
		}
	}

	serviceContainer := services.NewServiceContainer(kvstore.NewRepositoryProvider(store))

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	r := gin.New()

	// Global middleware (logging, recovery, metrics, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if cfg.MetricsEnabled {
		metrics := middleware.NewMetrics()
		r.Use(metrics.Middleware())
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins), middleware.RateLimit(rateLimiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
