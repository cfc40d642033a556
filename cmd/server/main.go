// Package main is the entry point for the waybridge HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/oneline-dev/waybridge/internal/breaker"
	"github.com/oneline-dev/waybridge/internal/config"
	"github.com/oneline-dev/waybridge/internal/evolution"
	"github.com/oneline-dev/waybridge/internal/ghl"
	"github.com/oneline-dev/waybridge/internal/handler"
	"github.com/oneline-dev/waybridge/internal/middleware"
	"github.com/oneline-dev/waybridge/internal/repository"
	"github.com/oneline-dev/waybridge/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			_ = syncErr
		}
	}()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	var repo repository.Repository
	if cfg.Database.Host == "" {
		// No database configured: fall back to the in-memory registry.
		// Instances will not survive a restart.
		logger.Warn("No database configured, using in-memory registry")
		repo = repository.NewMemoryRepository()
	} else {
		db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", zap.Error(err))
			}
		}()

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		repo = repository.NewRepository(db)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	gatewayBreaker := breaker.New("evolution", &cfg.Evolution.CircuitBreaker, logger)
	crmBreaker := breaker.New("ghl", &cfg.GHL.CircuitBreaker, logger)

	svc := service.NewService(service.Deps{
		Config:         cfg,
		Repo:           repo,
		Redis:          redisClient,
		Gateway:        evolution.NewClient(&cfg.Evolution, gatewayBreaker, logger),
		CRM:            ghl.NewClient(&cfg.GHL, crmBreaker, logger),
		GatewayBreaker: gatewayBreaker,
		CRMBreaker:     crmBreaker,
		Logger:         logger,
	})

	h := handler.NewHandler(svc, logger)

	router := setupRouter(h, cfg.Auth.SharedSecret)

	middlewareConfig := &middleware.Config{
		Logger: logger,
		CORS: &middleware.CORSConfig{
			AllowedOrigins:   cfg.Middleware.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", middleware.TenantTokenHeader},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           86400,
		},
		RateLimit:      rate.Limit(cfg.Middleware.RateLimit),
		RateLimitBurst: cfg.Middleware.RateLimitBurst,
		RequestTimeout: 30 * time.Second,
		// Both webhook senders retry on anything but 200, so these routes
		// never see the limiter or the timeout.
		BypassPrefixes: []string{"/webhooks/"},
	}

	finalHandler := middleware.Chain(middlewareConfig)(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      finalHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.Reconciler.Enabled {
		if err := svc.Reconciler.Start(); err != nil {
			logger.Error("Failed to start reconciliation sweep", zap.Error(err))
		} else {
			logger.Info("Reconciliation sweep started",
				zap.Int("intervalMinutes", cfg.Reconciler.IntervalMinutes))
		}
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if svc.Reconciler.IsRunning() {
		if err := svc.Reconciler.Stop(); err != nil {
			logger.Error("Failed to stop reconciliation sweep", zap.Error(err))
		}
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
