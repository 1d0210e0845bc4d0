package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/zfogg/inkwell/backend/internal/cache"
	"github.com/zfogg/inkwell/backend/internal/config"
	"github.com/zfogg/inkwell/backend/internal/database"
	"github.com/zfogg/inkwell/backend/internal/kernel"
	"github.com/zfogg/inkwell/backend/internal/logger"
	"github.com/zfogg/inkwell/backend/internal/metrics"
	"github.com/zfogg/inkwell/backend/internal/middleware"
	"github.com/zfogg/inkwell/backend/internal/storage"
	"github.com/zfogg/inkwell/backend/internal/telemetry"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.FatalWithFields("Failed to load config", err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		logger.FatalWithFields("Failed to initialize logger", err)
	}
	defer logger.Close()

	if err := cfg.Validate(); err != nil {
		logger.FatalWithFields("Invalid configuration", err)
	}

	logger.Log.Info("=== Inkwell server starting ===",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
	)

	ctx := context.Background()
	metrics.Initialize()

	tp, err := telemetry.InitTracer(ctx, cfg.Tracing, cfg.Environment)
	if err != nil {
		logger.WarnWithFields("Tracing disabled: failed to initialize exporter", err)
	}

	db, err := database.Initialize(cfg.Database, cfg.IsDevelopment())
	if err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	if err := db.Use(telemetry.GORMPlugin(cfg.Database.Driver)); err != nil {
		logger.WarnWithFields("Failed to register database instrumentation", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	k := kernel.New(cfg).WithDB(db)

	// Redis is optional: without it caching is off and rate limits are per-process
	if cfg.Redis.Host != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.WarnWithFields("Redis unavailable, continuing without cache", err)
		} else {
			k.WithCache(redisClient)
			k.OnShutdown(func(context.Context) error { return redisClient.Close() })
		}
	}

	if cfg.Storage.Bucket != "" {
		uploader, err := storage.NewS3Uploader(ctx, cfg.Storage.Region, cfg.Storage.Bucket, cfg.Storage.CDNBaseURL, cfg.Storage.Folder)
		if err != nil {
			logger.WarnWithFields("Image uploads disabled: failed to initialize S3", err)
		} else {
			k.WithImageUploader(uploader)
		}
	} else {
		logger.Log.Warn("AWS_BUCKET not set, image uploads are disabled")
	}

	k.OnShutdown(func(context.Context) error { return database.Close() })
	k.OnShutdown(func(ctx context.Context) error { return telemetry.Shutdown(ctx, tp) })

	if err := k.Wire(); err != nil {
		logger.FatalWithFields("Failed to wire services", err)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	if cfg.Tracing.Enabled {
		r.Use(middleware.TracingMiddleware(cfg.Tracing.ServiceName)...)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, "Retry-After"}
	r.Use(cors.New(corsConfig))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	apiLimit := middleware.DefaultRateLimitConfig()
	apiLimit.Limit = cfg.RateLimitRequests
	apiLimit.Window = cfg.RateLimitWindow
	r.Use(middleware.RateLimit("api", apiLimit))

	k.Handlers().SetupRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Inkwell backend listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.FatalWithFields("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithFields("Server forced to shutdown", err)
	}
	if err := k.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithFields("Cleanup failed", err)
	}

	logger.Log.Info("Server exited")
}
