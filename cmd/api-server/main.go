package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studytour/database"
	"studytour/internal/cache"
	"studytour/internal/config"
	"studytour/internal/events"
	"studytour/internal/logger"
	"studytour/internal/microservices/http-api/middleware"
	"studytour/internal/microservices/http-api/repository"
	"studytour/internal/microservices/http-api/router"
	"studytour/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("api server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg, zl)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Redis is optional: without it the cache misses and the limiter is off.
	opts := router.Options{
		Logger:      zl,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit: middleware.RateLimitConfig{
			Enabled:        cfg.RateLimitEnabled,
			Capacity:       cfg.RateLimitCapacity,
			RefillInterval: cfg.RateLimitRefillInterval,
		},
		DB: sqlDB,
	}
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = cache.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			zl.Warn("redis unavailable, running without cache and rate limiting", zap.Error(err))
			rdb = nil
		} else {
			defer func() { _ = rdb.Close() }()
			opts.Redis = rdb
		}
	}
	summaryCache := cache.NewRedisCache(rdb, cfg.CacheDuration())

	var publisher events.Publisher = events.Noop{}
	if cfg.RabbitMQURL != "" {
		rp, err := events.NewRabbitPublisher(cfg.RabbitMQURL)
		if err != nil {
			zl.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
		} else {
			defer func() { _ = rp.Close() }()
			publisher = rp
		}
	}

	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	campsiteRepo := repository.NewCampsiteRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	followRepo := repository.NewFollowRepository(db)

	services := router.Services{
		Auth:     service.NewAuthService(userRepo, refreshTokenRepo, cfg, zl.Named("auth")),
		Campsite: service.NewCampsiteService(campsiteRepo, summaryCache, publisher, zl.Named("campsite")),
		Rating:   service.NewRatingService(ratingRepo, campsiteRepo, summaryCache, publisher, zl.Named("rating")),
		Comment:  service.NewCommentService(commentRepo, campsiteRepo, zl.Named("comment")),
		Report:   service.NewReportService(reportRepo, commentRepo, publisher, zl.Named("report")),
		Follow:   service.NewFollowService(followRepo, userRepo),
		Admin: service.NewAdminService(userRepo, campsiteRepo, commentRepo, ratingRepo, reportRepo,
			refreshTokenRepo, zl.Named("admin")),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router.New(services, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("api server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
