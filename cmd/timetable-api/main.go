package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-optimizer/internal/handler"
	"github.com/noah-isme/timetable-optimizer/internal/repository"
	"github.com/noah-isme/timetable-optimizer/internal/server"
	"github.com/noah-isme/timetable-optimizer/internal/service"
	"github.com/noah-isme/timetable-optimizer/pkg/cache"
	"github.com/noah-isme/timetable-optimizer/pkg/config"
	"github.com/noah-isme/timetable-optimizer/pkg/database"
	"github.com/noah-isme/timetable-optimizer/pkg/jobs"
	"github.com/noah-isme/timetable-optimizer/pkg/logger"
)

// @title Timetable Optimizer API
// @version 1.0.0
// @description Finds the best weekly timetable for a set of subjects.
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	checks := map[string]handler.Pinger{}

	var db *sqlx.DB
	if cfg.Database.Enabled {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		if err := database.EnsureSchema(ctx, db); err != nil {
			logr.Fatal("failed to apply schema", zap.Error(err))
		}
		checks["postgres"] = db
	}

	var redisClient *redis.Client
	if cfg.Optimizer.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, result cache disabled", zap.Error(err))
		} else {
			checks["redis"] = handler.PingFunc(cache.Ping(redisClient))
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, "timetable", logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Optimizer.CacheTTL, logr, redisClient != nil)

	var (
		catalogRepo *repository.CatalogRepository
		runRepo     *repository.OptimizationRunRepository
	)
	if db != nil {
		catalogRepo = repository.NewCatalogRepository(db)
		runRepo = repository.NewOptimizationRunRepository(db)
	}

	validate := validator.New()
	optimizerCfg := service.OptimizerConfig{
		MaxEvaluations: cfg.Optimizer.MaxEvaluations,
		Timeout:        cfg.Optimizer.Timeout,
		MaxSubjects:    cfg.Optimizer.MaxSubjects,
		CacheTTL:       cfg.Optimizer.CacheTTL,
		PersistRuns:    cfg.Optimizer.PersistRuns,
	}

	// Stores are passed only when a database is configured.
	var (
		optimizerSvc *service.OptimizerService
		catalogSvc   *service.CatalogService
		jobSvc       *service.OptimizationJobService
	)
	if db != nil {
		optimizerSvc = service.NewOptimizerService(catalogRepo, runRepo, cacheSvc, metrics, validate, logr, optimizerCfg)
		catalogSvc = service.NewCatalogService(catalogRepo, logr)
		jobSvc = service.NewOptimizationJobService(optimizerSvc, runRepo, metrics, logr)

		queue := jobs.NewQueue("optimizations", jobSvc.Handle, jobs.QueueConfig{
			Workers:    cfg.Optimizer.Workers,
			BufferSize: cfg.Optimizer.QueueSize,
			MaxRetries: 2,
			RetryDelay: 2 * time.Second,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()
		jobSvc.SetQueue(queue)
	} else {
		optimizerSvc = service.NewOptimizerService(nil, nil, cacheSvc, metrics, validate, logr, optimizerCfg)
		catalogSvc = service.NewCatalogService(nil, logr)
	}
	exportSvc := service.NewScheduleExportService(optimizerSvc, nil, nil, logr)
	tokenSvc := service.NewTokenService(service.TokenConfig{Secret: cfg.Auth.Secret, Issuer: cfg.Auth.Issuer})

	router := server.NewRouter(cfg, logr, metrics, tokenSvc, server.Handlers{
		Optimizer: handler.NewOptimizerHandler(optimizerSvc, jobSvc, exportSvc),
		Catalog:   handler.NewCatalogHandler(catalogSvc),
		Metrics:   handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "database", db != nil, "cache", cacheSvc.Enabled(), "auth", cfg.Auth.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
