// Command server runs the catalog and settlement HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"partstock/internal/config"
	"partstock/internal/domain"
	"partstock/internal/domain/settlement"
	"partstock/internal/domain/store"
	"partstock/internal/infrastructure/cache"
	"partstock/internal/infrastructure/storage/memory"
	"partstock/internal/infrastructure/storage/postgres"
	v1 "partstock/internal/infrastructure/http/v1"
	"partstock/pkg/logger"
)

const version = "1.0.0"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		logger.Default().Fatalw("init logger", "error", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)

	var (
		itemRepo       domain.ItemRepository
		refRepo        domain.ReferenceRepository
		settlementRepo settlement.Repository
		ready          func(c *gin.Context) error
	)

	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
		if err != nil {
			logger.Fatal(ctx, "connect postgres", "error", err)
		}
		defer pool.Close()

		txm := postgres.NewTxManager(pool)
		audit, err := postgres.NewAuditService(txm)
		if err != nil {
			logger.Fatal(ctx, "init audit service", "error", err)
		}

		itemRepo = postgres.NewAuditedItemRepo(postgres.NewItemRepo(txm), audit, txm)
		refRepo = postgres.NewAuditedReferenceRepo(postgres.NewReferenceRepo(txm), audit, txm)
		settlementRepo = postgres.NewAuditedSettlementRepo(postgres.NewSettlementRepo(txm), audit, txm)
		ready = func(c *gin.Context) error { return pool.Ping(c.Request.Context()) }
	} else {
		logger.Warn(ctx, "DATABASE_URL not set, using in-memory store")
		mem := memory.New()
		itemRepo = mem
		refRepo = mem
		settlementRepo = mem
	}

	var snapshots cache.SnapshotCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisSnapshotCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn(ctx, "redis unreachable, snapshot cache disabled", "error", err)
		} else {
			snapshots = redisCache
			defer func() { _ = redisCache.Close() }()
		}
	}

	registry := store.NewRegistry(func() *store.Store {
		return store.New(store.Config{
			Items:       itemRepo,
			References:  refRepo,
			CallTimeout: cfg.RepoCallTimeout,
		})
	})

	router := v1.NewRouter(v1.RouterConfig{
		Registry:      registry,
		Settlement:    settlement.NewService(settlementRepo),
		Cache:         snapshots,
		SnapshotTTL:   cfg.SnapshotTTL,
		DefaultBranch: cfg.DefaultBranch,
		Version:       version,
		Ready:         ready,
		Log:           log,
		Development:   cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server listening", "addr", cfg.ListenAddr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "graceful shutdown failed", "error", err)
	}
	logger.Info(ctx, "server stopped")
}
