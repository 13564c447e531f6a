package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/fastfixai/tenantsite/internal/api"
	"github.com/fastfixai/tenantsite/internal/cache"
	"github.com/fastfixai/tenantsite/internal/config"
	"github.com/fastfixai/tenantsite/internal/content"
	"github.com/fastfixai/tenantsite/internal/database"
	"github.com/fastfixai/tenantsite/internal/metrics"
	"github.com/fastfixai/tenantsite/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Warn("incomplete configuration", "error", err)
	}
	metrics.Init()

	ctx := context.Background()

	// Database connection (optional, functions that need it report 500 without it)
	var db *pgxpool.Pool
	if pool, err := database.NewPool(ctx, cfg.Database); err != nil {
		slog.Warn("database unavailable, running without DB", "error", err)
	} else {
		db = pool
		defer db.Close()

		if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath); err != nil {
			slog.Warn("migrations failed", "error", err)
		}
	}

	// Redis connection (optional)
	var c *cache.Cache
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, running without cache", "error", err)
	} else {
		c = cache.NewCache(rdb, "tenantsite")
	}

	qc := queue.NewClient(cfg.Redis)
	defer qc.Close()

	site, err := content.Load(cfg.Site.ContentDir)
	if err != nil {
		slog.Error("failed to load site content", "dir", cfg.Site.ContentDir, "error", err)
		os.Exit(1)
	}
	for _, issue := range site.Issues() {
		slog.Warn("content issue", "issue", issue)
	}

	router, err := api.NewRouter(cfg, api.Deps{DB: db, Cache: c, Queue: qc, Site: site})
	if err != nil {
		slog.Error("failed to build router", "error", err)
		os.Exit(1)
	}
	handler := router.Setup()

	stop := make(chan struct{})
	go router.Limiter().Cleanup(stop)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	close(stop)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
