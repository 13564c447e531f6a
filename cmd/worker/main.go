package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/fastfixai/tenantsite/internal/config"
	"github.com/fastfixai/tenantsite/internal/database"
	"github.com/fastfixai/tenantsite/internal/feedback"
	"github.com/fastfixai/tenantsite/internal/queue"
	"github.com/fastfixai/tenantsite/internal/queue/workers"
	"github.com/fastfixai/tenantsite/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	db, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var st storage.Storage
	if cfg.Storage.SupabaseURL != "" && cfg.Storage.SupabaseKey != "" {
		st = storage.NewSupabaseStorage(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey)
	} else {
		slog.Warn("storage not configured, feedback snapshots will not be archived")
	}

	srv := asynq.NewServer(
		queue.RedisOpt(cfg.Redis),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	feedbackWorker := workers.NewFeedbackWorker(feedback.NewPostgresStore(db), st, cfg.Storage.Bucket)
	mux := queue.NewServeMux(feedbackWorker)

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(mux); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
