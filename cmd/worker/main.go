package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/promptforge/promptforge/internal/batch"
	"github.com/promptforge/promptforge/internal/cache"
	"github.com/promptforge/promptforge/internal/config"
	"github.com/promptforge/promptforge/internal/database"
	"github.com/promptforge/promptforge/internal/ledger"
	"github.com/promptforge/promptforge/internal/provider"
	"github.com/promptforge/promptforge/internal/queue"
	"github.com/promptforge/promptforge/internal/scorer"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	metric, err := scorer.ForName(cfg.Batch.Scorer)
	if err != nil {
		slog.Error("invalid scorer", "error", err)
		os.Exit(1)
	}

	ledgerSvc := ledger.NewService(db, cache.New(rdb))
	evaluator := batch.NewEvaluator(
		ledgerSvc,
		batch.NewStore(db),
		provider.NewGateway(cfg.Providers),
		metric,
		cfg.Batch.Parallelism,
	)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{Concurrency: 4},
	)

	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeBatchEvaluate, asynq.HandlerFunc(queue.NewBatchWorker(evaluator).ProcessTask))

	slog.Info("starting worker", "concurrency", 4)
	if err := srv.Run(mux); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
