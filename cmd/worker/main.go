package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fundcraft/backstage/internal/queue/tasks"
	"github.com/fundcraft/backstage/internal/realtime"
	"github.com/fundcraft/backstage/internal/repository"
	"github.com/fundcraft/backstage/internal/services"
	"github.com/fundcraft/backstage/pkg/config"
	"github.com/fundcraft/backstage/pkg/database"
	"github.com/fundcraft/backstage/pkg/logger"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	if _, err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.L().Fatal("redis connection failed", zap.Error(err))
	}
	_ = rdb.Close()

	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatal("database connection failed", zap.Error(err))
	}

	hub := realtime.NewHub()
	projects := repository.NewProjectRepository(db)
	replicator := services.NewReplicator(db, projects, hub, cfg.CopyInsertPause)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword},
		asynq.Config{
			Concurrency: cfg.AsynqConcurrency,
			Queues:      map[string]int{"default": 1},
		},
	)

	mux := asynq.NewServeMux()
	handler := tasks.NewReplicateTaskHandler(replicator)
	mux.HandleFunc(tasks.TypeReplicate, handler.HandleReplicate)

	go func() {
		logger.L().Info("worker starting", zap.Int("concurrency", cfg.AsynqConcurrency))
		if err := srv.Run(mux); err != nil {
			logger.L().Fatal("worker failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.L().Info("worker shutting down")
	srv.Shutdown()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
