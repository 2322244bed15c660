package main

import (
	"context"
	"os"

	"github.com/fundcraft/backstage/pkg/config"
	"github.com/fundcraft/backstage/pkg/database"
	"github.com/fundcraft/backstage/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	if _, err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.OpenPostgres(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatal("database connection failed", zap.Error(err))
	}

	if err := runMigrations(db); err != nil {
		logger.L().Fatal("migration failed", zap.Error(err))
	}
	logger.L().Info("migrations applied")

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
