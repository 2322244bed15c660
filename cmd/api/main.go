package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fundcraft/backstage/internal/api"
	"github.com/fundcraft/backstage/internal/api/handlers"
	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/internal/queue/tasks"
	"github.com/fundcraft/backstage/internal/realtime"
	"github.com/fundcraft/backstage/internal/repository"
	"github.com/fundcraft/backstage/internal/services"
	"github.com/fundcraft/backstage/pkg/config"
	"github.com/fundcraft/backstage/pkg/database"
	"github.com/fundcraft/backstage/pkg/logger"
	"github.com/hibiken/asynq"
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

	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatal("database connection failed", zap.Error(err))
	}

	queueClient := tasks.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer queueClient.Close()

	hub := realtime.NewHub()

	users := repository.NewUserRepository(db)
	projects := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	prefs := repository.NewPreferenceRepository(db)
	cells := repository.NewScheduleCellRepository(db)
	schedules := repository.NewOrderableRepository[models.Schedule](db)

	projectSvc := services.NewProjectService(db, projects, taskRepo, queueClient, hub)
	taskSvc := services.NewTaskService(db, taskRepo, projects, hub)
	prefSvc := services.NewPreferenceService(prefs)
	cellSvc := services.NewScheduleCellService(cells, schedules, projects)

	h := &api.Handlers{
		Health:      handlers.NewHealthHandler(db),
		Auth:        handlers.NewAuthHandler(users, cfg.JWTSecret, cfg.JWTTTL),
		Projects:    handlers.NewProjectsHandler(projectSvc),
		Tasks:       handlers.NewTasksHandler(taskSvc),
		Preferences: handlers.NewPreferencesHandler(prefSvc, cellSvc),
		Shared:      handlers.NewSharedHandler(projectSvc),
		Events:      handlers.NewEventsHandler(hub, projectSvc),

		Schedules: handlers.NewCollectionHandler(
			services.NewCollectionService[models.Schedule]("schedules", db, projects, hub)),
		Meetings: handlers.NewCollectionHandler(
			services.NewCollectionService[models.Meeting]("meetings", db, projects, hub)),
		Returns: handlers.NewCollectionHandler(
			services.NewCollectionService[models.Return]("returns", db, projects, hub)),
		DesignRequirements: handlers.NewCollectionHandler(
			services.NewCollectionService[models.DesignRequirement]("design_requirements", db, projects, hub)),
		ImageAssets: handlers.NewCollectionHandler(
			services.NewCollectionService[models.ImageAsset]("image_assets", db, projects, hub)),

		Documents: handlers.NewRecordHandler(
			services.NewRecordService[models.Document]("documents", db, projects, hub)),
		TextRequirements: handlers.NewRecordHandler(
			services.NewRecordService[models.TextRequirement]("text_requirements", db, projects, hub)),
		VideoRequirements: handlers.NewRecordHandler(
			services.NewRecordService[models.VideoRequirement]("video_requirements", db, projects, hub)),
		ProjectNotes: handlers.NewRecordHandler(
			services.NewRecordService[models.ProjectNote]("project_notes", db, projects, hub)),
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(cfg, h),
	}

	go func() {
		logger.L().Info("api listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("graceful shutdown failed", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
