package main

import (
	"github.com/fundcraft/backstage/internal/models"
	"gorm.io/gorm"
)

func registerModels() []any {
	return []any{
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.Subtask{},
		&models.TaskNote{},
		&models.Schedule{},
		&models.ScheduleCell{},
		&models.Meeting{},
		&models.Return{},
		&models.DesignRequirement{},
		&models.ImageAsset{},
		&models.Document{},
		&models.TextRequirement{},
		&models.VideoRequirement{},
		&models.ProjectNote{},
		&models.SectionPreference{},
	}
}

func runMigrations(db *gorm.DB) error {
	// uuid defaults for rows created outside the application
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(registerModels()...)
}
