package services

import (
	"os"
	"testing"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "console"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// newTestDB opens a private in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	u := &models.User{Email: uuid.NewString() + "@example.com", PasswordHash: "x", Name: "Owner"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProject(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.Project {
	t.Helper()
	p := &models.Project{
		UserID:    userID,
		Name:      "Campaign",
		Status:    models.ProjectStatusInProgress,
		BrandType: models.BrandA,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
