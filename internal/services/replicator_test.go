package services

import (
	"context"
	"testing"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSourceProject(t *testing.T, db *gorm.DB, userID uuid.UUID) (*models.Project, *models.Task, *models.Task, *models.Schedule) {
	t.Helper()
	src := seedProject(t, db, userID)

	root := &models.Task{ProjectID: src.ID, UserID: userID, Title: "root", Status: models.TaskStatusNotStarted, OrderIndex: 0}
	require.NoError(t, db.Create(root).Error)
	child := &models.Task{ProjectID: src.ID, UserID: userID, ParentID: &root.ID, Title: "child", Status: models.TaskStatusInProgress, OrderIndex: 0}
	require.NoError(t, db.Create(child).Error)
	require.NoError(t, db.Create(&models.Subtask{TaskID: root.ID, UserID: userID, Title: "check"}).Error)
	require.NoError(t, db.Create(&models.TaskNote{TaskID: child.ID, UserID: userID, Content: "remember"}).Error)

	sched := &models.Schedule{ProjectID: src.ID, UserID: userID, Title: "launch", OrderIndex: 0}
	require.NoError(t, db.Create(sched).Error)
	require.NoError(t, db.Create(&models.ScheduleCell{ScheduleID: sched.ID, ProjectID: src.ID, FieldKey: "owner", Value: "pm"}).Error)

	require.NoError(t, db.Create(&models.Meeting{ProjectID: src.ID, UserID: userID, Title: "standup", OrderIndex: 0}).Error)
	require.NoError(t, db.Create(&models.Document{ProjectID: src.ID, UserID: userID, Title: "brief", URL: "https://example.com/brief"}).Error)
	require.NoError(t, db.Create(&models.ProjectNote{ProjectID: src.ID, UserID: userID, Content: "scope"}).Error)

	return src, root, child, sched
}

func TestReplicatorCopiesEverythingAndRemapsIDs(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	src, srcRoot, srcChild, _ := seedSourceProject(t, db, user.ID)

	dest := &models.Project{UserID: user.ID, Name: src.Name + " copy", Status: src.Status, BrandType: src.BrandType, CopyStatus: models.CopyStatusCopying}
	require.NoError(t, db.Create(dest).Error)

	r := NewReplicator(db, repository.NewProjectRepository(db), nil, 0)
	report, err := r.Run(context.Background(), src.ID, dest.ID, user.ID)
	require.NoError(t, err)
	require.False(t, report.Partial())

	var tasks []models.Task
	require.NoError(t, db.Where("project_id = ?", dest.ID).Order("created_at ASC, id ASC").Find(&tasks).Error)
	require.Len(t, tasks, 2)
	byTitle := map[string]models.Task{}
	for _, task := range tasks {
		require.NotEqual(t, srcRoot.ID, task.ID)
		require.NotEqual(t, srcChild.ID, task.ID)
		byTitle[task.Title] = task
	}
	require.Nil(t, byTitle["root"].ParentID)
	require.NotNil(t, byTitle["child"].ParentID)
	require.Equal(t, byTitle["root"].ID, *byTitle["child"].ParentID)

	var sub models.Subtask
	require.NoError(t, db.Where("task_id = ?", byTitle["root"].ID).First(&sub).Error)
	require.Equal(t, "check", sub.Title)
	var note models.TaskNote
	require.NoError(t, db.Where("task_id = ?", byTitle["child"].ID).First(&note).Error)

	var sched models.Schedule
	require.NoError(t, db.Where("project_id = ?", dest.ID).First(&sched).Error)
	var cell models.ScheduleCell
	require.NoError(t, db.Where("schedule_id = ?", sched.ID).First(&cell).Error)
	require.Equal(t, "owner", cell.FieldKey)
	require.Equal(t, dest.ID, cell.ProjectID)

	for _, m := range []any{&models.Meeting{}, &models.Document{}, &models.ProjectNote{}} {
		var count int64
		require.NoError(t, db.Model(m).Where("project_id = ?", dest.ID).Count(&count).Error)
		require.EqualValues(t, 1, count)
	}

	var reloaded models.Project
	require.NoError(t, db.First(&reloaded, "id = ?", dest.ID).Error)
	require.Equal(t, models.CopyStatusComplete, reloaded.CopyStatus)

	// source untouched
	var srcTasks int64
	require.NoError(t, db.Model(&models.Task{}).Where("project_id = ?", src.ID).Count(&srcTasks).Error)
	require.EqualValues(t, 2, srcTasks)
}

func TestReplicatorPartialKeepsCopiedSections(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	src, _, _, _ := seedSourceProject(t, db, user.ID)

	dest := &models.Project{UserID: user.ID, Name: src.Name + " copy", Status: src.Status, BrandType: src.BrandType, CopyStatus: models.CopyStatusCopying}
	require.NoError(t, db.Create(dest).Error)

	// break one section only
	require.NoError(t, db.Migrator().DropTable(&models.Meeting{}))

	r := NewReplicator(db, repository.NewProjectRepository(db), nil, 0)
	report, err := r.Run(context.Background(), src.ID, dest.ID, user.ID)
	require.NoError(t, err)
	require.True(t, report.Partial())
	require.Len(t, report.Failures, 1)
	require.Contains(t, report.Failures[0], "meetings")

	// everything else still landed
	var taskCount int64
	require.NoError(t, db.Model(&models.Task{}).Where("project_id = ?", dest.ID).Count(&taskCount).Error)
	require.EqualValues(t, 2, taskCount)

	var reloaded models.Project
	require.NoError(t, db.First(&reloaded, "id = ?", dest.ID).Error)
	require.Equal(t, models.CopyStatusPartial, reloaded.CopyStatus)
	require.NotEmpty(t, reloaded.CopyReport)
}

func TestReplicatorMissingSourceFails(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	dest := seedProject(t, db, user.ID)

	r := NewReplicator(db, repository.NewProjectRepository(db), nil, 0)
	_, err := r.Run(context.Background(), uuid.New(), dest.ID, user.ID)
	require.Error(t, err)
}
