package services

import (
	"context"
	"testing"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/internal/repository"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeEnqueuer struct {
	sourceID, destID, ownerID uuid.UUID
	calls                     int
}

func (f *fakeEnqueuer) EnqueueReplication(ctx context.Context, sourceID, destID, ownerID uuid.UUID) error {
	f.sourceID, f.destID, f.ownerID = sourceID, destID, ownerID
	f.calls++
	return nil
}

func newProjectService(t *testing.T, enqueue ReplicationEnqueuer) (*ProjectService, *gorm.DB, *models.User) {
	t.Helper()
	db := newTestDB(t)
	user := seedUser(t, db)
	svc := NewProjectService(db, repository.NewProjectRepository(db), repository.NewTaskRepository(db), enqueue, nil)
	return svc, db, user
}

func TestShareMintsTokenAndUnshareKeepsIt(t *testing.T) {
	svc, _, user := newProjectService(t, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, user.ID, &CreateProjectInput{Name: "Campaign", BrandType: models.BrandA})
	require.NoError(t, err)

	shared, err := svc.Share(ctx, p.ID, user.ID)
	require.NoError(t, err)
	require.True(t, shared.IsShared)
	require.NotNil(t, shared.ShareToken)
	require.NotNil(t, shared.SharedAt)
	token := *shared.ShareToken

	// sharing again keeps the same token
	again, err := svc.Share(ctx, p.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, token, *again.ShareToken)

	require.NoError(t, svc.Unshare(ctx, p.ID, user.ID))
	reloaded, err := svc.Get(ctx, p.ID, user.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsShared)
	require.NotNil(t, reloaded.ShareToken)
	require.Equal(t, token, *reloaded.ShareToken)

	// re-sharing yields the stable URL
	reshared, err := svc.Share(ctx, p.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, token, *reshared.ShareToken)
}

func TestSharedViewRequiresActiveShare(t *testing.T) {
	svc, db, user := newProjectService(t, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, user.ID, &CreateProjectInput{Name: "Campaign", BrandType: models.BrandB})
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Task{ProjectID: p.ID, UserID: user.ID, Title: "t1", Status: models.TaskStatusNotStarted}).Error)
	require.NoError(t, db.Create(&models.Meeting{ProjectID: p.ID, UserID: user.ID, Title: "kickoff"}).Error)
	require.NoError(t, db.Create(&models.ProjectNote{ProjectID: p.ID, UserID: user.ID, Content: "hello"}).Error)

	shared, err := svc.Share(ctx, p.ID, user.ID)
	require.NoError(t, err)

	view, err := svc.SharedView(ctx, *shared.ShareToken)
	require.NoError(t, err)
	require.Equal(t, p.ID, view.Project.ID)
	require.Len(t, view.Tasks, 1)
	require.Len(t, view.Meetings, 1)
	require.Len(t, view.Notes, 1)

	require.NoError(t, svc.Unshare(ctx, p.ID, user.ID))
	_, err = svc.SharedView(ctx, *shared.ShareToken)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestDeleteProjectCascades(t *testing.T) {
	svc, db, user := newProjectService(t, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, user.ID, &CreateProjectInput{Name: "Campaign", BrandType: models.BrandA})
	require.NoError(t, err)

	task := &models.Task{ProjectID: p.ID, UserID: user.ID, Title: "t", Status: models.TaskStatusNotStarted}
	require.NoError(t, db.Create(task).Error)
	require.NoError(t, db.Create(&models.Subtask{TaskID: task.ID, UserID: user.ID, Title: "s"}).Error)
	require.NoError(t, db.Create(&models.TaskNote{TaskID: task.ID, UserID: user.ID, Content: "n"}).Error)
	sched := &models.Schedule{ProjectID: p.ID, UserID: user.ID, Title: "launch"}
	require.NoError(t, db.Create(sched).Error)
	require.NoError(t, db.Create(&models.ScheduleCell{ScheduleID: sched.ID, ProjectID: p.ID, FieldKey: "owner", Value: "me"}).Error)
	require.NoError(t, db.Create(&models.Return{ProjectID: p.ID, UserID: user.ID, Title: "tier", Amount: 1000}).Error)

	require.NoError(t, svc.Delete(ctx, p.ID, user.ID))

	for _, m := range []any{
		&models.Project{}, &models.Task{}, &models.Subtask{}, &models.TaskNote{},
		&models.Schedule{}, &models.ScheduleCell{}, &models.Return{},
	} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		require.Zero(t, count)
	}
}

func TestBeginDuplicateEnqueuesAndMarksCopying(t *testing.T) {
	enq := &fakeEnqueuer{}
	svc, _, user := newProjectService(t, enq)
	ctx := context.Background()

	src, err := svc.Create(ctx, user.ID, &CreateProjectInput{Name: "Campaign", Description: "d", BrandType: models.BrandA})
	require.NoError(t, err)

	dest, err := svc.BeginDuplicate(ctx, src.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Campaign copy", dest.Name)
	require.Equal(t, "d", dest.Description)
	require.Equal(t, models.CopyStatusCopying, dest.CopyStatus)
	require.Equal(t, 1, enq.calls)
	require.Equal(t, src.ID, enq.sourceID)
	require.Equal(t, dest.ID, enq.destID)
	require.Equal(t, user.ID, enq.ownerID)
}

func TestProjectOwnershipEnforced(t *testing.T) {
	svc, db, user := newProjectService(t, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, user.ID, &CreateProjectInput{Name: "Campaign", BrandType: models.BrandA})
	require.NoError(t, err)

	stranger := seedUser(t, db)
	_, err = svc.Get(ctx, p.ID, stranger.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))
	err = svc.Delete(ctx, p.ID, stranger.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))
	_, err = svc.Share(ctx, p.ID, stranger.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))
}
