package services

import (
	"context"
	"testing"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/internal/repository"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTaskService(t *testing.T) (*TaskService, *gorm.DB, *models.User, *models.Project) {
	t.Helper()
	db := newTestDB(t)
	user := seedUser(t, db)
	project := seedProject(t, db, user.ID)
	svc := NewTaskService(db, repository.NewTaskRepository(db), repository.NewProjectRepository(db), nil)
	return svc, db, user, project
}

func TestCreateTaskAppendsWithinSiblingGroup(t *testing.T) {
	svc, _, user, project := newTaskService(t)
	ctx := context.Background()

	var roots []*models.Task
	for _, title := range []string{"a", "b", "c"} {
		task := &models.Task{ProjectID: project.ID, Title: title, Status: models.TaskStatusNotStarted}
		require.NoError(t, svc.CreateTask(ctx, user.ID, task))
		roots = append(roots, task)
	}
	require.Equal(t, 0, roots[0].OrderIndex)
	require.Equal(t, 1, roots[1].OrderIndex)
	require.Equal(t, 2, roots[2].OrderIndex)

	// children index independently of the root group
	child := &models.Task{ProjectID: project.ID, ParentID: &roots[0].ID, Title: "child", Status: models.TaskStatusNotStarted}
	require.NoError(t, svc.CreateTask(ctx, user.ID, child))
	require.Equal(t, 0, child.OrderIndex)
}

func TestMoveTaskDownPersistsSwap(t *testing.T) {
	svc, _, user, project := newTaskService(t)
	ctx := context.Background()

	var tasks []*models.Task
	for _, title := range []string{"a", "b", "c"} {
		task := &models.Task{ProjectID: project.ID, Title: title, Status: models.TaskStatusNotStarted}
		require.NoError(t, svc.CreateTask(ctx, user.ID, task))
		tasks = append(tasks, task)
	}

	refreshed, err := svc.MoveTaskDown(ctx, user.ID, tasks[0].ID)
	require.NoError(t, err)

	titles := make([]string, 0, len(refreshed))
	for _, task := range refreshed {
		titles = append(titles, task.Title)
	}
	require.Equal(t, []string{"b", "a", "c"}, titles)
	require.Equal(t, 0, refreshed[0].OrderIndex)
	require.Equal(t, 1, refreshed[1].OrderIndex)

	// moving the last task down changes nothing
	refreshed, err = svc.MoveTaskDown(ctx, user.ID, tasks[2].ID)
	require.NoError(t, err)
	require.Equal(t, "c", refreshed[2].Title)
}

func TestDeleteTaskCascadesSubtree(t *testing.T) {
	svc, db, user, project := newTaskService(t)
	ctx := context.Background()

	root := &models.Task{ProjectID: project.ID, Title: "root", Status: models.TaskStatusNotStarted}
	require.NoError(t, svc.CreateTask(ctx, user.ID, root))
	child := &models.Task{ProjectID: project.ID, ParentID: &root.ID, Title: "child", Status: models.TaskStatusNotStarted}
	require.NoError(t, svc.CreateTask(ctx, user.ID, child))
	grandchild := &models.Task{ProjectID: project.ID, ParentID: &child.ID, Title: "grandchild", Status: models.TaskStatusNotStarted}
	require.NoError(t, svc.CreateTask(ctx, user.ID, grandchild))
	other := &models.Task{ProjectID: project.ID, Title: "other", Status: models.TaskStatusNotStarted}
	require.NoError(t, svc.CreateTask(ctx, user.ID, other))

	require.NoError(t, svc.CreateSubtask(ctx, user.ID, &models.Subtask{TaskID: child.ID, Title: "item"}))
	require.NoError(t, svc.CreateTaskNote(ctx, user.ID, &models.TaskNote{TaskID: grandchild.ID, Content: "note"}))

	require.NoError(t, svc.DeleteTask(ctx, user.ID, root.ID))

	var taskCount, subtaskCount, noteCount int64
	require.NoError(t, db.Model(&models.Task{}).Count(&taskCount).Error)
	require.NoError(t, db.Model(&models.Subtask{}).Count(&subtaskCount).Error)
	require.NoError(t, db.Model(&models.TaskNote{}).Count(&noteCount).Error)
	require.EqualValues(t, 1, taskCount) // "other" survives
	require.EqualValues(t, 0, subtaskCount)
	require.EqualValues(t, 0, noteCount)
}

func TestCreateTaskRejectsForeignParent(t *testing.T) {
	svc, db, user, project := newTaskService(t)
	ctx := context.Background()

	otherProject := seedProject(t, db, user.ID)
	foreign := &models.Task{ProjectID: otherProject.ID, Title: "elsewhere", Status: models.TaskStatusNotStarted}
	require.NoError(t, svc.CreateTask(ctx, user.ID, foreign))

	bad := &models.Task{ProjectID: project.ID, ParentID: &foreign.ID, Title: "bad", Status: models.TaskStatusNotStarted}
	err := svc.CreateTask(ctx, user.ID, bad)
	require.Error(t, err)
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestTaskOwnershipEnforced(t *testing.T) {
	svc, db, user, project := newTaskService(t)
	ctx := context.Background()

	task := &models.Task{ProjectID: project.ID, Title: "mine", Status: models.TaskStatusNotStarted}
	require.NoError(t, svc.CreateTask(ctx, user.ID, task))

	stranger := seedUser(t, db)
	_, err := svc.GetTask(ctx, stranger.ID, task.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))

	_, err = svc.ListTasks(ctx, stranger.ID, project.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))
}

func TestTaskTreeReflectsHierarchy(t *testing.T) {
	svc, _, user, project := newTaskService(t)
	ctx := context.Background()

	root := &models.Task{ProjectID: project.ID, Title: "root", Status: models.TaskStatusNotStarted}
	require.NoError(t, svc.CreateTask(ctx, user.ID, root))
	child := &models.Task{ProjectID: project.ID, ParentID: &root.ID, Title: "child", Status: models.TaskStatusNotStarted}
	require.NoError(t, svc.CreateTask(ctx, user.ID, child))

	tree, err := svc.TaskTree(ctx, user.ID, project.ID)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	require.Equal(t, child.ID, tree[0].Children[0].ID)
}
