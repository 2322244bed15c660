package services

import (
	"context"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/internal/realtime"
	"github.com/fundcraft/backstage/internal/repository"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/fundcraft/backstage/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskService manages the task hierarchy of a project along with subtasks and
// task notes.
type TaskService struct {
	db       *gorm.DB
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	hub      *realtime.Hub
}

func NewTaskService(db *gorm.DB, tasks repository.TaskRepository, projects repository.ProjectRepository, hub *realtime.Hub) *TaskService {
	return &TaskService{db: db, tasks: tasks, projects: projects, hub: hub}
}

func (s *TaskService) notify(table string, action realtime.Action, projectID uuid.UUID, payload any) {
	if s.hub != nil {
		s.hub.Publish(realtime.Event{Table: table, Action: action, ProjectID: projectID, Payload: payload})
	}
}

// ListTasks returns the project's tasks flat, sorted by order_index with
// created_at and id as tie-breakers.
func (s *TaskService) ListTasks(ctx context.Context, userID, projectID uuid.UUID) ([]models.Task, error) {
	if _, err := requireProjectOwner(ctx, s.projects, projectID, userID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

// TaskTree returns the project's tasks as a forest.
func (s *TaskService) TaskTree(ctx context.Context, userID, projectID uuid.UUID) ([]*TaskNode, error) {
	flat, err := s.ListTasks(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return BuildTaskTree(flat), nil
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	var t models.Task
	if err := s.tasks.GetByID(ctx, taskID, &t); err != nil {
		return nil, err
	}
	if _, err := requireProjectOwner(ctx, s.projects, t.ProjectID, userID); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTask appends the task to its sibling group: order_index becomes one
// past the group's maximum, or 0 for the first sibling.
func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, task *models.Task) error {
	if _, err := requireProjectOwner(ctx, s.projects, task.ProjectID, userID); err != nil {
		return err
	}
	if err := s.checkParent(ctx, task); err != nil {
		return err
	}
	siblings, err := s.tasks.ListSiblings(ctx, task.ProjectID, task.ParentID)
	if err != nil {
		return err
	}
	task.UserID = userID
	task.OrderIndex = NextOrderIndex(siblings)
	if err := s.tasks.Create(ctx, task); err != nil {
		return err
	}
	s.notify("tasks", realtime.ActionInsert, task.ProjectID, task)
	return nil
}

func (s *TaskService) UpdateTask(ctx context.Context, userID uuid.UUID, task *models.Task) error {
	current, err := s.GetTask(ctx, userID, task.ID)
	if err != nil {
		return err
	}
	if task.ProjectID != current.ProjectID {
		return appErr.New(appErr.CodeInvalid, "tasks cannot move between projects")
	}
	if err := s.checkParent(ctx, task); err != nil {
		return err
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return err
	}
	s.notify("tasks", realtime.ActionUpdate, task.ProjectID, task)
	return nil
}

// DeleteTask removes the task and its whole subtree, including subtasks and
// notes of every removed task.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return err
	}
	all, err := s.tasks.ListByProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	ids := subtreeIDs(all, taskID)
	if err := s.tasks.DeleteTree(ctx, ids); err != nil {
		return err
	}
	logger.L().Info("task subtree deleted",
		zap.String("project_id", task.ProjectID.String()),
		zap.String("task_id", taskID.String()),
		zap.Int("removed", len(ids)),
	)
	s.notify("tasks", realtime.ActionDelete, task.ProjectID, map[string]any{"ids": ids})
	return nil
}

// MoveTaskUp swaps the task with its predecessor within its sibling group and
// returns the re-fetched group.
func (s *TaskService) MoveTaskUp(ctx context.Context, userID, taskID uuid.UUID) ([]models.Task, error) {
	return s.moveTask(ctx, userID, taskID, MoveUp[models.Task])
}

// MoveTaskDown is the symmetric operation.
func (s *TaskService) MoveTaskDown(ctx context.Context, userID, taskID uuid.UUID) ([]models.Task, error) {
	return s.moveTask(ctx, userID, taskID, MoveDown[models.Task])
}

func (s *TaskService) moveTask(ctx context.Context, userID, taskID uuid.UUID, op func(context.Context, OrderWriter, []models.Task, int) error) ([]models.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	siblings, err := s.tasks.ListSiblings(ctx, task.ProjectID, task.ParentID)
	if err != nil {
		return nil, err
	}
	if err := op(ctx, s.tasks, siblings, positionOf(siblings, taskID)); err != nil {
		return nil, err
	}
	refreshed, err := s.tasks.ListSiblings(ctx, task.ProjectID, task.ParentID)
	if err != nil {
		return nil, err
	}
	s.notify("tasks", realtime.ActionUpdate, task.ProjectID, refreshed)
	return refreshed, nil
}

// checkParent enforces that parent_id, when set, references a task in the
// same project and not the task itself.
func (s *TaskService) checkParent(ctx context.Context, task *models.Task) error {
	if task.ParentID == nil {
		return nil
	}
	if *task.ParentID == task.ID {
		return appErr.New(appErr.CodeInvalid, "task cannot be its own parent")
	}
	var parent models.Task
	if err := s.tasks.GetByID(ctx, *task.ParentID, &parent); err != nil {
		return appErr.New(appErr.CodeInvalid, "parent task not found")
	}
	if parent.ProjectID != task.ProjectID {
		return appErr.New(appErr.CodeInvalid, "parent task belongs to another project")
	}
	return nil
}

// subtreeIDs collects rootID and every descendant reachable through parent_id
// links in the flat list.
func subtreeIDs(all []models.Task, rootID uuid.UUID) []uuid.UUID {
	children := map[uuid.UUID][]uuid.UUID{}
	for _, t := range all {
		if t.ParentID != nil {
			children[*t.ParentID] = append(children[*t.ParentID], t.ID)
		}
	}
	ids := []uuid.UUID{rootID}
	for i := 0; i < len(ids); i++ {
		ids = append(ids, children[ids[i]]...)
	}
	return ids
}

// --- subtasks ---

func (s *TaskService) ListSubtasks(ctx context.Context, userID, taskID uuid.UUID) ([]models.Subtask, error) {
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	var out []models.Subtask
	if err := s.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list subtasks failed")
	}
	return out, nil
}

func (s *TaskService) CreateSubtask(ctx context.Context, userID uuid.UUID, sub *models.Subtask) error {
	task, err := s.GetTask(ctx, userID, sub.TaskID)
	if err != nil {
		return err
	}
	sub.UserID = userID
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "create subtask failed")
	}
	s.notify("subtasks", realtime.ActionInsert, task.ProjectID, sub)
	return nil
}

func (s *TaskService) UpdateSubtask(ctx context.Context, userID uuid.UUID, sub *models.Subtask) error {
	var current models.Subtask
	if err := s.db.WithContext(ctx).First(&current, "id = ?", sub.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "subtask not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get subtask failed")
	}
	task, err := s.GetTask(ctx, userID, current.TaskID)
	if err != nil {
		return err
	}
	sub.TaskID = current.TaskID
	sub.UserID = current.UserID
	sub.CreatedAt = current.CreatedAt
	if err := s.db.WithContext(ctx).Save(sub).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "update subtask failed")
	}
	s.notify("subtasks", realtime.ActionUpdate, task.ProjectID, sub)
	return nil
}

func (s *TaskService) DeleteSubtask(ctx context.Context, userID, subtaskID uuid.UUID) error {
	var current models.Subtask
	if err := s.db.WithContext(ctx).First(&current, "id = ?", subtaskID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "subtask not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get subtask failed")
	}
	task, err := s.GetTask(ctx, userID, current.TaskID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Subtask{}, "id = ?", subtaskID).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "delete subtask failed")
	}
	s.notify("subtasks", realtime.ActionDelete, task.ProjectID, map[string]any{"id": subtaskID})
	return nil
}

// --- task notes ---

func (s *TaskService) ListTaskNotes(ctx context.Context, userID, taskID uuid.UUID) ([]models.TaskNote, error) {
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	var out []models.TaskNote
	if err := s.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list task notes failed")
	}
	return out, nil
}

func (s *TaskService) CreateTaskNote(ctx context.Context, userID uuid.UUID, note *models.TaskNote) error {
	task, err := s.GetTask(ctx, userID, note.TaskID)
	if err != nil {
		return err
	}
	note.UserID = userID
	if err := s.db.WithContext(ctx).Create(note).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "create task note failed")
	}
	s.notify("task_notes", realtime.ActionInsert, task.ProjectID, note)
	return nil
}

func (s *TaskService) DeleteTaskNote(ctx context.Context, userID, noteID uuid.UUID) error {
	var current models.TaskNote
	if err := s.db.WithContext(ctx).First(&current, "id = ?", noteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "task note not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get task note failed")
	}
	task, err := s.GetTask(ctx, userID, current.TaskID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.TaskNote{}, "id = ?", noteID).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "delete task note failed")
	}
	s.notify("task_notes", realtime.ActionDelete, task.ProjectID, map[string]any{"id": noteID})
	return nil
}
