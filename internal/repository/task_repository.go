package repository

import (
	"context"

	"github.com/fundcraft/backstage/internal/models"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository interface {
	OrderableRepository[models.Task]
	// ListSiblings returns the sibling group of one parent (nil for roots),
	// sorted the same way as ListByProject.
	ListSiblings(ctx context.Context, projectID uuid.UUID, parentID *uuid.UUID) ([]models.Task, error)
	DeleteTree(ctx context.Context, taskIDs []uuid.UUID) error
}

type taskRepository struct {
	OrderableRepository[models.Task]
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{OrderableRepository: NewOrderableRepository[models.Task](db), db: db}
}

func (r *taskRepository) ListSiblings(ctx context.Context, projectID uuid.UUID, parentID *uuid.UUID) ([]models.Task, error) {
	q := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	var out []models.Task
	if err := q.Order("order_index ASC, created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list sibling tasks failed")
	}
	return out, nil
}

// DeleteTree removes the given tasks together with their subtasks and notes in
// one transaction, so a task delete never leaves dangling child rows.
func (r *taskRepository) DeleteTree(ctx context.Context, taskIDs []uuid.UUID) error {
	if len(taskIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskNote{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", taskIDs).Delete(&models.Task{}).Error
	})
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "delete task tree failed")
	}
	return nil
}
