package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task statuses.
const (
	TaskStatusNotStarted = "not_started"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task is a unit of campaign work. Tasks form a forest per project: a task
// with a nil parent_id is a root; parent_id, when set, must reference a task
// in the same project. order_index positions a task within its sibling group.
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"project_id" validate:"required"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Title       string     `gorm:"not null" json:"title" validate:"required"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"type:varchar(32);not null;default:not_started" json:"status" validate:"required,oneof=not_started in_progress done"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	OrderIndex  int        `gorm:"not null;default:0" json:"order_index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t Task) GetID() uuid.UUID        { return t.ID }
func (t Task) GetProjectID() uuid.UUID { return t.ProjectID }
func (t Task) GetOrderIndex() int      { return t.OrderIndex }
func (t *Task) SetOrderIndex(i int)    { t.OrderIndex = i }

// Subtask is a flat checklist item under a task.
type Subtask struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;index;not null" json:"task_id" validate:"required"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Title     string    `gorm:"not null" json:"title" validate:"required"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subtask) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TaskNote is a free-form note attached to a task.
type TaskNote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;index;not null" json:"task_id" validate:"required"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *TaskNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
