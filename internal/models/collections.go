package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Schedule is a dated milestone row, manually reorderable.
type Schedule struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"project_id" validate:"required"`
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Title      string     `gorm:"not null" json:"title" validate:"required"`
	StartsAt   *time.Time `json:"starts_at,omitempty"`
	Location   string     `json:"location"`
	OrderIndex int        `gorm:"not null;default:0" json:"order_index"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s Schedule) GetID() uuid.UUID           { return s.ID }
func (s Schedule) GetProjectID() uuid.UUID    { return s.ProjectID }
func (s Schedule) GetOrderIndex() int         { return s.OrderIndex }
func (s *Schedule) SetOrderIndex(i int)       { s.OrderIndex = i }
func (s *Schedule) SetID(id uuid.UUID)        { s.ID = id }
func (s *Schedule) SetProjectID(id uuid.UUID) { s.ProjectID = id }

// ScheduleCell holds one editable cell of a schedule row, upserted on
// (schedule_id, field_key).
type ScheduleCell struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ScheduleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_cells_key" json:"schedule_id" validate:"required"`
	ProjectID  uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id"`
	FieldKey   string    `gorm:"not null;uniqueIndex:idx_schedule_cells_key" json:"field_key" validate:"required"`
	Value      string    `gorm:"type:text" json:"value"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *ScheduleCell) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Meeting records a project meeting, manually reorderable.
type Meeting struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"project_id" validate:"required"`
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Title      string     `gorm:"not null" json:"title" validate:"required"`
	HeldAt     *time.Time `json:"held_at,omitempty"`
	Minutes    string     `gorm:"type:text" json:"minutes"`
	OrderIndex int        `gorm:"not null;default:0" json:"order_index"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m Meeting) GetID() uuid.UUID           { return m.ID }
func (m Meeting) GetProjectID() uuid.UUID    { return m.ProjectID }
func (m Meeting) GetOrderIndex() int         { return m.OrderIndex }
func (m *Meeting) SetOrderIndex(i int)       { m.OrderIndex = i }
func (m *Meeting) SetID(id uuid.UUID)        { m.ID = id }
func (m *Meeting) SetProjectID(id uuid.UUID) { m.ProjectID = id }

// Return is a backer reward tier, manually reorderable.
type Return struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id" validate:"required"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Title       string    `gorm:"not null" json:"title" validate:"required"`
	Amount      int       `gorm:"not null;default:0" json:"amount" validate:"gte=0"`
	Description string    `gorm:"type:text" json:"description"`
	OrderIndex  int       `gorm:"not null;default:0" json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *Return) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r Return) GetID() uuid.UUID           { return r.ID }
func (r Return) GetProjectID() uuid.UUID    { return r.ProjectID }
func (r Return) GetOrderIndex() int         { return r.OrderIndex }
func (r *Return) SetOrderIndex(i int)       { r.OrderIndex = i }
func (r *Return) SetID(id uuid.UUID)        { r.ID = id }
func (r *Return) SetProjectID(id uuid.UUID) { r.ProjectID = id }

// DesignRequirement captures a design deliverable, manually reorderable.
type DesignRequirement struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id" validate:"required"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Title      string    `gorm:"not null" json:"title" validate:"required"`
	Details    string    `gorm:"type:text" json:"details"`
	OrderIndex int       `gorm:"not null;default:0" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (d *DesignRequirement) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (d DesignRequirement) GetID() uuid.UUID           { return d.ID }
func (d DesignRequirement) GetProjectID() uuid.UUID    { return d.ProjectID }
func (d DesignRequirement) GetOrderIndex() int         { return d.OrderIndex }
func (d *DesignRequirement) SetOrderIndex(i int)       { d.OrderIndex = i }
func (d *DesignRequirement) SetID(id uuid.UUID)        { d.ID = id }
func (d *DesignRequirement) SetProjectID(id uuid.UUID) { d.ProjectID = id }

// ImageAsset references a campaign image, manually reorderable.
type ImageAsset struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id" validate:"required"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Title      string    `json:"title"`
	URL        string    `gorm:"not null" json:"url" validate:"required,url"`
	Caption    string    `json:"caption"`
	OrderIndex int       `gorm:"not null;default:0" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a *ImageAsset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a ImageAsset) GetID() uuid.UUID           { return a.ID }
func (a ImageAsset) GetProjectID() uuid.UUID    { return a.ProjectID }
func (a ImageAsset) GetOrderIndex() int         { return a.OrderIndex }
func (a *ImageAsset) SetOrderIndex(i int)       { a.OrderIndex = i }
func (a *ImageAsset) SetID(id uuid.UUID)        { a.ID = id }
func (a *ImageAsset) SetProjectID(id uuid.UUID) { a.ProjectID = id }

// Document links an external document. Display order follows creation time.
type Document struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id" validate:"required"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Title     string    `gorm:"not null" json:"title" validate:"required"`
	URL       string    `gorm:"not null" json:"url" validate:"required,url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (d Document) GetID() uuid.UUID           { return d.ID }
func (d Document) GetProjectID() uuid.UUID    { return d.ProjectID }
func (d *Document) SetID(id uuid.UUID)        { d.ID = id }
func (d *Document) SetProjectID(id uuid.UUID) { d.ProjectID = id }

// TextRequirement holds campaign page copy. Display order follows creation time.
type TextRequirement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id" validate:"required"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Heading   string    `gorm:"not null" json:"heading" validate:"required"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *TextRequirement) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t TextRequirement) GetID() uuid.UUID           { return t.ID }
func (t TextRequirement) GetProjectID() uuid.UUID    { return t.ProjectID }
func (t *TextRequirement) SetID(id uuid.UUID)        { t.ID = id }
func (t *TextRequirement) SetProjectID(id uuid.UUID) { t.ProjectID = id }

// VideoRequirement references promo video material. Display order follows creation time.
type VideoRequirement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id" validate:"required"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Title     string    `gorm:"not null" json:"title" validate:"required"`
	URL       string    `json:"url"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *VideoRequirement) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (v VideoRequirement) GetID() uuid.UUID           { return v.ID }
func (v VideoRequirement) GetProjectID() uuid.UUID    { return v.ProjectID }
func (v *VideoRequirement) SetID(id uuid.UUID)        { v.ID = id }
func (v *VideoRequirement) SetProjectID(id uuid.UUID) { v.ProjectID = id }

// ProjectNote is a free-form note on a project. Display order follows creation time.
type ProjectNote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id" validate:"required"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *ProjectNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (n ProjectNote) GetID() uuid.UUID           { return n.ID }
func (n ProjectNote) GetProjectID() uuid.UUID    { return n.ProjectID }
func (n *ProjectNote) SetID(id uuid.UUID)        { n.ID = id }
func (n *ProjectNote) SetProjectID(id uuid.UUID) { n.ProjectID = id }
