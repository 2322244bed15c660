package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project statuses. "picks" is the curated-selection stage used by one of the
// brand lines.
const (
	ProjectStatusInProgress = "in_progress"
	ProjectStatusOnHold     = "on_hold"
	ProjectStatusDone       = "done"
	ProjectStatusPicks      = "picks"
)

// Brand lines a campaign can belong to.
const (
	BrandA = "brand_a"
	BrandB = "brand_b"
)

// Copy statuses tracked on a project created through duplication.
const (
	CopyStatusCopying  = "copying"
	CopyStatusComplete = "complete"
	CopyStatusPartial  = "partial"
)

// Project represents a crowdfunding campaign workspace owned by a user. All
// dependent rows reference it by project_id.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id" validate:"required"`
	Name        string    `gorm:"not null" json:"name" validate:"required"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"type:varchar(32);not null;default:in_progress" json:"status" validate:"required,oneof=in_progress on_hold done picks"`
	BrandType   string    `gorm:"type:varchar(32);not null;index" json:"brand_type" validate:"required,oneof=brand_a brand_b"`

	// Read-only sharing. The token is opaque; when is_shared is set the
	// project can be fetched by token without authentication.
	IsShared   bool       `gorm:"not null;default:false" json:"is_shared"`
	ShareToken *string    `gorm:"uniqueIndex" json:"share_token,omitempty"`
	SharedAt   *time.Time `json:"shared_at,omitempty"`

	// Duplication bookkeeping, written by the replication worker.
	CopyStatus string         `gorm:"type:varchar(16);not null;default:''" json:"copy_status,omitempty"`
	CopyReport datatypes.JSON `gorm:"type:jsonb" json:"copy_report,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
