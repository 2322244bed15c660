package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SectionPreference stores the expand/collapse state of one UI section for one
// subject. The subject id is the authenticated user id, or the per-session id
// resolved by the session middleware for anonymous viewers. Upserted on
// (project_id, section, subject_id).
type SectionPreference struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_section_prefs_key" json:"project_id" validate:"required"`
	Section   string    `gorm:"not null;uniqueIndex:idx_section_prefs_key" json:"section" validate:"required"`
	SubjectID string    `gorm:"not null;uniqueIndex:idx_section_prefs_key" json:"subject_id" validate:"required"`
	// No column default: gorm skips zero-valued fields that carry one, which
	// would turn a stored "collapsed" into "expanded" on insert.
	Expanded  bool      `gorm:"not null" json:"expanded"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *SectionPreference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
