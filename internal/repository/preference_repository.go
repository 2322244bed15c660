package repository

import (
	"context"

	"github.com/fundcraft/backstage/internal/models"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepository interface {
	Upsert(ctx context.Context, pref *models.SectionPreference) error
	ListForSubject(ctx context.Context, projectID uuid.UUID, subjectID string) ([]models.SectionPreference, error)
}

type preferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Upsert(ctx context.Context, pref *models.SectionPreference) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "section"}, {Name: "subject_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"expanded", "updated_at"}),
	}).Create(pref).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "upsert preference failed")
	}
	return nil
}

func (r *preferenceRepository) ListForSubject(ctx context.Context, projectID uuid.UUID, subjectID string) ([]models.SectionPreference, error) {
	var out []models.SectionPreference
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND subject_id = ?", projectID, subjectID).
		Order("section ASC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list preferences failed")
	}
	return out, nil
}

type ScheduleCellRepository interface {
	Upsert(ctx context.Context, cell *models.ScheduleCell) error
	ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]models.ScheduleCell, error)
}

type scheduleCellRepository struct {
	db *gorm.DB
}

func NewScheduleCellRepository(db *gorm.DB) ScheduleCellRepository {
	return &scheduleCellRepository{db: db}
}

func (r *scheduleCellRepository) Upsert(ctx context.Context, cell *models.ScheduleCell) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "schedule_id"}, {Name: "field_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(cell).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "upsert schedule cell failed")
	}
	return nil
}

func (r *scheduleCellRepository) ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]models.ScheduleCell, error) {
	var out []models.ScheduleCell
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("field_key ASC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list schedule cells failed")
	}
	return out, nil
}
