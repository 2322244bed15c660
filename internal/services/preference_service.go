package services

import (
	"context"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/internal/repository"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/google/uuid"
)

// PreferenceService stores per-subject UI expand/collapse state. The subject
// id is resolved once per request by the session middleware and passed in
// explicitly; there is no ambient current-session state.
type PreferenceService struct {
	prefs repository.PreferenceRepository
}

func NewPreferenceService(prefs repository.PreferenceRepository) *PreferenceService {
	return &PreferenceService{prefs: prefs}
}

func (s *PreferenceService) Set(ctx context.Context, projectID uuid.UUID, section, subjectID string, expanded bool) (*models.SectionPreference, error) {
	if subjectID == "" {
		return nil, appErr.New(appErr.CodeInvalid, "missing subject id")
	}
	pref := &models.SectionPreference{
		ProjectID: projectID,
		Section:   section,
		SubjectID: subjectID,
		Expanded:  expanded,
	}
	if err := s.prefs.Upsert(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

func (s *PreferenceService) List(ctx context.Context, projectID uuid.UUID, subjectID string) ([]models.SectionPreference, error) {
	if subjectID == "" {
		return nil, appErr.New(appErr.CodeInvalid, "missing subject id")
	}
	return s.prefs.ListForSubject(ctx, projectID, subjectID)
}

// ScheduleCellService upserts cell-level schedule data.
type ScheduleCellService struct {
	cells     repository.ScheduleCellRepository
	schedules repository.OrderableRepository[models.Schedule]
	projects  repository.ProjectRepository
}

func NewScheduleCellService(cells repository.ScheduleCellRepository, schedules repository.OrderableRepository[models.Schedule], projects repository.ProjectRepository) *ScheduleCellService {
	return &ScheduleCellService{cells: cells, schedules: schedules, projects: projects}
}

func (s *ScheduleCellService) Set(ctx context.Context, userID, scheduleID uuid.UUID, fieldKey, value string) (*models.ScheduleCell, error) {
	var sched models.Schedule
	if err := s.schedules.GetByID(ctx, scheduleID, &sched); err != nil {
		return nil, err
	}
	if _, err := requireProjectOwner(ctx, s.projects, sched.ProjectID, userID); err != nil {
		return nil, err
	}
	cell := &models.ScheduleCell{
		ScheduleID: scheduleID,
		ProjectID:  sched.ProjectID,
		FieldKey:   fieldKey,
		Value:      value,
	}
	if err := s.cells.Upsert(ctx, cell); err != nil {
		return nil, err
	}
	return cell, nil
}

func (s *ScheduleCellService) List(ctx context.Context, userID, scheduleID uuid.UUID) ([]models.ScheduleCell, error) {
	var sched models.Schedule
	if err := s.schedules.GetByID(ctx, scheduleID, &sched); err != nil {
		return nil, err
	}
	if _, err := requireProjectOwner(ctx, s.projects, sched.ProjectID, userID); err != nil {
		return nil, err
	}
	return s.cells.ListBySchedule(ctx, scheduleID)
}
