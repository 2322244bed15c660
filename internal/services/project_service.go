package services

import (
	"context"
	"time"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/internal/realtime"
	"github.com/fundcraft/backstage/internal/repository"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/fundcraft/backstage/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReplicationEnqueuer hands a duplication job to the background worker.
type ReplicationEnqueuer interface {
	EnqueueReplication(ctx context.Context, sourceID, destID, ownerID uuid.UUID) error
}

// CreateProjectInput carries the fields a user supplies for a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	Status      string
	BrandType   string
}

// UpdateProjectInput carries optional field updates.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *string
	BrandType   *string
}

// SharedProjectView is the read-only bundle served for a share token.
type SharedProjectView struct {
	Project            models.Project             `json:"project"`
	Tasks              []*TaskNode                `json:"tasks"`
	Schedules          []models.Schedule          `json:"schedules"`
	Meetings           []models.Meeting           `json:"meetings"`
	Returns            []models.Return            `json:"returns"`
	DesignRequirements []models.DesignRequirement `json:"design_requirements"`
	ImageAssets        []models.ImageAsset        `json:"image_assets"`
	Documents          []models.Document          `json:"documents"`
	TextRequirements   []models.TextRequirement   `json:"text_requirements"`
	VideoRequirements  []models.VideoRequirement  `json:"video_requirements"`
	Notes              []models.ProjectNote       `json:"notes"`
}

// ProjectService manages campaign projects, their sharing state, and the
// entry point for duplication.
type ProjectService struct {
	db       *gorm.DB
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	enqueue  ReplicationEnqueuer
	hub      *realtime.Hub
}

func NewProjectService(db *gorm.DB, projects repository.ProjectRepository, tasks repository.TaskRepository, enqueue ReplicationEnqueuer, hub *realtime.Hub) *ProjectService {
	return &ProjectService{db: db, projects: projects, tasks: tasks, enqueue: enqueue, hub: hub}
}

func (s *ProjectService) notify(action realtime.Action, projectID uuid.UUID, payload any) {
	if s.hub != nil {
		s.hub.Publish(realtime.Event{Table: "projects", Action: action, ProjectID: projectID, Payload: payload})
	}
}

func (s *ProjectService) List(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	return s.projects.ListByUser(ctx, userID)
}

func (s *ProjectService) Get(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error) {
	return requireProjectOwner(ctx, s.projects, projectID, userID)
}

func (s *ProjectService) Create(ctx context.Context, userID uuid.UUID, input *CreateProjectInput) (*models.Project, error) {
	logger.L().Info("create project", zap.String("user_id", userID.String()), zap.String("name", input.Name))
	status := input.Status
	if status == "" {
		status = models.ProjectStatusInProgress
	}
	p := &models.Project{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
		BrandType:   input.BrandType,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	s.notify(realtime.ActionInsert, p.ID, p)
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, projectID, userID uuid.UUID, input *UpdateProjectInput) (*models.Project, error) {
	p, err := requireProjectOwner(ctx, s.projects, projectID, userID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Status != nil {
		p.Status = *input.Status
	}
	if input.BrandType != nil {
		p.BrandType = *input.BrandType
	}
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	s.notify(realtime.ActionUpdate, p.ID, p)
	return p, nil
}

// Delete removes the project and every dependent row in one transaction.
func (s *ProjectService) Delete(ctx context.Context, projectID, userID uuid.UUID) error {
	if _, err := requireProjectOwner(ctx, s.projects, projectID, userID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uuid.UUID
		if err := tx.Model(&models.Task{}).Where("project_id = ?", projectID).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Subtask{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskNote{}).Error; err != nil {
				return err
			}
		}
		for _, m := range []any{
			&models.Task{}, &models.ProjectNote{}, &models.Schedule{}, &models.ScheduleCell{},
			&models.Document{}, &models.Meeting{}, &models.Return{}, &models.DesignRequirement{},
			&models.TextRequirement{}, &models.VideoRequirement{}, &models.ImageAsset{},
			&models.SectionPreference{},
		} {
			if err := tx.Where("project_id = ?", projectID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Project{}, "id = ?", projectID).Error
	})
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "delete project failed")
	}
	s.notify(realtime.ActionDelete, projectID, map[string]any{"id": projectID})
	return nil
}

// Share enables the read-only link, minting a token on first use.
func (s *ProjectService) Share(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error) {
	p, err := requireProjectOwner(ctx, s.projects, projectID, userID)
	if err != nil {
		return nil, err
	}
	token := p.ShareToken
	if token == nil {
		t := uuid.NewString()
		token = &t
	}
	now := time.Now().UTC()
	fields := map[string]any{"is_shared": true, "share_token": *token, "shared_at": now}
	if err := s.projects.SetSharing(ctx, projectID, fields); err != nil {
		return nil, err
	}
	p.IsShared = true
	p.ShareToken = token
	p.SharedAt = &now
	s.notify(realtime.ActionUpdate, p.ID, p)
	return p, nil
}

// Unshare disables the link. The token is kept so re-sharing yields a stable URL.
func (s *ProjectService) Unshare(ctx context.Context, projectID, userID uuid.UUID) error {
	if _, err := requireProjectOwner(ctx, s.projects, projectID, userID); err != nil {
		return err
	}
	if err := s.projects.SetSharing(ctx, projectID, map[string]any{"is_shared": false}); err != nil {
		return err
	}
	s.notify(realtime.ActionUpdate, projectID, map[string]any{"is_shared": false})
	return nil
}

// SharedView resolves a share token into the read-only project bundle. The
// handler decides what controls to render; nothing here mutates.
func (s *ProjectService) SharedView(ctx context.Context, token string) (*SharedProjectView, error) {
	var p models.Project
	if err := s.projects.GetByShareToken(ctx, token, &p); err != nil {
		return nil, err
	}
	flat, err := s.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	view := &SharedProjectView{Project: p, Tasks: BuildTaskTree(flat)}

	var listErr error
	collect := func(dest any, ordered bool) {
		if listErr != nil {
			return
		}
		q := s.db.WithContext(ctx).Where("project_id = ?", p.ID)
		if ordered {
			q = q.Order("order_index ASC, created_at ASC, id ASC")
		} else {
			q = q.Order("created_at ASC, id ASC")
		}
		listErr = q.Find(dest).Error
	}
	collect(&view.Schedules, true)
	collect(&view.Meetings, true)
	collect(&view.Returns, true)
	collect(&view.DesignRequirements, true)
	collect(&view.ImageAssets, true)
	collect(&view.Documents, false)
	collect(&view.TextRequirements, false)
	collect(&view.VideoRequirements, false)
	collect(&view.Notes, false)
	if listErr != nil {
		return nil, appErr.Wrap(listErr, appErr.CodeInternal, "load shared view failed")
	}
	return view, nil
}

// BeginDuplicate creates the destination project ("<name> copy") and hands the
// collection copying to the worker. The destination row is never rolled back:
// if copying fails partway the project stays with a partial report.
func (s *ProjectService) BeginDuplicate(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error) {
	src, err := requireProjectOwner(ctx, s.projects, projectID, userID)
	if err != nil {
		return nil, err
	}
	dest := &models.Project{
		UserID:      userID,
		Name:        src.Name + " copy",
		Description: src.Description,
		Status:      src.Status,
		BrandType:   src.BrandType,
		CopyStatus:  models.CopyStatusCopying,
	}
	if err := s.projects.Create(ctx, dest); err != nil {
		return nil, err
	}
	if s.enqueue == nil {
		return nil, appErr.New(appErr.CodeUnavailable, "replication queue not configured")
	}
	if err := s.enqueue.EnqueueReplication(ctx, src.ID, dest.ID, userID); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "enqueue replication failed")
	}
	logger.L().Info("project duplication enqueued",
		zap.String("source_id", src.ID.String()),
		zap.String("dest_id", dest.ID.String()),
	)
	s.notify(realtime.ActionInsert, dest.ID, dest)
	return dest, nil
}
