package services

import (
	"context"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/internal/realtime"
	"github.com/fundcraft/backstage/internal/repository"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type rowPtr[T any] interface{ *T }

// RecordService is the owner-checked CRUD service for collections without an
// order_index (documents, text/video requirements, project notes); their
// display order follows creation time.
type RecordService[T models.ProjectScoped, PT rowPtr[T]] struct {
	table    string
	db       *gorm.DB
	repo     repository.BaseRepository[T]
	projects repository.ProjectRepository
	hub      *realtime.Hub
}

func NewRecordService[T models.ProjectScoped, PT rowPtr[T]](table string, db *gorm.DB, projects repository.ProjectRepository, hub *realtime.Hub) *RecordService[T, PT] {
	return &RecordService[T, PT]{
		table:    table,
		db:       db,
		repo:     repository.NewBaseRepository[T](db),
		projects: projects,
		hub:      hub,
	}
}

func (s *RecordService[T, PT]) notify(action realtime.Action, projectID uuid.UUID, payload any) {
	if s.hub != nil {
		s.hub.Publish(realtime.Event{Table: s.table, Action: action, ProjectID: projectID, Payload: payload})
	}
}

func (s *RecordService[T, PT]) List(ctx context.Context, userID, projectID uuid.UUID) ([]T, error) {
	if _, err := requireProjectOwner(ctx, s.projects, projectID, userID); err != nil {
		return nil, err
	}
	return repository.ListProjectScoped[T](ctx, s.db, projectID)
}

func (s *RecordService[T, PT]) Get(ctx context.Context, userID, id uuid.UUID) (*T, error) {
	var row T
	if err := s.repo.GetByID(ctx, id, &row); err != nil {
		return nil, err
	}
	if _, err := requireProjectOwner(ctx, s.projects, row.GetProjectID(), userID); err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *RecordService[T, PT]) Create(ctx context.Context, userID uuid.UUID, row PT) error {
	// The ProjectScoped getters are in T's method set, not *T's, so the row is
	// dereferenced before they are called.
	projectID := (*(*T)(row)).GetProjectID()
	if _, err := requireProjectOwner(ctx, s.projects, projectID, userID); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, (*T)(row)); err != nil {
		return err
	}
	s.notify(realtime.ActionInsert, projectID, row)
	return nil
}

func (s *RecordService[T, PT]) Update(ctx context.Context, userID uuid.UUID, row PT) error {
	incoming := *(*T)(row)
	var current T
	if err := s.repo.GetByID(ctx, incoming.GetID(), &current); err != nil {
		return err
	}
	if _, err := requireProjectOwner(ctx, s.projects, current.GetProjectID(), userID); err != nil {
		return err
	}
	if incoming.GetProjectID() != current.GetProjectID() {
		return appErr.New(appErr.CodeInvalid, "rows cannot move between projects")
	}
	if err := s.repo.Update(ctx, (*T)(row)); err != nil {
		return err
	}
	s.notify(realtime.ActionUpdate, current.GetProjectID(), row)
	return nil
}

func (s *RecordService[T, PT]) Delete(ctx context.Context, userID, id uuid.UUID) error {
	var current T
	if err := s.repo.GetByID(ctx, id, &current); err != nil {
		return err
	}
	if _, err := requireProjectOwner(ctx, s.projects, current.GetProjectID(), userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(realtime.ActionDelete, current.GetProjectID(), map[string]any{"id": id})
	return nil
}
