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

// seqSetter constrains the pointer form of an orderable model.
type seqSetter[T any] interface {
	*T
	SetOrderIndex(int)
}

// CollectionService is the owner-checked CRUD-and-reorder service shared by
// every manually reorderable collection (schedules, meetings, returns, design
// requirements, image assets). The sibling group for these collections is the
// whole project.
type CollectionService[T models.Sequenced, PT seqSetter[T]] struct {
	table    string
	repo     repository.OrderableRepository[T]
	projects repository.ProjectRepository
	hub      *realtime.Hub
}

func NewCollectionService[T models.Sequenced, PT seqSetter[T]](table string, db *gorm.DB, projects repository.ProjectRepository, hub *realtime.Hub) *CollectionService[T, PT] {
	return &CollectionService[T, PT]{
		table:    table,
		repo:     repository.NewOrderableRepository[T](db),
		projects: projects,
		hub:      hub,
	}
}

func (s *CollectionService[T, PT]) notify(action realtime.Action, projectID uuid.UUID, payload any) {
	if s.hub != nil {
		s.hub.Publish(realtime.Event{Table: s.table, Action: action, ProjectID: projectID, Payload: payload})
	}
}

func (s *CollectionService[T, PT]) List(ctx context.Context, userID, projectID uuid.UUID) ([]T, error) {
	if _, err := requireProjectOwner(ctx, s.projects, projectID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

func (s *CollectionService[T, PT]) Get(ctx context.Context, userID, id uuid.UUID) (*T, error) {
	var row T
	if err := s.repo.GetByID(ctx, id, &row); err != nil {
		return nil, err
	}
	if _, err := requireProjectOwner(ctx, s.projects, row.GetProjectID(), userID); err != nil {
		return nil, err
	}
	return &row, nil
}

// Create appends the row to its project's sibling group: order_index becomes
// one past the current maximum, or 0 for the first row.
func (s *CollectionService[T, PT]) Create(ctx context.Context, userID uuid.UUID, row PT) error {
	// Methods of the Sequenced constraint live on T, not on *T, so the row is
	// dereferenced before the getters are called.
	projectID := (*(*T)(row)).GetProjectID()
	if _, err := requireProjectOwner(ctx, s.projects, projectID, userID); err != nil {
		return err
	}
	siblings, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	row.SetOrderIndex(NextOrderIndex(siblings))
	if err := s.repo.Create(ctx, (*T)(row)); err != nil {
		return err
	}
	s.notify(realtime.ActionInsert, projectID, row)
	return nil
}

func (s *CollectionService[T, PT]) Update(ctx context.Context, userID uuid.UUID, row PT) error {
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

func (s *CollectionService[T, PT]) Delete(ctx context.Context, userID, id uuid.UUID) error {
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

// MoveUp swaps the row with its predecessor and returns the re-fetched list,
// which is the caller's consistency recovery after the unsynchronized swap.
func (s *CollectionService[T, PT]) MoveUp(ctx context.Context, userID, id uuid.UUID) ([]T, error) {
	return s.move(ctx, userID, id, MoveUp[T])
}

// MoveDown is the symmetric operation.
func (s *CollectionService[T, PT]) MoveDown(ctx context.Context, userID, id uuid.UUID) ([]T, error) {
	return s.move(ctx, userID, id, MoveDown[T])
}

func (s *CollectionService[T, PT]) move(ctx context.Context, userID, id uuid.UUID, op func(context.Context, OrderWriter, []T, int) error) ([]T, error) {
	var row T
	if err := s.repo.GetByID(ctx, id, &row); err != nil {
		return nil, err
	}
	projectID := row.GetProjectID()
	if _, err := requireProjectOwner(ctx, s.projects, projectID, userID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := op(ctx, s.repo, items, positionOf(items, id)); err != nil {
		return nil, err
	}
	refreshed, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.notify(realtime.ActionUpdate, projectID, refreshed)
	return refreshed, nil
}
