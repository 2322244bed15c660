package repository

import (
	"context"

	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderableRepository extends BaseRepository for rows positioned by an
// order_index column. Listing orders by order_index ascending with created_at
// and id as tie-breakers so rows with colliding indices (legacy data, or the
// window between the two writes of a swap) still display in a stable order.
type OrderableRepository[T any] interface {
	BaseRepository[T]
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]T, error)
	UpdateOrderIndex(ctx context.Context, id uuid.UUID, index int) error
}

type orderableRepository[T any] struct {
	BaseRepository[T]
	db *gorm.DB
}

func NewOrderableRepository[T any](db *gorm.DB) OrderableRepository[T] {
	return &orderableRepository[T]{BaseRepository: NewBaseRepository[T](db), db: db}
}

func (r *orderableRepository[T]) ListByProject(ctx context.Context, projectID uuid.UUID) ([]T, error) {
	var out []T
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("order_index ASC, created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list by project failed")
	}
	return out, nil
}

func (r *orderableRepository[T]) UpdateOrderIndex(ctx context.Context, id uuid.UUID, index int) error {
	var t T
	res := r.db.WithContext(ctx).Model(&t).Where("id = ?", id).Update("order_index", index)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update order index failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "entity not found")
	}
	return nil
}

// ListProjectScoped lists rows of any project-owned table ordered by creation
// time, for collections whose display order is insertion order.
func ListProjectScoped[T any](ctx context.Context, db *gorm.DB, projectID uuid.UUID) ([]T, error) {
	var out []T
	err := db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list by project failed")
	}
	return out, nil
}
