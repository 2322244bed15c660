package repository

import (
	"context"
	"errors"

	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseRepository is the CRUD core embedded by every row repository. All rows
// in this schema are keyed by uuid, so lookups take typed ids rather than
// opaque values.
type BaseRepository[T any] interface {
	Create(ctx context.Context, row *T) error
	GetByID(ctx context.Context, id uuid.UUID, dest *T) error
	Update(ctx context.Context, row *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type baseRepository[T any] struct {
	db *gorm.DB
}

func NewBaseRepository[T any](db *gorm.DB) BaseRepository[T] {
	return &baseRepository[T]{db: db}
}

func (r *baseRepository[T]) Create(ctx context.Context, row *T) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "insert row failed")
	}
	return nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id uuid.UUID, dest *T) error {
	err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return appErr.New(appErr.CodeNotFound, "row not found")
	}
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "load row failed")
	}
	return nil
}

// Update saves the full row; callers fetch the stored row first so omitted
// fields are not zeroed.
func (r *baseRepository[T]) Update(ctx context.Context, row *T) error {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "save row failed")
	}
	return nil
}

func (r *baseRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var t T
	res := r.db.WithContext(ctx).Delete(&t, "id = ?", id)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "delete row failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "row not found")
	}
	return nil
}
