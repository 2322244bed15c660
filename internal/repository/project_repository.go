package repository

import (
	"context"

	"github.com/fundcraft/backstage/internal/models"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	BaseRepository[models.Project]
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error)
	GetByShareToken(ctx context.Context, token string, dest *models.Project) error
	SetSharing(ctx context.Context, projectID uuid.UUID, fields map[string]any) error
	SetCopyState(ctx context.Context, projectID uuid.UUID, status string, report []byte) error
}

type projectRepository struct {
	BaseRepository[models.Project]
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{BaseRepository: NewBaseRepository[models.Project](db), db: db}
}

func (r *projectRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	var out []models.Project
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list projects by user failed")
	}
	return out, nil
}

// GetByShareToken resolves a project by its opaque share token. Only projects
// with sharing enabled are visible through this path.
func (r *projectRepository) GetByShareToken(ctx context.Context, token string, dest *models.Project) error {
	err := r.db.WithContext(ctx).
		Where("share_token = ? AND is_shared = true", token).
		First(dest).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "shared project not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get project by share token failed")
	}
	return nil
}

func (r *projectRepository) SetSharing(ctx context.Context, projectID uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Updates(fields)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update sharing failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "project not found")
	}
	return nil
}

func (r *projectRepository) SetCopyState(ctx context.Context, projectID uuid.UUID, status string, report []byte) error {
	fields := map[string]any{"copy_status": status}
	if report != nil {
		fields["copy_report"] = report
	}
	res := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Updates(fields)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update copy state failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "project not found")
	}
	return nil
}
