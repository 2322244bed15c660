package services

import (
	"context"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/internal/repository"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/google/uuid"
)

// requireProjectOwner loads the project and verifies it belongs to userID.
// Access control is owner-scoped; the read-only shared path bypasses this by
// resolving through the share token instead.
func requireProjectOwner(ctx context.Context, projects repository.ProjectRepository, projectID, userID uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := projects.GetByID(ctx, projectID, &p); err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, appErr.New(appErr.CodeForbidden, "user does not own project")
	}
	return &p, nil
}
