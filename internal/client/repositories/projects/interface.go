package projects

import (
	"context"

	"github.com/dmitrijs2005/projecthub/internal/client/models"
)

// Repository describes storage operations for projects.
type Repository interface {
	// Upsert inserts a project or replaces the stored one with the same ID.
	Upsert(ctx context.Context, p *models.Project) error

	// GetAll returns every project in creation order.
	GetAll(ctx context.Context) ([]models.Project, error)

	// GetByID returns common.ErrorNotFound when no project has the id.
	GetByID(ctx context.Context, id string) (*models.Project, error)

	// DeleteByID returns common.ErrorNotFound when no project has the id.
	DeleteByID(ctx context.Context, id string) error
}
