package repository

import (
	"context"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// Company defines the interface for company persistence
type Company interface {
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	// GetByProject resolves the tenant company for a project. Returns
	// domain.ErrCompanyNotFound when the project has no company.
	GetByProject(ctx context.Context, projectID string) (*domain.Company, error)
	Update(ctx context.Context, company domain.Company) error
}
