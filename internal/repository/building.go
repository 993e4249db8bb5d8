package repository

import (
	"context"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// Building defines the interface for building persistence
type Building interface {
	ListByCompany(ctx context.Context, companyID int64) ([]domain.Building, error)
	GetByID(ctx context.Context, id int64) (*domain.Building, error)
	// GetInCompany returns the building only when it belongs to the company,
	// domain.ErrBuildingNotFound otherwise.
	GetInCompany(ctx context.Context, id, companyID int64) (*domain.Building, error)
	Create(ctx context.Context, building *domain.Building) error
	Update(ctx context.Context, building domain.Building) error
	Delete(ctx context.Context, id int64) error
}
