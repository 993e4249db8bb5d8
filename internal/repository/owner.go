package repository

import (
	"context"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// Owner defines the interface for building owner persistence
type Owner interface {
	ListByCompany(ctx context.Context, companyID int64) ([]domain.BuildingOwner, error)
	GetByID(ctx context.Context, id int64) (*domain.BuildingOwner, error)
	Create(ctx context.Context, owner *domain.BuildingOwner) error
	Update(ctx context.Context, owner domain.BuildingOwner) error
	Delete(ctx context.Context, id int64) error
}
