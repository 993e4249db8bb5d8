package repository

import (
	"context"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// Manager defines the interface for building manager persistence.
// Managers are a shared pool, not tenant-partitioned.
type Manager interface {
	List(ctx context.Context) ([]domain.BuildingManager, error)
	GetByID(ctx context.Context, id int64) (*domain.BuildingManager, error)
	Create(ctx context.Context, manager *domain.BuildingManager) error
	Update(ctx context.Context, manager domain.BuildingManager) error
	Delete(ctx context.Context, id int64) error
}
