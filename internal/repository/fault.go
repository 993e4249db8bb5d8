package repository

import (
	"context"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// Fault defines the interface for the fault catalog and the
// fault-applicability association (possible faults per building).
type Fault interface {
	List(ctx context.Context) ([]domain.Fault, error)
	GetByID(ctx context.Context, id int64) (*domain.Fault, error)
	Create(ctx context.Context, fault *domain.Fault) error
	Update(ctx context.Context, fault domain.Fault) error
	Delete(ctx context.Context, id int64) error

	ListPossibleByBuilding(ctx context.Context, buildingID int64) ([]domain.PossibleFault, error)
	ListPossibleByCompany(ctx context.Context, companyID int64) ([]domain.PossibleFault, error)
	AddPossible(ctx context.Context, possible *domain.PossibleFault) error
	RemovePossible(ctx context.Context, faultID, buildingID int64) error
}
