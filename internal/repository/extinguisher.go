package repository

import (
	"context"
	"time"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// Extinguisher defines the interface for extinguisher persistence, including
// the append-only placement and service-action logs.
type Extinguisher interface {
	ListByCompany(ctx context.Context, companyID int64) ([]domain.Extinguisher, error)
	GetByID(ctx context.Context, id int64) (*domain.Extinguisher, error)
	Create(ctx context.Context, ext *domain.Extinguisher) error
	Update(ctx context.Context, ext domain.Extinguisher) error
	Delete(ctx context.Context, id int64) error

	// UpdateSchedule writes the derived fields. Only the recalculator calls
	// this; form edits never touch next_inspection/next_periodic_test.
	UpdateSchedule(ctx context.Context, id int64, nextInspection, nextPeriodicTest *time.Time, eliminated bool) error

	// ListDue returns non-eliminated extinguishers whose next inspection or
	// next periodic test falls on or before now.
	ListDue(ctx context.Context, now time.Time) ([]domain.Extinguisher, error)

	ListPlacements(ctx context.Context, extinguisherID int64) ([]domain.Placement, error)
	ListPlacementsByCompany(ctx context.Context, companyID int64) ([]domain.Placement, error)
	AddPlacement(ctx context.Context, placement *domain.Placement) error

	ListServiceActions(ctx context.Context, extinguisherID int64) ([]domain.ServiceAction, error)
	ListServiceActionsByCompany(ctx context.Context, companyID int64) ([]domain.ServiceAction, error)
	AddServiceAction(ctx context.Context, action *domain.ServiceAction) error
}
