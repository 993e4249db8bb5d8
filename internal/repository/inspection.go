package repository

import (
	"context"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// Inspection defines the read interface for imported inspection data.
// Writes happen exclusively through the snapshot import transaction.
type Inspection interface {
	ListByBuilding(ctx context.Context, buildingID int64) ([]domain.InspectionRecord, error)
	GetByID(ctx context.Context, id int64) (*domain.InspectionRecord, error)
	ListFaultInspections(ctx context.Context, inspectionID int64) ([]domain.FaultInspection, error)
	ListFaultPhotos(ctx context.Context, faultInspectionID int64) ([]domain.FaultPhoto, error)
}
