package repository

import (
	"context"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// ImportTx is the transactional write interface for one snapshot import.
// Every insert of the import happens on the same transaction: either the
// whole batch commits or none of it does.
type ImportTx interface {
	Tx

	BuildingInCompany(ctx context.Context, buildingID, companyID int64) (*domain.Building, error)
	InspectionExists(ctx context.Context, date string, buildingID int64) (bool, error)
	InsertInspectionRecord(ctx context.Context, rec *domain.InspectionRecord) error
	InsertFaultInspection(ctx context.Context, fi *domain.FaultInspection) error
	InsertFaultPhoto(ctx context.Context, photo *domain.FaultPhoto) error

	// FindExtinguisherBySerial looks up by serial number alone, across all
	// companies. Returns (nil, nil) when no row matches.
	FindExtinguisherBySerial(ctx context.Context, serialNumber string) (*domain.Extinguisher, error)
	InsertExtinguisher(ctx context.Context, ext *domain.Extinguisher) error
	InsertPlacement(ctx context.Context, placement *domain.Placement) error
	InsertServiceAction(ctx context.Context, action *domain.ServiceAction) error
}

// Sync starts snapshot import transactions.
type Sync interface {
	BeginImport(ctx context.Context) (ImportTx, error)
}
