package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/repository"
)

const pgUniqueViolation = "23505"

// SyncRepository starts snapshot import transactions for PostgreSQL
type SyncRepository struct {
	db *pgxpool.Pool
}

// NewSyncRepository creates a new SyncRepository
func NewSyncRepository(db *pgxpool.Pool) *SyncRepository {
	return &SyncRepository{db: db}
}

// BeginImport opens the transaction under which one whole import runs
func (r *SyncRepository) BeginImport(ctx context.Context) (repository.ImportTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &importTx{tx: tx}, nil
}

type importTx struct {
	tx pgx.Tx
}

func (t *importTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicateInspection
		}
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

func (t *importTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// BuildingInCompany returns the building only when it belongs to the company
func (t *importTx) BuildingInCompany(ctx context.Context, buildingID, companyID int64) (*domain.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE id = $1 AND company_id = $2`
	return scanBuilding(t.tx.QueryRow(ctx, query, buildingID, companyID))
}

// InspectionExists reports whether an inspection for the (date, building)
// pair is already recorded
func (t *importTx) InspectionExists(ctx context.Context, date string, buildingID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM inspection_records WHERE date = $1::date AND building_id = $2)`,
		date, buildingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check inspection existence: %w", err)
	}
	return exists, nil
}

// InsertInspectionRecord creates the server-side inspection record
func (t *importTx) InsertInspectionRecord(ctx context.Context, rec *domain.InspectionRecord) error {
	query := `
		INSERT INTO inspection_records (inspector_id, date, notes, building_id, created_at, uploaded_file)
		VALUES ($1, $2::date, $3, $4, $5, $6)
		RETURNING id
	`
	err := t.tx.QueryRow(ctx, query,
		rec.InspectorID, rec.Date, rec.Notes, rec.BuildingID, rec.CreatedAt, rec.UploadedFile,
	).Scan(&rec.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicateInspection
		}
		return fmt.Errorf("failed to insert inspection record: %w", err)
	}
	return nil
}

// InsertFaultInspection creates one finding row
func (t *importTx) InsertFaultInspection(ctx context.Context, fi *domain.FaultInspection) error {
	query := `
		INSERT INTO fault_inspections (fault_id, short_name, description, inspection_id, notes, responsible_person, fix_due_date, resolved, present)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := t.tx.QueryRow(ctx, query,
		fi.FaultID, fi.ShortName, fi.Description, fi.InspectionID,
		fi.Notes, fi.ResponsiblePerson, fi.FixDueDate, fi.Resolved, fi.Present,
	).Scan(&fi.ID)
	if err != nil {
		return fmt.Errorf("failed to insert fault inspection: %w", err)
	}
	return nil
}

// InsertFaultPhoto creates one photo attachment row
func (t *importTx) InsertFaultPhoto(ctx context.Context, photo *domain.FaultPhoto) error {
	query := `
		INSERT INTO fault_photos (fault_inspection_id, photo_path, uploaded_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := t.tx.QueryRow(ctx, query, photo.FaultInspectionID, photo.PhotoPath, photo.UploadedAt).Scan(&photo.ID)
	if err != nil {
		return fmt.Errorf("failed to insert fault photo: %w", err)
	}
	return nil
}

// FindExtinguisherBySerial looks up by serial number alone, across all
// companies; returns (nil, nil) when no row matches
func (t *importTx) FindExtinguisherBySerial(ctx context.Context, serialNumber string) (*domain.Extinguisher, error) {
	query := `SELECT ` + extinguisherColumns + ` FROM extinguishers WHERE serial_number = $1 LIMIT 1`
	ext, err := scanExtinguisher(t.tx.QueryRow(ctx, query, serialNumber))
	if err != nil {
		if errors.Is(err, domain.ErrExtinguisherNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ext, nil
}

// InsertExtinguisher creates a new server-side extinguisher row
func (t *importTx) InsertExtinguisher(ctx context.Context, ext *domain.Extinguisher) error {
	query := `
		INSERT INTO extinguishers (kind, size, power, manufacturer, serial_number, eliminated, manufactured_year, managed_by, next_inspection, next_periodic_test)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := t.tx.QueryRow(ctx, query,
		ext.Kind, ext.Size, ext.Power, ext.Manufacturer, ext.SerialNumber,
		ext.Eliminated, ext.ManufacturedYear, ext.ManagedBy, ext.NextInspection, ext.NextPeriodicTest,
	).Scan(&ext.ID)
	if err != nil {
		return fmt.Errorf("failed to insert extinguisher: %w", err)
	}
	return nil
}

// InsertPlacement appends an imported placement row
func (t *importTx) InsertPlacement(ctx context.Context, placement *domain.Placement) error {
	query := `
		INSERT INTO extinguisher_placements (description, created_at, extinguisher_id, building_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := t.tx.QueryRow(ctx, query,
		placement.Description, placement.CreatedAt, placement.ExtinguisherID, placement.BuildingID,
	).Scan(&placement.ID)
	if err != nil {
		return fmt.Errorf("failed to insert placement: %w", err)
	}
	return nil
}

// InsertServiceAction appends an imported service action row
func (t *importTx) InsertServiceAction(ctx context.Context, action *domain.ServiceAction) error {
	query := `
		INSERT INTO extinguisher_service_actions (action_type, description, created_at, extinguisher_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := t.tx.QueryRow(ctx, query,
		action.ActionType, action.Description, action.CreatedAt, action.ExtinguisherID,
	).Scan(&action.ID)
	if err != nil {
		return fmt.Errorf("failed to insert service action: %w", err)
	}
	return nil
}
