package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// ExtinguisherRepository implements the extinguisher repository for PostgreSQL
type ExtinguisherRepository struct {
	db *pgxpool.Pool
}

// NewExtinguisherRepository creates a new ExtinguisherRepository
func NewExtinguisherRepository(db *pgxpool.Pool) *ExtinguisherRepository {
	return &ExtinguisherRepository{db: db}
}

const extinguisherColumns = `id, kind, size, power, manufacturer, serial_number, eliminated, manufactured_year, managed_by, next_inspection, next_periodic_test`

func scanExtinguisher(row pgx.Row) (*domain.Extinguisher, error) {
	var e domain.Extinguisher
	err := row.Scan(&e.ID, &e.Kind, &e.Size, &e.Power, &e.Manufacturer, &e.SerialNumber,
		&e.Eliminated, &e.ManufacturedYear, &e.ManagedBy, &e.NextInspection, &e.NextPeriodicTest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExtinguisherNotFound
		}
		return nil, fmt.Errorf("failed to scan extinguisher: %w", err)
	}
	return &e, nil
}

// ListByCompany returns all extinguishers managed by the company
func (r *ExtinguisherRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.Extinguisher, error) {
	query := `SELECT ` + extinguisherColumns + ` FROM extinguishers WHERE managed_by = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list extinguishers: %w", err)
	}
	defer rows.Close()

	var exts []domain.Extinguisher
	for rows.Next() {
		var e domain.Extinguisher
		if err := rows.Scan(&e.ID, &e.Kind, &e.Size, &e.Power, &e.Manufacturer, &e.SerialNumber,
			&e.Eliminated, &e.ManufacturedYear, &e.ManagedBy, &e.NextInspection, &e.NextPeriodicTest); err != nil {
			return nil, fmt.Errorf("failed to scan extinguisher: %w", err)
		}
		exts = append(exts, e)
	}
	return exts, rows.Err()
}

// GetByID returns one extinguisher
func (r *ExtinguisherRepository) GetByID(ctx context.Context, id int64) (*domain.Extinguisher, error) {
	query := `SELECT ` + extinguisherColumns + ` FROM extinguishers WHERE id = $1`
	return scanExtinguisher(r.db.QueryRow(ctx, query, id))
}

// Create inserts an extinguisher and assigns its id
func (r *ExtinguisherRepository) Create(ctx context.Context, ext *domain.Extinguisher) error {
	query := `
		INSERT INTO extinguishers (kind, size, power, manufacturer, serial_number, eliminated, manufactured_year, managed_by, next_inspection, next_periodic_test)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		ext.Kind, ext.Size, ext.Power, ext.Manufacturer, ext.SerialNumber,
		ext.Eliminated, ext.ManufacturedYear, ext.ManagedBy, ext.NextInspection, ext.NextPeriodicTest,
	).Scan(&ext.ID)
	if err != nil {
		return fmt.Errorf("failed to insert extinguisher: %w", err)
	}
	return nil
}

// Update persists extinguisher attribute changes. The derived schedule fields
// are not part of this statement; see UpdateSchedule.
func (r *ExtinguisherRepository) Update(ctx context.Context, ext domain.Extinguisher) error {
	query := `
		UPDATE extinguishers
		SET kind = $1, size = $2, power = $3, manufacturer = $4, serial_number = $5, manufactured_year = $6
		WHERE id = $7
	`
	tag, err := r.db.Exec(ctx, query,
		ext.Kind, ext.Size, ext.Power, ext.Manufacturer, ext.SerialNumber, ext.ManufacturedYear, ext.ID)
	if err != nil {
		return fmt.Errorf("failed to update extinguisher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExtinguisherNotFound
	}
	return nil
}

// UpdateSchedule writes the derived fields computed from the service log
func (r *ExtinguisherRepository) UpdateSchedule(ctx context.Context, id int64, nextInspection, nextPeriodicTest *time.Time, eliminated bool) error {
	query := `
		UPDATE extinguishers
		SET next_inspection = $1, next_periodic_test = $2, eliminated = $3
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, nextInspection, nextPeriodicTest, eliminated, id)
	if err != nil {
		return fmt.Errorf("failed to update extinguisher schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExtinguisherNotFound
	}
	return nil
}

// ListDue returns non-eliminated extinguishers with an overdue inspection or
// periodic test
func (r *ExtinguisherRepository) ListDue(ctx context.Context, now time.Time) ([]domain.Extinguisher, error) {
	query := `SELECT ` + extinguisherColumns + ` FROM extinguishers
		WHERE eliminated = FALSE
		  AND (next_inspection <= $1 OR next_periodic_test <= $1)
		ORDER BY id`
	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due extinguishers: %w", err)
	}
	defer rows.Close()

	var exts []domain.Extinguisher
	for rows.Next() {
		var e domain.Extinguisher
		if err := rows.Scan(&e.ID, &e.Kind, &e.Size, &e.Power, &e.Manufacturer, &e.SerialNumber,
			&e.Eliminated, &e.ManufacturedYear, &e.ManagedBy, &e.NextInspection, &e.NextPeriodicTest); err != nil {
			return nil, fmt.Errorf("failed to scan extinguisher: %w", err)
		}
		exts = append(exts, e)
	}
	return exts, rows.Err()
}

// Delete removes an extinguisher
func (r *ExtinguisherRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM extinguishers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete extinguisher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExtinguisherNotFound
	}
	return nil
}

const placementColumns = `id, description, created_at, extinguisher_id, building_id`

// ListPlacements returns the full placement history, newest first
func (r *ExtinguisherRepository) ListPlacements(ctx context.Context, extinguisherID int64) ([]domain.Placement, error) {
	query := `SELECT ` + placementColumns + ` FROM extinguisher_placements
		WHERE extinguisher_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, extinguisherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list placements: %w", err)
	}
	defer rows.Close()
	return collectPlacements(rows)
}

// ListPlacementsByCompany returns all placement rows whose extinguisher is
// managed by the company (used by the snapshot exporter)
func (r *ExtinguisherRepository) ListPlacementsByCompany(ctx context.Context, companyID int64) ([]domain.Placement, error) {
	query := `
		SELECT p.id, p.description, p.created_at, p.extinguisher_id, p.building_id
		FROM extinguisher_placements p
		JOIN extinguishers e ON e.id = p.extinguisher_id
		WHERE e.managed_by = $1
		ORDER BY p.id
	`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list placements: %w", err)
	}
	defer rows.Close()
	return collectPlacements(rows)
}

func collectPlacements(rows pgx.Rows) ([]domain.Placement, error) {
	var placements []domain.Placement
	for rows.Next() {
		var p domain.Placement
		if err := rows.Scan(&p.ID, &p.Description, &p.CreatedAt, &p.ExtinguisherID, &p.BuildingID); err != nil {
			return nil, fmt.Errorf("failed to scan placement: %w", err)
		}
		placements = append(placements, p)
	}
	return placements, rows.Err()
}

// AddPlacement appends a placement fact to the history
func (r *ExtinguisherRepository) AddPlacement(ctx context.Context, placement *domain.Placement) error {
	query := `
		INSERT INTO extinguisher_placements (description, created_at, extinguisher_id, building_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		placement.Description, placement.CreatedAt, placement.ExtinguisherID, placement.BuildingID,
	).Scan(&placement.ID)
	if err != nil {
		return fmt.Errorf("failed to insert placement: %w", err)
	}
	return nil
}

const serviceActionColumns = `id, action_type, description, created_at, extinguisher_id`

// ListServiceActions returns the service log in insertion order
func (r *ExtinguisherRepository) ListServiceActions(ctx context.Context, extinguisherID int64) ([]domain.ServiceAction, error) {
	query := `SELECT ` + serviceActionColumns + ` FROM extinguisher_service_actions
		WHERE extinguisher_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, extinguisherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list service actions: %w", err)
	}
	defer rows.Close()
	return collectServiceActions(rows)
}

// ListServiceActionsByCompany returns all service actions whose extinguisher
// is managed by the company (used by the snapshot exporter)
func (r *ExtinguisherRepository) ListServiceActionsByCompany(ctx context.Context, companyID int64) ([]domain.ServiceAction, error) {
	query := `
		SELECT a.id, a.action_type, a.description, a.created_at, a.extinguisher_id
		FROM extinguisher_service_actions a
		JOIN extinguishers e ON e.id = a.extinguisher_id
		WHERE e.managed_by = $1
		ORDER BY a.id
	`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list service actions: %w", err)
	}
	defer rows.Close()
	return collectServiceActions(rows)
}

func collectServiceActions(rows pgx.Rows) ([]domain.ServiceAction, error) {
	var actions []domain.ServiceAction
	for rows.Next() {
		var a domain.ServiceAction
		if err := rows.Scan(&a.ID, &a.ActionType, &a.Description, &a.CreatedAt, &a.ExtinguisherID); err != nil {
			return nil, fmt.Errorf("failed to scan service action: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// AddServiceAction appends an event to the service log
func (r *ExtinguisherRepository) AddServiceAction(ctx context.Context, action *domain.ServiceAction) error {
	query := `
		INSERT INTO extinguisher_service_actions (action_type, description, created_at, extinguisher_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		action.ActionType, action.Description, action.CreatedAt, action.ExtinguisherID,
	).Scan(&action.ID)
	if err != nil {
		return fmt.Errorf("failed to insert service action: %w", err)
	}
	return nil
}
