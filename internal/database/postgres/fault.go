package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// FaultRepository implements the fault catalog repository for PostgreSQL
type FaultRepository struct {
	db *pgxpool.Pool
}

// NewFaultRepository creates a new FaultRepository
func NewFaultRepository(db *pgxpool.Pool) *FaultRepository {
	return &FaultRepository{db: db}
}

// List returns the full fault catalog
func (r *FaultRepository) List(ctx context.Context) ([]domain.Fault, error) {
	rows, err := r.db.Query(ctx, `SELECT id, short_name, description, default_fix_time_days FROM faults ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list faults: %w", err)
	}
	defer rows.Close()

	var faults []domain.Fault
	for rows.Next() {
		var f domain.Fault
		if err := rows.Scan(&f.ID, &f.ShortName, &f.Description, &f.DefaultFixTimeDays); err != nil {
			return nil, fmt.Errorf("failed to scan fault: %w", err)
		}
		faults = append(faults, f)
	}
	return faults, rows.Err()
}

// GetByID returns one catalog fault
func (r *FaultRepository) GetByID(ctx context.Context, id int64) (*domain.Fault, error) {
	var f domain.Fault
	err := r.db.QueryRow(ctx, `SELECT id, short_name, description, default_fix_time_days FROM faults WHERE id = $1`, id).
		Scan(&f.ID, &f.ShortName, &f.Description, &f.DefaultFixTimeDays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFaultNotFound
		}
		return nil, fmt.Errorf("failed to get fault: %w", err)
	}
	return &f, nil
}

// Create inserts a catalog fault and assigns its id
func (r *FaultRepository) Create(ctx context.Context, fault *domain.Fault) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO faults (short_name, description, default_fix_time_days) VALUES ($1, $2, $3) RETURNING id`,
		fault.ShortName, fault.Description, fault.DefaultFixTimeDays,
	).Scan(&fault.ID)
	if err != nil {
		return fmt.Errorf("failed to insert fault: %w", err)
	}
	return nil
}

// Update persists catalog fault changes
func (r *FaultRepository) Update(ctx context.Context, fault domain.Fault) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE faults SET short_name = $1, description = $2, default_fix_time_days = $3 WHERE id = $4`,
		fault.ShortName, fault.Description, fault.DefaultFixTimeDays, fault.ID)
	if err != nil {
		return fmt.Errorf("failed to update fault: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFaultNotFound
	}
	return nil
}

// Delete removes a catalog fault
func (r *FaultRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM faults WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fault: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFaultNotFound
	}
	return nil
}

// ListPossibleByBuilding returns the applicability associations for a building
func (r *FaultRepository) ListPossibleByBuilding(ctx context.Context, buildingID int64) ([]domain.PossibleFault, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, fault_id, building_id FROM possible_faults WHERE building_id = $1 ORDER BY id`, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list possible faults: %w", err)
	}
	defer rows.Close()
	return collectPossibleFaults(rows)
}

// ListPossibleByCompany returns the applicability associations across all
// buildings of a company (used by the snapshot exporter)
func (r *FaultRepository) ListPossibleByCompany(ctx context.Context, companyID int64) ([]domain.PossibleFault, error) {
	query := `
		SELECT pf.id, pf.fault_id, pf.building_id
		FROM possible_faults pf
		JOIN buildings b ON b.id = pf.building_id
		WHERE b.company_id = $1
		ORDER BY pf.id
	`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list possible faults: %w", err)
	}
	defer rows.Close()
	return collectPossibleFaults(rows)
}

func collectPossibleFaults(rows pgx.Rows) ([]domain.PossibleFault, error) {
	var possible []domain.PossibleFault
	for rows.Next() {
		var pf domain.PossibleFault
		if err := rows.Scan(&pf.ID, &pf.FaultID, &pf.BuildingID); err != nil {
			return nil, fmt.Errorf("failed to scan possible fault: %w", err)
		}
		possible = append(possible, pf)
	}
	return possible, rows.Err()
}

// AddPossible marks a catalog fault as applicable to a building
func (r *FaultRepository) AddPossible(ctx context.Context, possible *domain.PossibleFault) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO possible_faults (fault_id, building_id) VALUES ($1, $2)
		 ON CONFLICT (fault_id, building_id) DO UPDATE SET fault_id = EXCLUDED.fault_id
		 RETURNING id`,
		possible.FaultID, possible.BuildingID,
	).Scan(&possible.ID)
	if err != nil {
		return fmt.Errorf("failed to insert possible fault: %w", err)
	}
	return nil
}

// RemovePossible removes an applicability association
func (r *FaultRepository) RemovePossible(ctx context.Context, faultID, buildingID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM possible_faults WHERE fault_id = $1 AND building_id = $2`, faultID, buildingID)
	if err != nil {
		return fmt.Errorf("failed to delete possible fault: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFaultNotFound
	}
	return nil
}
