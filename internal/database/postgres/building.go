package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// BuildingRepository implements the building repository for PostgreSQL
type BuildingRepository struct {
	db *pgxpool.Pool
}

// NewBuildingRepository creates a new BuildingRepository
func NewBuildingRepository(db *pgxpool.Pool) *BuildingRepository {
	return &BuildingRepository{db: db}
}

const buildingColumns = `id, building_id, address, city, zipcode, note, company_id, owner_id, manager_id, last_inspection_date, inspection_interval_days`

func scanBuilding(row pgx.Row) (*domain.Building, error) {
	var b domain.Building
	err := row.Scan(&b.ID, &b.BuildingID, &b.Address, &b.City, &b.Zipcode, &b.Note,
		&b.CompanyID, &b.OwnerID, &b.ManagerID, &b.LastInspectionDate, &b.InspectionIntervalDays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBuildingNotFound
		}
		return nil, fmt.Errorf("failed to scan building: %w", err)
	}
	return &b, nil
}

// ListByCompany returns all buildings of the company
func (r *BuildingRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE company_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	defer rows.Close()

	var buildings []domain.Building
	for rows.Next() {
		var b domain.Building
		if err := rows.Scan(&b.ID, &b.BuildingID, &b.Address, &b.City, &b.Zipcode, &b.Note,
			&b.CompanyID, &b.OwnerID, &b.ManagerID, &b.LastInspectionDate, &b.InspectionIntervalDays); err != nil {
			return nil, fmt.Errorf("failed to scan building: %w", err)
		}
		buildings = append(buildings, b)
	}
	return buildings, rows.Err()
}

// GetByID returns one building
func (r *BuildingRepository) GetByID(ctx context.Context, id int64) (*domain.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE id = $1`
	return scanBuilding(r.db.QueryRow(ctx, query, id))
}

// GetInCompany returns the building only when it belongs to the company
func (r *BuildingRepository) GetInCompany(ctx context.Context, id, companyID int64) (*domain.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE id = $1 AND company_id = $2`
	return scanBuilding(r.db.QueryRow(ctx, query, id, companyID))
}

// Create inserts a building and assigns its id
func (r *BuildingRepository) Create(ctx context.Context, building *domain.Building) error {
	query := `
		INSERT INTO buildings (building_id, address, city, zipcode, note, company_id, owner_id, manager_id, last_inspection_date, inspection_interval_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		building.BuildingID, building.Address, building.City, building.Zipcode, building.Note,
		building.CompanyID, building.OwnerID, building.ManagerID,
		building.LastInspectionDate, building.InspectionIntervalDays,
	).Scan(&building.ID)
	if err != nil {
		return fmt.Errorf("failed to insert building: %w", err)
	}
	return nil
}

// Update persists building attribute changes
func (r *BuildingRepository) Update(ctx context.Context, building domain.Building) error {
	query := `
		UPDATE buildings
		SET building_id = $1, address = $2, city = $3, zipcode = $4, note = $5,
		    owner_id = $6, manager_id = $7, last_inspection_date = $8, inspection_interval_days = $9
		WHERE id = $10
	`
	tag, err := r.db.Exec(ctx, query,
		building.BuildingID, building.Address, building.City, building.Zipcode, building.Note,
		building.OwnerID, building.ManagerID, building.LastInspectionDate, building.InspectionIntervalDays,
		building.ID)
	if err != nil {
		return fmt.Errorf("failed to update building: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBuildingNotFound
	}
	return nil
}

// Delete removes a building
func (r *BuildingRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM buildings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete building: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBuildingNotFound
	}
	return nil
}
