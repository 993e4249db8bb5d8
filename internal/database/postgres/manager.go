package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// ManagerRepository implements the building manager repository for PostgreSQL
type ManagerRepository struct {
	db *pgxpool.Pool
}

// NewManagerRepository creates a new ManagerRepository
func NewManagerRepository(db *pgxpool.Pool) *ManagerRepository {
	return &ManagerRepository{db: db}
}

const managerColumns = `id, name, address, phone, phone2, email`

// List returns the full manager pool
func (r *ManagerRepository) List(ctx context.Context) ([]domain.BuildingManager, error) {
	query := `SELECT ` + managerColumns + ` FROM building_managers ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	defer rows.Close()

	var managers []domain.BuildingManager
	for rows.Next() {
		var m domain.BuildingManager
		if err := rows.Scan(&m.ID, &m.Name, &m.Address, &m.Phone, &m.Phone2, &m.Email); err != nil {
			return nil, fmt.Errorf("failed to scan manager: %w", err)
		}
		managers = append(managers, m)
	}
	return managers, rows.Err()
}

// GetByID returns one manager
func (r *ManagerRepository) GetByID(ctx context.Context, id int64) (*domain.BuildingManager, error) {
	query := `SELECT ` + managerColumns + ` FROM building_managers WHERE id = $1`
	var m domain.BuildingManager
	err := r.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Address, &m.Phone, &m.Phone2, &m.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to get manager: %w", err)
	}
	return &m, nil
}

// Create inserts a manager and assigns its id
func (r *ManagerRepository) Create(ctx context.Context, manager *domain.BuildingManager) error {
	query := `
		INSERT INTO building_managers (name, address, phone, phone2, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		manager.Name, manager.Address, manager.Phone, manager.Phone2, manager.Email,
	).Scan(&manager.ID)
	if err != nil {
		return fmt.Errorf("failed to insert manager: %w", err)
	}
	return nil
}

// Update persists manager attribute changes
func (r *ManagerRepository) Update(ctx context.Context, manager domain.BuildingManager) error {
	query := `
		UPDATE building_managers
		SET name = $1, address = $2, phone = $3, phone2 = $4, email = $5
		WHERE id = $6
	`
	tag, err := r.db.Exec(ctx, query,
		manager.Name, manager.Address, manager.Phone, manager.Phone2, manager.Email, manager.ID)
	if err != nil {
		return fmt.Errorf("failed to update manager: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrManagerNotFound
	}
	return nil
}

// Delete removes a manager
func (r *ManagerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM building_managers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete manager: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrManagerNotFound
	}
	return nil
}
