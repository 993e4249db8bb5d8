package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// OwnerRepository implements the building owner repository for PostgreSQL
type OwnerRepository struct {
	db *pgxpool.Pool
}

// NewOwnerRepository creates a new OwnerRepository
func NewOwnerRepository(db *pgxpool.Pool) *OwnerRepository {
	return &OwnerRepository{db: db}
}

const ownerColumns = `id, name, address, city, zipcode, ico, dic, managed_by`

// ListByCompany returns all owners managed by the company
func (r *OwnerRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.BuildingOwner, error) {
	query := `SELECT ` + ownerColumns + ` FROM building_owners WHERE managed_by = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	defer rows.Close()

	var owners []domain.BuildingOwner
	for rows.Next() {
		var o domain.BuildingOwner
		if err := rows.Scan(&o.ID, &o.Name, &o.Address, &o.City, &o.Zipcode, &o.ICO, &o.DIC, &o.ManagedBy); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners = append(owners, o)
	}
	return owners, rows.Err()
}

// GetByID returns one owner
func (r *OwnerRepository) GetByID(ctx context.Context, id int64) (*domain.BuildingOwner, error) {
	query := `SELECT ` + ownerColumns + ` FROM building_owners WHERE id = $1`
	var o domain.BuildingOwner
	err := r.db.QueryRow(ctx, query, id).Scan(&o.ID, &o.Name, &o.Address, &o.City, &o.Zipcode, &o.ICO, &o.DIC, &o.ManagedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	return &o, nil
}

// Create inserts an owner and assigns its id
func (r *OwnerRepository) Create(ctx context.Context, owner *domain.BuildingOwner) error {
	query := `
		INSERT INTO building_owners (name, address, city, zipcode, ico, dic, managed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		owner.Name, owner.Address, owner.City, owner.Zipcode, owner.ICO, owner.DIC, owner.ManagedBy,
	).Scan(&owner.ID)
	if err != nil {
		return fmt.Errorf("failed to insert owner: %w", err)
	}
	return nil
}

// Update persists owner attribute changes
func (r *OwnerRepository) Update(ctx context.Context, owner domain.BuildingOwner) error {
	query := `
		UPDATE building_owners
		SET name = $1, address = $2, city = $3, zipcode = $4, ico = $5, dic = $6, managed_by = $7
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query,
		owner.Name, owner.Address, owner.City, owner.Zipcode, owner.ICO, owner.DIC, owner.ManagedBy, owner.ID)
	if err != nil {
		return fmt.Errorf("failed to update owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOwnerNotFound
	}
	return nil
}

// Delete removes an owner
func (r *OwnerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM building_owners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOwnerNotFound
	}
	return nil
}
