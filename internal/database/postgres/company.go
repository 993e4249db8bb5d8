package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// CompanyRepository implements the company repository for PostgreSQL
type CompanyRepository struct {
	db *pgxpool.Pool
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{db: db}
}

const companyColumns = `id, name, address, city, zipcode, ico, dic, logo_path`

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var c domain.Company
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.City, &c.Zipcode, &c.ICO, &c.DIC, &c.LogoPath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to scan company: %w", err)
	}
	return &c, nil
}

// GetByID returns one company by its server id
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(r.db.QueryRow(ctx, query, id))
}

// GetByProject resolves the tenant company for a project
func (r *CompanyRepository) GetByProject(ctx context.Context, projectID string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE project_id = $1 LIMIT 1`
	return scanCompany(r.db.QueryRow(ctx, query, projectID))
}

// Update persists company attribute changes
func (r *CompanyRepository) Update(ctx context.Context, company domain.Company) error {
	query := `
		UPDATE companies
		SET name = $1, address = $2, city = $3, zipcode = $4, ico = $5, dic = $6, logo_path = $7
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query,
		company.Name, company.Address, company.City, company.Zipcode,
		company.ICO, company.DIC, company.LogoPath, company.ID)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}
