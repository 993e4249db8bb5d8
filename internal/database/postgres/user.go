package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// UserRepository implements user and permission lookups for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetByToken resolves a user from an API token
func (r *UserRepository) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	query := `SELECT id, username, technician_id, current_project_id FROM users WHERE api_token = $1`
	var u domain.User
	err := r.db.QueryRow(ctx, query, token).Scan(&u.ID, &u.Username, &u.TechnicianID, &u.CurrentProjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by token: %w", err)
	}
	return &u, nil
}

// GetProject returns one project
func (r *UserRepository) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	query := `SELECT id, name, created_at FROM projects WHERE id = $1`
	var p domain.Project
	err := r.db.QueryRow(ctx, query, projectID).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoProject
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

// GetPermission returns the permission triple for a user on a project.
// A missing row means no access and is returned as an all-false permission.
func (r *UserRepository) GetPermission(ctx context.Context, userID, projectID string) (*domain.Permission, error) {
	query := `SELECT can_view, can_edit, is_admin FROM project_permissions WHERE user_id = $1 AND project_id = $2`
	var perm domain.Permission
	err := r.db.QueryRow(ctx, query, userID, projectID).Scan(&perm.CanView, &perm.CanEdit, &perm.IsAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.Permission{}, nil
		}
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	return &perm, nil
}
