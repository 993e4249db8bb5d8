package repository

import (
	"context"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// User defines the interface for user and permission lookups
type User interface {
	GetByToken(ctx context.Context, token string) (*domain.User, error)
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)
	// GetPermission returns the permission triple for a user on a project.
	// A missing permission row means no access, not an error.
	GetPermission(ctx context.Context, userID, projectID string) (*domain.Permission, error)
}
