package repository

import "context"

// Tx is the common interface for transactional repositories
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
