package auth

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/repository"
)

const (
	cacheSize = 1024
	cacheTTL  = 5 * time.Minute
)

// Resolver turns API tokens into principals. Lookups are cached with a short
// TTL so permission or project changes take effect within minutes without a
// database round trip on every request.
type Resolver struct {
	users     repository.User
	companies repository.Company
	cache     *expirable.LRU[string, Principal]
}

// NewResolver creates a new Resolver
func NewResolver(users repository.User, companies repository.Company) *Resolver {
	return &Resolver{
		users:     users,
		companies: companies,
		cache:     expirable.NewLRU[string, Principal](cacheSize, nil, cacheTTL),
	}
}

// Resolve authenticates a token and loads the caller's project, company and
// permissions. domain.ErrUserNotFound means the token is unknown;
// domain.ErrNoProject means the user has no active project selected.
func (r *Resolver) Resolve(ctx context.Context, token string) (Principal, error) {
	if p, ok := r.cache.Get(token); ok {
		return p, nil
	}

	user, err := r.users.GetByToken(ctx, token)
	if err != nil {
		return Principal{}, err
	}
	if user.CurrentProjectID == nil {
		return Principal{}, domain.ErrNoProject
	}
	projectID := *user.CurrentProjectID

	if _, err := r.users.GetProject(ctx, projectID); err != nil {
		return Principal{}, err
	}

	perm, err := r.users.GetPermission(ctx, user.ID, projectID)
	if err != nil {
		return Principal{}, err
	}

	p := Principal{
		UserID:     user.ID,
		Username:   user.Username,
		ProjectID:  projectID,
		Permission: *perm,
	}

	company, err := r.companies.GetByProject(ctx, projectID)
	switch {
	case err == nil:
		p.CompanyID = company.ID
	case errors.Is(err, domain.ErrCompanyNotFound):
		// project exists but has no company yet; handlers reject where a
		// company is required
	default:
		return Principal{}, err
	}

	r.cache.Add(token, p)
	return p, nil
}

// Invalidate drops a cached token, forcing the next request to re-resolve.
func (r *Resolver) Invalidate(token string) {
	r.cache.Remove(token)
}
