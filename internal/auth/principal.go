package auth

import (
	"context"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// Principal is the authenticated caller: the user, their active project and
// the tenant company plus permissions resolved for it. It is threaded through
// the request context explicitly; there is no ambient session state.
type Principal struct {
	UserID     string
	Username   string
	ProjectID  string
	CompanyID  int64 // 0 when the project has no company yet
	Permission domain.Permission
}

type contextKey struct{}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal attached by the auth middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
