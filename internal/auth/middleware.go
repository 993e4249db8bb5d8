package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/logger"
)

// HeaderAPIKey carries the caller's token. A Bearer Authorization header is
// accepted as an alternative.
const HeaderAPIKey = "X-API-Key"

func tokenFromRequest(r *http.Request) string {
	if key := r.Header.Get(HeaderAPIKey); key != "" {
		return key
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Authenticate resolves the request token into a Principal and attaches it
// to the context. Requests without a valid token get 401.
func Authenticate(resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				respondError(w, http.StatusUnauthorized, "missing API key")
				return
			}

			principal, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrUserNotFound):
					respondError(w, http.StatusUnauthorized, "invalid API key")
				case errors.Is(err, domain.ErrNoProject):
					respondError(w, http.StatusForbidden, domain.ErrMsgNoProject)
				default:
					logger.FromContext(r.Context()).Error("failed to resolve principal", "error", err)
					respondError(w, http.StatusInternalServerError, "authentication failed")
				}
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireView rejects callers without view permission on their project.
func RequireView(next http.Handler) http.Handler {
	return requirePermission(next, func(p domain.Permission) bool {
		return p.CanView || p.CanEdit || p.IsAdmin
	})
}

// RequireEdit rejects callers without edit permission on their project.
func RequireEdit(next http.Handler) http.Handler {
	return requirePermission(next, func(p domain.Permission) bool {
		return p.CanEdit || p.IsAdmin
	})
}

// RequireAdmin rejects callers without the admin flag on their project.
func RequireAdmin(next http.Handler) http.Handler {
	return requirePermission(next, func(p domain.Permission) bool {
		return p.IsAdmin
	})
}

func requirePermission(next http.Handler, allowed func(domain.Permission) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := FromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "missing API key")
			return
		}
		if !allowed(principal.Permission) {
			respondError(w, http.StatusForbidden, domain.ErrMsgForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
