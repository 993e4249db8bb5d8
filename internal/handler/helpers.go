package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/firesafe-io/firesafe/internal/auth"
)

// requireCompany pulls the principal off the context and rejects requests
// whose active project has no company yet. The auth middleware guarantees a
// principal is present on every route using this helper.
func requireCompany(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing API key")
		return auth.Principal{}, false
	}
	if principal.CompanyID == 0 {
		respondError(w, http.StatusNotFound, ErrMsgCompanyNotFoundError)
		return auth.Principal{}, false
	}
	return principal, true
}

// pathID parses a numeric chi URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
