package handler

import (
	"context"
	"net/http"

	"github.com/firesafe-io/firesafe/internal/logger"
)

// Pinger reports backing-store liveness
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HandleLiveness reports process liveness only
func HandleLiveness(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: version})
	}
}

// HandleHealth reports service and database health
func HandleHealth(db Pinger, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			logger.FromContext(r.Context()).Error("health check failed", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Version: version})
			return
		}
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: version})
	}
}
