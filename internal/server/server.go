package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/firesafe-io/firesafe/internal/auth"
	"github.com/firesafe-io/firesafe/internal/database"
	"github.com/firesafe-io/firesafe/internal/extinguisher"
	"github.com/firesafe-io/firesafe/internal/facility"
	"github.com/firesafe-io/firesafe/internal/handler"
	"github.com/firesafe-io/firesafe/internal/inspection"
	"github.com/firesafe-io/firesafe/internal/logger"
	"github.com/firesafe-io/firesafe/internal/metrics"
	"github.com/firesafe-io/firesafe/internal/sync"
)

type Server struct {
	httpServer          *http.Server
	dbPool              database.Pool
	facilityService     facility.Service
	extinguisherService extinguisher.Service
	inspectionService   inspection.Service
	syncService         sync.Service
}

// NewServer creates a new Server instance
func NewServer(
	port int,
	version string,
	resolver *auth.Resolver,
	dbPool database.Pool,
	facilityService facility.Service,
	extinguisherService extinguisher.Service,
	inspectionService inspection.Service,
	syncService sync.Service,
) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RequestSizeLimitMiddleware(DefaultBodyLimit))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleLiveness(version))
	r.Get("/readyz", handler.HandleHealth(dbPool, version))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Authenticate(resolver))

		// Read-only surface
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireView)

			r.Get("/sync/snapshot", handler.HandleExportSnapshot(syncService))

			r.Get("/company", handler.HandleGetCompany(facilityService))

			r.Get("/owners", handler.HandleListOwners(facilityService))
			r.Get("/owners/{ownerID}", handler.HandleGetOwner(facilityService))

			r.Get("/managers", handler.HandleListManagers(facilityService))
			r.Get("/managers/{managerID}", handler.HandleGetManager(facilityService))

			r.Get("/buildings", handler.HandleListBuildings(facilityService))
			r.Get("/buildings/{buildingID}", handler.HandleGetBuilding(facilityService))
			r.Get("/buildings/{buildingID}/possible-faults", handler.HandleListPossibleFaults(facilityService))
			r.Get("/buildings/{buildingID}/inspections", handler.HandleListInspections(inspectionService))

			r.Get("/faults", handler.HandleListFaults(facilityService))

			r.Get("/extinguishers", handler.HandleListExtinguishers(extinguisherService))
			r.Get("/extinguishers/{extinguisherID}", handler.HandleGetExtinguisher(extinguisherService))
			r.Get("/extinguishers/{extinguisherID}/placements", handler.HandleListPlacements(extinguisherService))
			r.Get("/extinguishers/{extinguisherID}/actions", handler.HandleListServiceActions(extinguisherService))

			r.Get("/inspections/{inspectionID}", handler.HandleGetInspection(inspectionService))
			r.Get("/inspections/{inspectionID}/findings/{findingID}/photos/{photoID}", handler.HandleGetFaultPhoto(inspectionService))
		})

		// Mutating surface
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireEdit)

			r.Post("/sync/inspections", handler.HandleImportSnapshot(syncService))

			r.Put("/company", handler.HandleUpdateCompany(facilityService))
			r.Post("/company/logo", handler.HandleUploadCompanyLogo(facilityService))

			r.Post("/owners", handler.HandleCreateOwner(facilityService))
			r.Put("/owners/{ownerID}", handler.HandleUpdateOwner(facilityService))
			r.Delete("/owners/{ownerID}", handler.HandleDeleteOwner(facilityService))

			r.Post("/managers", handler.HandleCreateManager(facilityService))
			r.Put("/managers/{managerID}", handler.HandleUpdateManager(facilityService))
			r.Delete("/managers/{managerID}", handler.HandleDeleteManager(facilityService))

			r.Post("/buildings", handler.HandleCreateBuilding(facilityService))
			r.Put("/buildings/{buildingID}", handler.HandleUpdateBuilding(facilityService))
			r.Delete("/buildings/{buildingID}", handler.HandleDeleteBuilding(facilityService))
			r.Post("/buildings/{buildingID}/possible-faults", handler.HandleAddPossibleFault(facilityService))
			r.Delete("/buildings/{buildingID}/possible-faults/{faultID}", handler.HandleRemovePossibleFault(facilityService))

			r.Post("/faults", handler.HandleCreateFault(facilityService))
			r.Put("/faults/{faultID}", handler.HandleUpdateFault(facilityService))
			r.Delete("/faults/{faultID}", handler.HandleDeleteFault(facilityService))

			r.Post("/extinguishers", handler.HandleCreateExtinguisher(extinguisherService))
			r.Put("/extinguishers/{extinguisherID}", handler.HandleUpdateExtinguisher(extinguisherService))
			r.Delete("/extinguishers/{extinguisherID}", handler.HandleDeleteExtinguisher(extinguisherService))
			r.Post("/extinguishers/{extinguisherID}/placements", handler.HandleAddPlacement(extinguisherService))
			r.Post("/extinguishers/{extinguisherID}/actions", handler.HandleRecordServiceAction(extinguisherService))
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:              dbPool,
		facilityService:     facilityService,
		extinguisherService: extinguisherService,
		inspectionService:   inspectionService,
		syncService:         syncService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
