package handler

import (
	"fmt"
	"net/http"

	"github.com/firesafe-io/firesafe/internal/logger"
	"github.com/firesafe-io/firesafe/internal/sync"
)

// maxSnapshotUploadBytes caps import uploads; field snapshots are a few
// megabytes even for large tenants.
const maxSnapshotUploadBytes = 256 << 20

// ImportResponse represents the outcome of a snapshot import
type ImportResponse struct {
	Message string `json:"message"`
	Created int    `json:"created"`
}

// attachmentWriter sets the download headers on the first byte written, so a
// failure before any output still gets a JSON error response.
type attachmentWriter struct {
	http.ResponseWriter
	filename string
	started  bool
}

func (w *attachmentWriter) Write(b []byte) (int, error) {
	if !w.started {
		w.started = true
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", w.filename))
	}
	return w.ResponseWriter.Write(b)
}

// HandleExportSnapshot streams the caller's company state as a snapshot
// attachment for a field device.
func HandleExportSnapshot(svc sync.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}

		aw := &attachmentWriter{ResponseWriter: w, filename: sync.SnapshotFilename}
		if err := svc.Export(r.Context(), principal.ProjectID, aw); err != nil {
			log.Error("snapshot export failed", "project_id", principal.ProjectID, "error", err)
			if aw.started {
				// Headers and part of the container are already out; dropping
				// the stream here leaves the client with a failed download.
				return
			}
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
	}
}

// HandleImportSnapshot accepts a multipart upload of a field-device snapshot
// and applies it atomically.
func HandleImportSnapshot(svc sync.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxSnapshotUploadBytes)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			log.Warn("failed to parse snapshot upload", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			log.Warn("snapshot upload has no file part", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgMissingFile)
			return
		}
		defer file.Close()

		result, err := svc.Import(r.Context(), principal.ProjectID, principal.UserID, file)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			if status >= http.StatusInternalServerError {
				log.Error("snapshot import failed", "project_id", principal.ProjectID, "error", err)
			} else {
				log.Warn("snapshot import rejected", "project_id", principal.ProjectID, "reason", msg)
			}
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, ImportResponse{
			Message: fmt.Sprintf("Imported %d records", result.Created),
			Created: result.Created,
		})
	}
}
