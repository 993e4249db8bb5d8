package handler

import (
	"io"
	"net/http"

	"github.com/firesafe-io/firesafe/internal/inspection"
	"github.com/firesafe-io/firesafe/internal/logger"
)

// HandleListInspections returns the inspection visits recorded for a building
func HandleListInspections(svc inspection.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		buildingID, err := pathID(r, "buildingID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		records, err := svc.ListByBuilding(r.Context(), principal.CompanyID, buildingID)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, records)
	}
}

// HandleGetInspection returns one inspection visit with findings and photos
func HandleGetInspection(svc inspection.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "inspectionID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		detail, err := svc.Get(r.Context(), principal.CompanyID, id)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, detail)
	}
}

// HandleGetFaultPhoto streams one fault photo attachment
func HandleGetFaultPhoto(svc inspection.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		inspectionID, err := pathID(r, "inspectionID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		findingID, err := pathID(r, "findingID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		photoID, err := pathID(r, "photoID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}

		rc, err := svc.OpenPhoto(r.Context(), principal.CompanyID, inspectionID, findingID, photoID)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", "image/jpeg")
		if _, err := io.Copy(w, rc); err != nil {
			log.Error("failed to stream fault photo", "photo_id", photoID, "error", err)
		}
	}
}
