package handler

import (
	"net/http"
	"time"

	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/extinguisher"
	"github.com/firesafe-io/firesafe/internal/logger"
)

// ExtinguisherRequest represents extinguisher create/update payloads
type ExtinguisherRequest struct {
	Kind             string `json:"kind" validate:"required,max=50"`
	Size             string `json:"size" validate:"max=50"`
	Power            string `json:"power" validate:"max=50"`
	Manufacturer     string `json:"manufacturer" validate:"max=100"`
	SerialNumber     string `json:"serial_number" validate:"required,max=100"`
	ManufacturedYear int    `json:"manufactured_year" validate:"gte=1900,lte=2100"`
	// Create only: where the new asset is placed.
	BuildingID    int64  `json:"building_id,omitempty"`
	PlacementNote string `json:"placement_note,omitempty" validate:"max=500"`
}

// PlacementRequest represents a relocation of an extinguisher
type PlacementRequest struct {
	BuildingID  int64  `json:"building_id" validate:"required"`
	Description string `json:"description" validate:"max=500"`
}

// ServiceActionRequest represents one recorded service event
type ServiceActionRequest struct {
	ActionType  string `json:"action_type" validate:"required,action_type"`
	Description string `json:"description" validate:"max=500"`
}

// HandleListExtinguishers lists the company's extinguishers
func HandleListExtinguishers(svc extinguisher.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		exts, err := svc.List(r.Context(), principal.CompanyID)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, exts)
	}
}

// HandleGetExtinguisher returns one extinguisher with its current placement
func HandleGetExtinguisher(svc extinguisher.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "extinguisherID")
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

// HandleCreateExtinguisher registers a new extinguisher and its initial placement
func HandleCreateExtinguisher(svc extinguisher.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		var req ExtinguisherRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if req.BuildingID == 0 {
			respondError(w, http.StatusBadRequest, ErrMsgBuildingNotFoundError)
			return
		}

		ext := domain.Extinguisher{
			Kind:             req.Kind,
			Size:             req.Size,
			Power:            req.Power,
			Manufacturer:     req.Manufacturer,
			SerialNumber:     req.SerialNumber,
			ManufacturedYear: req.ManufacturedYear,
		}
		if err := svc.Create(r.Context(), principal.CompanyID, &ext, req.BuildingID, req.PlacementNote); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("extinguisher created", "extinguisher_id", ext.ID, "serial_number", ext.SerialNumber)
		respondJSON(w, http.StatusCreated, ext)
	}
}

// HandleUpdateExtinguisher updates an extinguisher's editable attributes
func HandleUpdateExtinguisher(svc extinguisher.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "extinguisherID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		var req ExtinguisherRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		ext := domain.Extinguisher{
			ID:               id,
			Kind:             req.Kind,
			Size:             req.Size,
			Power:            req.Power,
			Manufacturer:     req.Manufacturer,
			SerialNumber:     req.SerialNumber,
			ManufacturedYear: req.ManufacturedYear,
		}
		if err := svc.Update(r.Context(), principal.CompanyID, ext); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Extinguisher updated"})
	}
}

// HandleDeleteExtinguisher removes an extinguisher
func HandleDeleteExtinguisher(svc extinguisher.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "extinguisherID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		if err := svc.Delete(r.Context(), principal.CompanyID, id); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Extinguisher deleted"})
	}
}

// HandleListPlacements returns an extinguisher's placement history, newest first
func HandleListPlacements(svc extinguisher.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "extinguisherID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		placements, err := svc.ListPlacements(r.Context(), principal.CompanyID, id)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, placements)
	}
}

// HandleAddPlacement appends a relocation to an extinguisher's history
func HandleAddPlacement(svc extinguisher.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "extinguisherID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		var req PlacementRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		placement, err := svc.AddPlacement(r.Context(), principal.CompanyID, id, req.BuildingID, req.Description)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusCreated, placement)
	}
}

// ServiceActionResponse includes the recomputed schedule after the action
type ServiceActionResponse struct {
	Action           domain.ServiceAction `json:"action"`
	NextInspection   *time.Time           `json:"next_inspection,omitempty"`
	NextPeriodicTest *time.Time           `json:"next_periodic_test,omitempty"`
}

// HandleListServiceActions returns an extinguisher's service log
func HandleListServiceActions(svc extinguisher.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "extinguisherID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		actions, err := svc.ListServiceActions(r.Context(), principal.CompanyID, id)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, actions)
	}
}

// HandleRecordServiceAction appends a service event and returns the updated schedule
func HandleRecordServiceAction(svc extinguisher.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "extinguisherID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		var req ServiceActionRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		action, err := svc.RecordServiceAction(r.Context(), principal.CompanyID, id, domain.ActionType(req.ActionType), req.Description)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		resp := ServiceActionResponse{Action: *action}
		if detail, err := svc.Get(r.Context(), principal.CompanyID, id); err == nil {
			resp.NextInspection = detail.NextInspection
			resp.NextPeriodicTest = detail.NextPeriodicTest
		}
		respondJSON(w, http.StatusCreated, resp)
	}
}
