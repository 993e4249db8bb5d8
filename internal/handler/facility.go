package handler

import (
	"encoding/json"
	"net/http"

	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/facility"
	"github.com/firesafe-io/firesafe/internal/logger"
)

// CompanyRequest represents company attribute updates
type CompanyRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"max=200"`
	City    string `json:"city" validate:"max=100"`
	Zipcode string `json:"zipcode" validate:"max=20"`
	ICO     string `json:"ico" validate:"max=20"`
	DIC     string `json:"dic" validate:"max=20"`
}

// OwnerRequest represents building owner create/update payloads
type OwnerRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"max=200"`
	City    string `json:"city" validate:"max=100"`
	Zipcode string `json:"zipcode" validate:"max=20"`
	ICO     string `json:"ico" validate:"max=20"`
	DIC     string `json:"dic" validate:"max=20"`
}

// ManagerRequest represents building manager create/update payloads
type ManagerRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Address string  `json:"address" validate:"max=200"`
	Phone   string  `json:"phone" validate:"max=40"`
	Phone2  *string `json:"phone2,omitempty" validate:"omitempty,max=40"`
	Email   string  `json:"email" validate:"omitempty,email"`
}

// BuildingRequest represents building create/update payloads
type BuildingRequest struct {
	BuildingID             string  `json:"building_id" validate:"required,max=100"`
	Address                string  `json:"address" validate:"required,max=200"`
	City                   string  `json:"city" validate:"max=100"`
	Zipcode                string  `json:"zipcode" validate:"max=20"`
	Note                   *string `json:"note,omitempty"`
	OwnerID                int64   `json:"owner_id" validate:"required"`
	ManagerID              *int64  `json:"manager_id,omitempty"`
	InspectionIntervalDays *int    `json:"inspection_interval_days,omitempty" validate:"omitempty,gte=1"`
}

// FaultRequest represents fault catalog create/update payloads
type FaultRequest struct {
	ShortName          string `json:"short_name" validate:"required,max=100"`
	Description        string `json:"description" validate:"max=1000"`
	DefaultFixTimeDays *int   `json:"default_fix_time_days,omitempty" validate:"omitempty,gte=1"`
}

// PossibleFaultRequest links a catalog fault to a building
type PossibleFaultRequest struct {
	FaultID int64 `json:"fault_id" validate:"required"`
}

// decodeAndValidate decodes a JSON body and runs struct validation,
// responding on failure. Returns false when the request was already answered.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.FromContext(r.Context()).Warn("failed to decode request body", "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return false
	}
	if err := GetValidator().ValidateStruct(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": FormatValidationError(err)})
		return false
	}
	return true
}

// HandleGetCompany returns the caller's company
func HandleGetCompany(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		company, err := svc.GetCompany(r.Context(), principal.CompanyID)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, company)
	}
}

// HandleUpdateCompany updates the caller's company attributes
func HandleUpdateCompany(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		var req CompanyRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		company := domain.Company{
			ID:      principal.CompanyID,
			Name:    req.Name,
			Address: req.Address,
			City:    req.City,
			Zipcode: req.Zipcode,
			ICO:     req.ICO,
			DIC:     req.DIC,
		}
		if err := svc.UpdateCompany(r.Context(), company); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Company updated"})
	}
}

// HandleUploadCompanyLogo replaces the company logo from a multipart upload
func HandleUploadCompanyLogo(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}

		file, header, err := r.FormFile("logo")
		if err != nil {
			log.Warn("logo upload has no file part", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgMissingFile)
			return
		}
		defer file.Close()

		path, err := svc.UpdateCompanyLogo(r.Context(), principal.CompanyID, header.Filename, file)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Message: "Logo updated", Data: path})
	}
}

// HandleListOwners lists the company's building owners
func HandleListOwners(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		owners, err := svc.ListOwners(r.Context(), principal.CompanyID)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, owners)
	}
}

// HandleGetOwner returns one building owner
func HandleGetOwner(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "ownerID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		owner, err := svc.GetOwner(r.Context(), principal.CompanyID, id)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, owner)
	}
}

// HandleCreateOwner creates a building owner for the company
func HandleCreateOwner(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		var req OwnerRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		owner := domain.BuildingOwner{
			Name:    req.Name,
			Address: req.Address,
			City:    req.City,
			Zipcode: req.Zipcode,
			ICO:     req.ICO,
			DIC:     req.DIC,
		}
		if err := svc.CreateOwner(r.Context(), principal.CompanyID, &owner); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusCreated, owner)
	}
}

// HandleUpdateOwner updates a building owner
func HandleUpdateOwner(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "ownerID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		var req OwnerRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		owner := domain.BuildingOwner{
			ID:      id,
			Name:    req.Name,
			Address: req.Address,
			City:    req.City,
			Zipcode: req.Zipcode,
			ICO:     req.ICO,
			DIC:     req.DIC,
		}
		if err := svc.UpdateOwner(r.Context(), principal.CompanyID, owner); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Owner updated"})
	}
}

// HandleDeleteOwner removes a building owner
func HandleDeleteOwner(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "ownerID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		if err := svc.DeleteOwner(r.Context(), principal.CompanyID, id); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Owner deleted"})
	}
}

// HandleListManagers lists the shared building manager pool
func HandleListManagers(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		managers, err := svc.ListManagers(r.Context())
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, managers)
	}
}

// HandleGetManager returns one building manager
func HandleGetManager(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "managerID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		manager, err := svc.GetManager(r.Context(), id)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, manager)
	}
}

// HandleCreateManager creates a building manager
func HandleCreateManager(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ManagerRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		manager := domain.BuildingManager{
			Name:    req.Name,
			Address: req.Address,
			Phone:   req.Phone,
			Phone2:  req.Phone2,
			Email:   req.Email,
		}
		if err := svc.CreateManager(r.Context(), &manager); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusCreated, manager)
	}
}

// HandleUpdateManager updates a building manager
func HandleUpdateManager(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "managerID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		var req ManagerRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		manager := domain.BuildingManager{
			ID:      id,
			Name:    req.Name,
			Address: req.Address,
			Phone:   req.Phone,
			Phone2:  req.Phone2,
			Email:   req.Email,
		}
		if err := svc.UpdateManager(r.Context(), manager); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Manager updated"})
	}
}

// HandleDeleteManager removes a building manager
func HandleDeleteManager(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "managerID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		if err := svc.DeleteManager(r.Context(), id); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Manager deleted"})
	}
}

// HandleListBuildings lists the company's buildings
func HandleListBuildings(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		buildings, err := svc.ListBuildings(r.Context(), principal.CompanyID)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, buildings)
	}
}

// HandleGetBuilding returns one building
func HandleGetBuilding(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "buildingID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		building, err := svc.GetBuilding(r.Context(), principal.CompanyID, id)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, building)
	}
}

// HandleCreateBuilding creates a building for the company
func HandleCreateBuilding(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		var req BuildingRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		building := domain.Building{
			BuildingID:             req.BuildingID,
			Address:                req.Address,
			City:                   req.City,
			Zipcode:                req.Zipcode,
			Note:                   req.Note,
			OwnerID:                req.OwnerID,
			ManagerID:              req.ManagerID,
			InspectionIntervalDays: req.InspectionIntervalDays,
		}
		if err := svc.CreateBuilding(r.Context(), principal.CompanyID, &building); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusCreated, building)
	}
}

// HandleUpdateBuilding updates a building
func HandleUpdateBuilding(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "buildingID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		var req BuildingRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		building := domain.Building{
			ID:                     id,
			BuildingID:             req.BuildingID,
			Address:                req.Address,
			City:                   req.City,
			Zipcode:                req.Zipcode,
			Note:                   req.Note,
			OwnerID:                req.OwnerID,
			ManagerID:              req.ManagerID,
			InspectionIntervalDays: req.InspectionIntervalDays,
		}
		if err := svc.UpdateBuilding(r.Context(), principal.CompanyID, building); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Building updated"})
	}
}

// HandleDeleteBuilding removes a building
func HandleDeleteBuilding(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "buildingID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		if err := svc.DeleteBuilding(r.Context(), principal.CompanyID, id); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Building deleted"})
	}
}

// HandleListFaults lists the fault catalog
func HandleListFaults(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		faults, err := svc.ListFaults(r.Context())
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, faults)
	}
}

// HandleCreateFault creates a fault catalog entry
func HandleCreateFault(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FaultRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		fault := domain.Fault{
			ShortName:          req.ShortName,
			Description:        req.Description,
			DefaultFixTimeDays: req.DefaultFixTimeDays,
		}
		if err := svc.CreateFault(r.Context(), &fault); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusCreated, fault)
	}
}

// HandleUpdateFault updates a fault catalog entry
func HandleUpdateFault(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "faultID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		var req FaultRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		fault := domain.Fault{
			ID:                 id,
			ShortName:          req.ShortName,
			Description:        req.Description,
			DefaultFixTimeDays: req.DefaultFixTimeDays,
		}
		if err := svc.UpdateFault(r.Context(), fault); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Fault updated"})
	}
}

// HandleDeleteFault removes a fault catalog entry
func HandleDeleteFault(svc facility.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "faultID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		if err := svc.DeleteFault(r.Context(), id); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Fault deleted"})
	}
}

// HandleListPossibleFaults lists the faults applicable to a building
func HandleListPossibleFaults(svc facility.Service) http.HandlerFunc {
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
		possible, err := svc.ListPossibleFaults(r.Context(), principal.CompanyID, buildingID)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, possible)
	}
}

// HandleAddPossibleFault marks a catalog fault as applicable to a building
func HandleAddPossibleFault(svc facility.Service) http.HandlerFunc {
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
		var req PossibleFaultRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if err := svc.AddPossibleFault(r.Context(), principal.CompanyID, req.FaultID, buildingID); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusCreated, SuccessResponse{Message: "Fault marked applicable"})
	}
}

// HandleRemovePossibleFault removes a fault-building association
func HandleRemovePossibleFault(svc facility.Service) http.HandlerFunc {
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
		faultID, err := pathID(r, "faultID")
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
			return
		}
		if err := svc.RemovePossibleFault(r.Context(), principal.CompanyID, faultID, buildingID); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Fault association removed"})
	}
}
