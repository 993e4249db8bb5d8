package handler

import (
	"errors"
	"net/http"

	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/snapshot"
)

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants.
const (
	ErrMsgMethodNotAllowed = "Method not allowed"
	ErrMsgInvalidRequest   = "Invalid request body"
	ErrMsgInvalidID        = "Invalid id"
	ErrMsgMissingFile      = "Missing uploaded file"
)

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgCompanyNotFoundError      = "No company found for your active project"
	ErrMsgBuildingNotFoundError     = "Building not found"
	ErrMsgOwnerNotFoundError        = "Building owner not found"
	ErrMsgManagerNotFoundError      = "Building manager not found"
	ErrMsgFaultNotFoundError        = "Fault not found"
	ErrMsgExtinguisherNotFoundError = "Extinguisher not found"
	ErrMsgInspectionNotFoundError   = "Inspection record not found"
	ErrMsgInvalidActionTypeError    = "Invalid service action type"
	ErrMsgForbiddenError            = "You don't have permission to do that"

	ErrMsgSnapshotCorruptError = "The uploaded file is not a valid snapshot"
)

// mapServiceErrorToUserMessage maps domain and snapshot errors to
// user-friendly HTTP responses.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	// Snapshot validation failures carry messages written for the uploading
	// user; pass them through.
	var schemaErr *snapshot.SchemaError
	var corruptErr *snapshot.CorruptError
	var importErr *snapshot.ImportError
	switch {
	case errors.As(err, &schemaErr):
		return http.StatusBadRequest, schemaErr.Error()
	case errors.As(err, &corruptErr):
		return http.StatusBadRequest, ErrMsgSnapshotCorruptError
	case errors.As(err, &importErr):
		return http.StatusBadRequest, importErr.Msg
	}

	switch {
	case errors.Is(err, domain.ErrCompanyNotFound):
		return http.StatusNotFound, ErrMsgCompanyNotFoundError
	case errors.Is(err, domain.ErrBuildingNotFound):
		return http.StatusNotFound, ErrMsgBuildingNotFoundError
	case errors.Is(err, domain.ErrOwnerNotFound):
		return http.StatusNotFound, ErrMsgOwnerNotFoundError
	case errors.Is(err, domain.ErrManagerNotFound):
		return http.StatusNotFound, ErrMsgManagerNotFoundError
	case errors.Is(err, domain.ErrFaultNotFound):
		return http.StatusNotFound, ErrMsgFaultNotFoundError
	case errors.Is(err, domain.ErrExtinguisherNotFound):
		return http.StatusNotFound, ErrMsgExtinguisherNotFoundError
	case errors.Is(err, domain.ErrInspectionNotFound):
		return http.StatusNotFound, ErrMsgInspectionNotFoundError
	case errors.Is(err, domain.ErrDuplicateInspection):
		return http.StatusBadRequest, domain.ErrMsgDuplicateInspection
	case errors.Is(err, domain.ErrInvalidActionType):
		return http.StatusBadRequest, ErrMsgInvalidActionTypeError
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrMsgForbiddenError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, domain.ErrMsgInvalidInput
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
