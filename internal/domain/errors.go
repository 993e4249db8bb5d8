package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	ErrMsgCompanyNotFound  = "no company found for the active project"
	ErrMsgBuildingNotFound = "building not found"
	ErrMsgOwnerNotFound    = "building owner not found"
	ErrMsgManagerNotFound  = "building manager not found"
	ErrMsgFaultNotFound    = "fault not found"

	ErrMsgExtinguisherNotFound = "extinguisher not found"
	ErrMsgInvalidActionType    = "invalid action type"

	ErrMsgInspectionNotFound  = "inspection record not found"
	ErrMsgDuplicateInspection = "an inspection for this building and date already exists"

	ErrMsgUserNotFound = "user not found"
	ErrMsgNoProject    = "no project associated with the user"
	ErrMsgForbidden    = "permission denied"

	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors.
// Wrap with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrCompanyNotFound  = errors.New(ErrMsgCompanyNotFound)
	ErrBuildingNotFound = errors.New(ErrMsgBuildingNotFound)
	ErrOwnerNotFound    = errors.New(ErrMsgOwnerNotFound)
	ErrManagerNotFound  = errors.New(ErrMsgManagerNotFound)
	ErrFaultNotFound    = errors.New(ErrMsgFaultNotFound)

	ErrExtinguisherNotFound = errors.New(ErrMsgExtinguisherNotFound)
	ErrInvalidActionType    = errors.New(ErrMsgInvalidActionType)

	ErrInspectionNotFound  = errors.New(ErrMsgInspectionNotFound)
	ErrDuplicateInspection = errors.New(ErrMsgDuplicateInspection)

	ErrUserNotFound = errors.New(ErrMsgUserNotFound)
	ErrNoProject    = errors.New(ErrMsgNoProject)
	ErrForbidden    = errors.New(ErrMsgForbidden)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
