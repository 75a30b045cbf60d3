package service

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrExternal is returned when the object store fails
	ErrExternal = errors.New("external service failure")
)

// Not-found family
var (
	ErrProjectNotFound      = fmt.Errorf("%w: project", ErrNotFound)
	ErrNodeNotFound         = fmt.Errorf("%w: work plan node", ErrNotFound)
	ErrPersonNotFound       = fmt.Errorf("%w: person", ErrNotFound)
	ErrOrganizationNotFound = fmt.Errorf("%w: organization", ErrNotFound)
	ErrFunderNotFound       = fmt.Errorf("%w: funder", ErrNotFound)
	ErrCallNotFound         = fmt.Errorf("%w: call", ErrNotFound)
	ErrIndicatorNotFound    = fmt.Errorf("%w: indicator", ErrNotFound)
	ErrInstallmentNotFound  = fmt.Errorf("%w: installment", ErrNotFound)
	ErrFileNotFound         = fmt.Errorf("%w: file", ErrNotFound)
)

// Conflict family
var (
	ErrDuplicateCode    = fmt.Errorf("%w: project code already in use", ErrConflict)
	ErrDuplicateAcronym = fmt.Errorf("%w: project acronym already in use", ErrConflict)
	ErrDuplicateEmail   = fmt.Errorf("%w: email already in use", ErrConflict)
	ErrDuplicateNode    = fmt.Errorf("%w: identifier already in use", ErrConflict)
	ErrVersionConflict  = fmt.Errorf("%w: project was modified by someone else", ErrConflict)
)

// Report workflow
var (
	ErrReportNotDue        = fmt.Errorf("%w: installment has no report due date", ErrInvalidInput)
	ErrReportNotSubmitted  = fmt.Errorf("%w: report has not been submitted", ErrInvalidInput)
	ErrReportNotAccepted   = fmt.Errorf("%w: report is not fully accepted", ErrInvalidInput)
	ErrReportNumberUnknown = fmt.Errorf("%w: report number has no installment", ErrInvalidInput)
)

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
