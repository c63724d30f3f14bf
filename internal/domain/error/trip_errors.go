// Package error defines domain-specific errors for the trip budget ledger.
package error

import "errors"

// Trip domain errors.
var (
	// ErrTripNotFound is returned when a trip is not found.
	ErrTripNotFound = errors.New("trip not found")

	// ErrTripNameRequired is returned when the trip name is empty.
	ErrTripNameRequired = errors.New("trip name is required")

	// ErrNotTripOwner is returned when a non-owner tries to delete a trip.
	ErrNotTripOwner = errors.New("only the trip owner can perform this action")

	// ErrTripMemberNotFound is returned when a trip member cannot be resolved in the user directory.
	ErrTripMemberNotFound = errors.New("trip member not found")
)

// TripErrorCode defines error codes for trip errors.
// Format: TRP-XXYYYY where XX is category and YYYY is specific error.
type TripErrorCode string

const (
	// Resource not found errors (01XXXX)
	ErrCodeTripNotFound       TripErrorCode = "TRP-010001"
	ErrCodeTripMemberNotFound TripErrorCode = "TRP-010002"

	// Validation errors (02XXXX)
	ErrCodeTripNameRequired  TripErrorCode = "TRP-020001"
	ErrCodeMissingTripFields TripErrorCode = "TRP-020002"

	// Authorization errors (04XXXX)
	ErrCodeNotTripOwner TripErrorCode = "TRP-040001"
)

// TripError represents a trip error with code and message.
type TripError struct {
	Code    TripErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TripError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TripError) Unwrap() error {
	return e.Err
}

// NewTripError creates a new TripError with the given code and message.
func NewTripError(code TripErrorCode, message string, err error) *TripError {
	return &TripError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
