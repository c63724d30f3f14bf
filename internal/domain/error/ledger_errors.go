// Package error defines domain-specific errors for the trip budget ledger.
package error

import (
	"errors"
	"fmt"
	"strings"
)

// Ledger domain errors.
var (
	// ErrBudgetNotFound is returned when the target budget item is not in the caller's document.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrExpenseNotFound is returned when an expense is not part of the budget item.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrContributorNotFound is returned when a uid is not a contributor of the budget item.
	ErrContributorNotFound = errors.New("contributor not found")

	// ErrDocumentNotFound is returned by the ledger store when a user has no budget document yet.
	ErrDocumentNotFound = errors.New("budget document not found")

	// ErrBudgetNameRequired is returned when the budget name is empty.
	ErrBudgetNameRequired = errors.New("budget name is required")

	// ErrInvalidCategory is returned when a category is not part of the vocabulary.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidAmount is returned when an amount is negative, NaN or infinite.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidExpense is returned when an expense is malformed.
	ErrInvalidExpense = errors.New("invalid expense")

	// ErrInvalidRole is returned when an unknown or forbidden role is requested.
	ErrInvalidRole = errors.New("invalid contributor role")

	// ErrDuplicateContributor is returned when a uid appears twice in the contributor list.
	ErrDuplicateContributor = errors.New("contributor already added")

	// ErrInvalidContributors is returned when the contributor list violates the owner invariant.
	ErrInvalidContributors = errors.New("invalid contributor list")

	// ErrBudgetExceeded is returned when the reject overspend policy blocks a write.
	ErrBudgetExceeded = errors.New("budget exceeded")

	// ErrPermissionDenied is returned when the caller's role does not allow the operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrCannotChangeOwner is returned when a mutation targets the owner's role or membership.
	ErrCannotChangeOwner = errors.New("the owner's role and membership cannot be changed")

	// ErrStoreUnavailable is returned when the ledger store fails.
	ErrStoreUnavailable = errors.New("ledger store unavailable")

	// ErrVersionConflict is returned when a contributor copy is already at or past the version being written.
	ErrVersionConflict = errors.New("contributor copy is newer than the update")

	// ErrPartialReplication is returned when some contributor copies could not be written.
	ErrPartialReplication = errors.New("budget was not replicated to every contributor")
)

// LedgerErrorCode defines error codes for ledger errors.
// Format: LED-XXYYYY where XX is category and YYYY is specific error.
type LedgerErrorCode string

const (
	// Resource not found errors (01XXXX)
	ErrCodeBudgetNotFound      LedgerErrorCode = "LED-010001"
	ErrCodeExpenseNotFound     LedgerErrorCode = "LED-010002"
	ErrCodeContributorNotFound LedgerErrorCode = "LED-010003"
	ErrCodeUserNotFound        LedgerErrorCode = "LED-010004"

	// Validation errors (02XXXX)
	ErrCodeBudgetNameRequired   LedgerErrorCode = "LED-020001"
	ErrCodeInvalidCategory      LedgerErrorCode = "LED-020002"
	ErrCodeInvalidAmount        LedgerErrorCode = "LED-020003"
	ErrCodeInvalidExpense       LedgerErrorCode = "LED-020004"
	ErrCodeInvalidRole          LedgerErrorCode = "LED-020005"
	ErrCodeDuplicateContributor LedgerErrorCode = "LED-020006"
	ErrCodeInvalidContributors  LedgerErrorCode = "LED-020007"
	ErrCodeBudgetExceeded       LedgerErrorCode = "LED-020008"
	ErrCodeMissingBudgetFields  LedgerErrorCode = "LED-020009"
	ErrCodeBudgetNameTooLong    LedgerErrorCode = "LED-020010"

	// Authorization errors (04XXXX)
	ErrCodePermissionDenied  LedgerErrorCode = "LED-040001"
	ErrCodeCannotChangeOwner LedgerErrorCode = "LED-040003"

	// Store errors (05XXXX)
	ErrCodeStoreUnavailable   LedgerErrorCode = "LED-050001"
	ErrCodePartialReplication LedgerErrorCode = "LED-050002"
)

// LedgerError represents a ledger error with code and message.
type LedgerError struct {
	Code    LedgerErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError with the given code and message.
func NewLedgerError(code LedgerErrorCode, message string, err error) *LedgerError {
	return &LedgerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsValidation reports whether err is a ledger validation error.
func IsValidation(err error) bool {
	return hasCategory(err, "LED-02")
}

// IsPermissionDenied reports whether err is a ledger authorization error.
func IsPermissionDenied(err error) bool {
	return hasCategory(err, "LED-04")
}

func hasCategory(err error, prefix string) bool {
	var ledgerErr *LedgerError
	if !errors.As(err, &ledgerErr) {
		return false
	}
	return strings.HasPrefix(string(ledgerErr.Code), prefix)
}

// StoreError wraps a failure of a single ledger store call.
type StoreError struct {
	UserID string
	Op     string
	Err    error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("ledger store %s for user %s: %v", e.Op, e.UserID, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is makes StoreError match ErrStoreUnavailable.
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// NewStoreError creates a new StoreError.
func NewStoreError(userID, op string, err error) *StoreError {
	return &StoreError{UserID: userID, Op: op, Err: err}
}

// ReplicationFailure describes one contributor copy that could not be written.
type ReplicationFailure struct {
	UserID string
	Err    error
}

// PartialReplicationError is returned when a fan-out reached only some contributors.
// Writes that succeeded stay committed.
type PartialReplicationError struct {
	ItemID   string
	Failures []ReplicationFailure
}

// Error implements the error interface.
func (e *PartialReplicationError) Error() string {
	return fmt.Sprintf("%s: item %s failed for %s", ErrPartialReplication.Error(), e.ItemID, strings.Join(e.FailedUserIDs(), ", "))
}

// Unwrap returns the individual failures.
func (e *PartialReplicationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrPartialReplication)
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// FailedUserIDs returns the uids whose copy was not written.
func (e *PartialReplicationError) FailedUserIDs() []string {
	uids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		uids[i] = f.UserID
	}
	return uids
}
