package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/trip-planner/backend/internal/domain/error"
	"github.com/trip-planner/backend/internal/integration/entrypoint/dto"
	"github.com/trip-planner/backend/internal/integration/entrypoint/middleware"
)

// replicationWarning returns the warning for a partially replicated write, or nil.
func replicationWarning(err error) *dto.ReplicationWarning {
	var partial *domainerror.PartialReplicationError
	if !errors.As(err, &partial) {
		return nil
	}
	return &dto.ReplicationWarning{
		Error:         domainerror.ErrPartialReplication.Error(),
		Code:          string(domainerror.ErrCodePartialReplication),
		FailedUserIDs: partial.FailedUserIDs(),
	}
}

// successStatus picks the status of a committed write: ok, or 207 when some
// contributor copies were not written.
func successStatus(ok int, warning *dto.ReplicationWarning) int {
	if warning != nil {
		return http.StatusMultiStatus
	}
	return ok
}

// handleLedgerError maps ledger and trip errors to HTTP responses.
func handleLedgerError(ctx *gin.Context, err error) {
	var ledgerErr *domainerror.LedgerError
	if errors.As(err, &ledgerErr) {
		ctx.JSON(statusForCode(string(ledgerErr.Code)), dto.ErrorResponse{
			Error: ledgerErr.Message,
			Code:  string(ledgerErr.Code),
		})
		return
	}

	var tripErr *domainerror.TripError
	if errors.As(err, &tripErr) {
		ctx.JSON(statusForCode(string(tripErr.Code)), dto.ErrorResponse{
			Error: tripErr.Message,
			Code:  string(tripErr.Code),
		})
		return
	}

	// A partial fan-out also wraps store errors, so it is matched first.
	if warning := replicationWarning(err); warning != nil {
		ctx.JSON(http.StatusMultiStatus, warning)
		return
	}

	if errors.Is(err, domainerror.ErrStoreUnavailable) {
		slog.Error("Ledger store unavailable", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error: "Budget storage is temporarily unavailable",
			Code:  string(domainerror.ErrCodeStoreUnavailable),
		})
		return
	}

	slog.Error("Unhandled ledger error", "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusForCode maps the category digits of LED-/TRP- codes to HTTP status codes.
func statusForCode(code string) int {
	_, digits, ok := strings.Cut(code, "-")
	if !ok || len(digits) < 2 {
		return http.StatusInternalServerError
	}
	switch digits[:2] {
	case "01":
		return http.StatusNotFound
	case "02":
		return http.StatusBadRequest
	case "04":
		return http.StatusForbidden
	case "05":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// authenticatedUser returns the caller's uid, writing 401 when there is none.
func authenticatedUser(ctx *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
	}
	return userID, ok
}

// pathUUID parses a UUID path parameter, writing 400 when it is malformed.
func pathUUID(ctx *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + label + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the request body, writing 400 when it is invalid.
func bindJSON(ctx *gin.Context, req any, code string) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  code,
		})
		return false
	}
	return true
}
