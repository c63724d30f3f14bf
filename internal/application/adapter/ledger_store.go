// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/trip-planner/backend/internal/domain/entity"
)

// LedgerStore is the gateway to the per-user budget documents.
// Implementations return domainerror.ErrDocumentNotFound when a user has no
// document yet, and wrap every other failure in a *domainerror.StoreError.
type LedgerStore interface {
	// Get reads one user's full budget document.
	Get(ctx context.Context, userID string) (*entity.BudgetDocument, error)

	// Set replaces one user's budget document, creating it when absent.
	Set(ctx context.Context, userID string, doc *entity.BudgetDocument) error

	// ListUserIDs returns every user that owns a budget document.
	ListUserIDs(ctx context.Context) ([]string, error)
}
