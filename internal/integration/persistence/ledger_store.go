// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trip-planner/backend/internal/application/adapter"
	"github.com/trip-planner/backend/internal/domain/entity"
	domainerror "github.com/trip-planner/backend/internal/domain/error"
	"github.com/trip-planner/backend/internal/integration/persistence/model"
)

// ledgerStore implements the adapter.LedgerStore interface on the budgets table.
type ledgerStore struct {
	db *gorm.DB
}

// NewLedgerStore creates a new SQL-backed ledger store instance.
func NewLedgerStore(db *gorm.DB) adapter.LedgerStore {
	return &ledgerStore{
		db: db,
	}
}

// Get reads one user's budget document.
func (s *ledgerStore) Get(ctx context.Context, userID string) (*entity.BudgetDocument, error) {
	var docModel model.BudgetDocumentModel
	result := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&docModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrDocumentNotFound
		}
		return nil, domainerror.NewStoreError(userID, "get", result.Error)
	}

	doc, err := docModel.ToEntity()
	if err != nil {
		return nil, domainerror.NewStoreError(userID, "get", err)
	}
	return doc, nil
}

// Set replaces one user's budget document, creating the row when absent.
func (s *ledgerStore) Set(ctx context.Context, userID string, doc *entity.BudgetDocument) error {
	docModel, err := model.BudgetDocumentModelFromEntity(userID, doc)
	if err != nil {
		return domainerror.NewStoreError(userID, "set", err)
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "removed", "updated_at"}),
		}).
		Create(docModel)
	if result.Error != nil {
		return domainerror.NewStoreError(userID, "set", result.Error)
	}
	return nil
}

// ListUserIDs returns every user that owns a budget document.
func (s *ledgerStore) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	result := s.db.WithContext(ctx).
		Model(&model.BudgetDocumentModel{}).
		Order("user_id ASC").
		Pluck("user_id", &ids)
	if result.Error != nil {
		return nil, domainerror.NewStoreError("", "list", result.Error)
	}
	return ids, nil
}
