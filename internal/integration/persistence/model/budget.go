// Package model defines database models for persistence layer.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/domain/entity"
)

// BudgetDocumentModel represents the budgets table: one row per user holding
// that user's items and tombstones as JSON arrays.
type BudgetDocumentModel struct {
	UserID    string    `gorm:"type:varchar(128);primaryKey"`
	Items     string    `gorm:"type:jsonb;not null;default:'[]'"`
	Removed   string    `gorm:"type:jsonb;not null;default:'[]'"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the BudgetDocumentModel.
func (BudgetDocumentModel) TableName() string {
	return "budgets"
}

// ToEntity converts a BudgetDocumentModel to a domain BudgetDocument entity.
func (m *BudgetDocumentModel) ToEntity() (*entity.BudgetDocument, error) {
	items, err := UnmarshalItems([]byte(m.Items))
	if err != nil {
		return nil, err
	}
	removed, err := UnmarshalTombstones([]byte(m.Removed))
	if err != nil {
		return nil, err
	}
	return &entity.BudgetDocument{
		UserID:  m.UserID,
		Items:   items,
		Removed: removed,
	}, nil
}

// BudgetDocumentModelFromEntity creates a BudgetDocumentModel from a domain BudgetDocument entity.
func BudgetDocumentModelFromEntity(userID string, doc *entity.BudgetDocument) (*BudgetDocumentModel, error) {
	items, err := MarshalItems(doc.Items)
	if err != nil {
		return nil, err
	}
	removed, err := MarshalTombstones(doc.Removed)
	if err != nil {
		return nil, err
	}
	return &BudgetDocumentModel{
		UserID:    userID,
		Items:     string(items),
		Removed:   string(removed),
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// BudgetDocumentJSON is the persisted shape of a whole document.
type BudgetDocumentJSON struct {
	Items   []BudgetItemJSON `json:"items"`
	Removed []TombstoneJSON  `json:"removed,omitempty"`
}

// TombstoneJSON is the persisted shape of a removed item marker.
type TombstoneJSON struct {
	ItemID    string    `json:"itemId"`
	Version   int64     `json:"version"`
	Final     bool      `json:"final,omitempty"`
	RemovedAt time.Time `json:"removedAt"`
}

// BudgetItemJSON is the persisted shape of a budget item.
type BudgetItemJSON struct {
	ID           string            `json:"id,omitempty"`
	Name         string            `json:"name"`
	Category     string            `json:"category"`
	Amount       float64           `json:"amount"`
	OwnerUID     string            `json:"ownerUid,omitempty"`
	Contributors []ContributorJSON `json:"contributors"`
	Expenses     []ExpenseJSON     `json:"expenses"`
	TripID       string            `json:"tripId,omitempty"`
	Version      int64             `json:"version,omitempty"`
	CreatedAt    *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time        `json:"updatedAt,omitempty"`
}

// ContributorJSON is the persisted shape of a contributor.
type ContributorJSON struct {
	UID          string   `json:"uid"`
	Username     string   `json:"username"`
	Role         string   `json:"role,omitempty"`
	Contribution *float64 `json:"contribution,omitempty"`
}

// ExpenseJSON is the persisted shape of an expense.
type ExpenseJSON struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Amount    float64    `json:"amount"`
	Category  string     `json:"category"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	DateTime  *time.Time `json:"dateTime,omitempty"`
	CreatedBy string     `json:"createdBy,omitempty"`
}

// MarshalDocument encodes a document as {"items": [...], "removed": [...]}.
func MarshalDocument(doc *entity.BudgetDocument) ([]byte, error) {
	out := BudgetDocumentJSON{
		Items:   make([]BudgetItemJSON, len(doc.Items)),
		Removed: tombstonesToJSON(doc.Removed),
	}
	for i, item := range doc.Items {
		out.Items[i] = BudgetItemJSONFromEntity(item)
	}
	return json.Marshal(out)
}

// UnmarshalDocument decodes a document written by MarshalDocument.
func UnmarshalDocument(userID string, data []byte) (*entity.BudgetDocument, error) {
	var in BudgetDocumentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to decode budget document: %w", err)
	}
	doc := entity.NewBudgetDocument(userID)
	for _, raw := range in.Items {
		item, err := raw.ToEntity()
		if err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, item)
	}
	removed, err := tombstonesFromJSON(in.Removed)
	if err != nil {
		return nil, err
	}
	doc.Removed = removed
	return doc, nil
}

// MarshalTombstones encodes tombstones as a JSON array.
func MarshalTombstones(removed []entity.Tombstone) ([]byte, error) {
	return json.Marshal(tombstonesToJSON(removed))
}

// UnmarshalTombstones decodes a JSON array written by MarshalTombstones.
func UnmarshalTombstones(data []byte) ([]entity.Tombstone, error) {
	var in []TombstoneJSON
	if len(data) > 0 {
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("failed to decode budget tombstones: %w", err)
		}
	}
	return tombstonesFromJSON(in)
}

func tombstonesToJSON(removed []entity.Tombstone) []TombstoneJSON {
	out := make([]TombstoneJSON, len(removed))
	for i, t := range removed {
		out[i] = TombstoneJSON{
			ItemID:    t.ItemID.String(),
			Version:   t.Version,
			Final:     t.Final,
			RemovedAt: t.RemovedAt,
		}
	}
	return out
}

func tombstonesFromJSON(in []TombstoneJSON) ([]entity.Tombstone, error) {
	out := make([]entity.Tombstone, 0, len(in))
	for _, t := range in {
		id, err := uuid.Parse(t.ItemID)
		if err != nil {
			return nil, fmt.Errorf("invalid tombstone id %q: %w", t.ItemID, err)
		}
		out = append(out, entity.Tombstone{
			ItemID:    id,
			Version:   t.Version,
			Final:     t.Final,
			RemovedAt: t.RemovedAt,
		})
	}
	return out, nil
}

// MarshalItems encodes items as a JSON array.
func MarshalItems(items []*entity.BudgetItem) ([]byte, error) {
	out := make([]BudgetItemJSON, len(items))
	for i, item := range items {
		out[i] = BudgetItemJSONFromEntity(item)
	}
	return json.Marshal(out)
}

// UnmarshalItems decodes a JSON array written by MarshalItems.
func UnmarshalItems(data []byte) ([]*entity.BudgetItem, error) {
	var in []BudgetItemJSON
	if len(data) > 0 {
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("failed to decode budget items: %w", err)
		}
	}
	items := make([]*entity.BudgetItem, 0, len(in))
	for _, raw := range in {
		item, err := raw.ToEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ToEntity converts the persisted shape to a domain BudgetItem. Legacy
// expenses without an ID get a positional one.
func (j BudgetItemJSON) ToEntity() (*entity.BudgetItem, error) {
	id, err := parseOptionalUUID(j.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid budget id %q: %w", j.ID, err)
	}

	item := &entity.BudgetItem{
		ID:           id,
		Name:         j.Name,
		Category:     entity.BudgetCategory(j.Category),
		Amount:       j.Amount,
		OwnerUID:     j.OwnerUID,
		Contributors: make([]entity.Contributor, len(j.Contributors)),
		Expenses:     make([]entity.Expense, len(j.Expenses)),
		Version:      j.Version,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}

	if j.TripID != "" {
		tripID, err := uuid.Parse(j.TripID)
		if err != nil {
			return nil, fmt.Errorf("invalid trip id %q: %w", j.TripID, err)
		}
		item.TripID = &tripID
	}

	for i, c := range j.Contributors {
		item.Contributors[i] = entity.Contributor{
			UID:          c.UID,
			Username:     c.Username,
			Role:         entity.ContributorRole(c.Role),
			Contribution: c.Contribution,
		}
	}

	for i, e := range j.Expenses {
		expenseID, err := parseOptionalUUID(e.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid expense id %q: %w", e.ID, err)
		}
		item.Expenses[i] = entity.Expense{
			ID:        expenseID,
			Name:      e.Name,
			Category:  entity.BudgetCategory(e.Category),
			Amount:    e.Amount,
			Date:      e.Date,
			Time:      e.Time,
			DateTime:  e.DateTime,
			CreatedBy: e.CreatedBy,
		}
	}
	item.AssignLegacyExpenseIDs()

	return item, nil
}

// BudgetItemJSONFromEntity converts a domain BudgetItem to its persisted shape.
func BudgetItemJSONFromEntity(item *entity.BudgetItem) BudgetItemJSON {
	out := BudgetItemJSON{
		Name:         item.Name,
		Category:     string(item.Category),
		Amount:       item.Amount,
		OwnerUID:     item.OwnerUID,
		Contributors: make([]ContributorJSON, len(item.Contributors)),
		Expenses:     make([]ExpenseJSON, len(item.Expenses)),
		Version:      item.Version,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
	if item.ID != uuid.Nil {
		out.ID = item.ID.String()
	}
	if item.TripID != nil {
		out.TripID = item.TripID.String()
	}

	for i, c := range item.Contributors {
		out.Contributors[i] = ContributorJSON{
			UID:          c.UID,
			Username:     c.Username,
			Role:         string(c.Role),
			Contribution: c.Contribution,
		}
	}

	for i, e := range item.Expenses {
		out.Expenses[i] = ExpenseJSON{
			Name:      e.Name,
			Amount:    e.Amount,
			Category:  string(e.Category),
			Date:      e.Date,
			Time:      e.Time,
			DateTime:  e.DateTime,
			CreatedBy: e.CreatedBy,
		}
		if e.ID != uuid.Nil {
			out.Expenses[i].ID = e.ID.String()
		}
	}

	return out
}

func parseOptionalUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}
