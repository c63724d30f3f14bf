// Package entity defines the core business entities for the domain layer.
package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContributorRole represents the role of a contributor on a budget item.
type ContributorRole string

const (
	ContributorRoleAdmin  ContributorRole = "admin"
	ContributorRoleEditor ContributorRole = "editor"
	ContributorRoleViewer ContributorRole = "viewer"
	// ContributorRoleNone means the user is not a contributor of the item.
	ContributorRoleNone ContributorRole = ""
)

// BudgetCategory is the closed vocabulary of budget and expense categories.
type BudgetCategory string

const (
	CategoryFood          BudgetCategory = "Food"
	CategoryTravel        BudgetCategory = "Travel"
	CategoryRent          BudgetCategory = "Rent"
	CategoryTour          BudgetCategory = "Tour"
	CategoryShopping      BudgetCategory = "Shopping"
	CategoryEntertainment BudgetCategory = "Entertainment"
	CategoryUtilities     BudgetCategory = "Utilities"
	CategoryHealth        BudgetCategory = "Health"
	CategoryEducation     BudgetCategory = "Education"
	CategoryOther         BudgetCategory = "Other"
)

// BudgetCategories lists every accepted category.
var BudgetCategories = []BudgetCategory{
	CategoryFood,
	CategoryTravel,
	CategoryRent,
	CategoryTour,
	CategoryShopping,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryHealth,
	CategoryEducation,
	CategoryOther,
}

// Contributor is a user holding a role on a budget item.
type Contributor struct {
	UID          string
	Username     string
	Role         ContributorRole
	Contribution *float64
}

// Expense is a single spend recorded against a budget item.
type Expense struct {
	ID        uuid.UUID
	Name      string
	Category  BudgetCategory
	Amount    float64
	Date      string // YYYY-MM-DD
	Time      string // HH:MM
	DateTime  *time.Time
	CreatedBy string
}

// NewExpense creates a new Expense with a fresh identifier.
func NewExpense(name string, category BudgetCategory, amount float64, at time.Time, createdBy string) *Expense {
	at = at.UTC()
	return &Expense{
		ID:        uuid.New(),
		Name:      name,
		Category:  category,
		Amount:    amount,
		Date:      at.Format("2006-01-02"),
		Time:      at.Format("15:04"),
		DateTime:  &at,
		CreatedBy: createdBy,
	}
}

// legacyItemNamespace seeds the identifiers derived for items stored without an ID.
var legacyItemNamespace = uuid.MustParse("5b0f3c1e-8d7a-4c59-9e2b-6a1d4f7c2e90")

// LegacyItemID derives the identifier of an item persisted without one.
// Every contributor copy of the same legacy item derives the same value.
func LegacyItemID(name string, category BudgetCategory) uuid.UUID {
	return uuid.NewSHA1(legacyItemNamespace, []byte(string(category)+"/"+name))
}

// LegacyExpenseID derives the identifier of the expense stored at index on a
// legacy item. Copies keep expenses in the same order, so they agree on it.
func LegacyExpenseID(itemRef uuid.UUID, index int) uuid.UUID {
	return uuid.NewSHA1(itemRef, []byte(fmt.Sprintf("expense/%d", index)))
}

// ItemKey identifies a budget item across contributor copies.
// ID is authoritative; Name/Category only identify legacy items stored without an ID.
type ItemKey struct {
	ID       uuid.UUID
	Name     string
	Category BudgetCategory
}

// String returns a stable lock/log key for the item.
func (k ItemKey) String() string {
	if k.ID != uuid.Nil {
		return k.ID.String()
	}
	return string(k.Category) + "/" + k.Name
}

// BudgetItem is a named spending pool shared by its contributors.
// Every contributor holds an identical copy in their own BudgetDocument.
type BudgetItem struct {
	ID           uuid.UUID
	Name         string
	Category     BudgetCategory
	Amount       float64
	OwnerUID     string
	Contributors []Contributor
	Expenses     []Expense
	TripID       *uuid.UUID
	Version      int64
	CreatedAt    *time.Time
	UpdatedAt    *time.Time
}

// NewBudgetItem creates a new BudgetItem owned by owner.
// The owner is always stored at index 0 with the admin role.
func NewBudgetItem(name string, category BudgetCategory, amount float64, owner Contributor, others []Contributor) *BudgetItem {
	now := time.Now().UTC()
	owner.Role = ContributorRoleAdmin

	contributors := make([]Contributor, 0, len(others)+1)
	contributors = append(contributors, owner)
	contributors = append(contributors, others...)

	return &BudgetItem{
		ID:           uuid.New(),
		Name:         name,
		Category:     category,
		Amount:       amount,
		OwnerUID:     owner.UID,
		Contributors: contributors,
		Expenses:     []Expense{},
		Version:      1,
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}
}

// Key returns the identity of the item.
func (b *BudgetItem) Key() ItemKey {
	return ItemKey{ID: b.Ref(), Name: b.Name, Category: b.Category}
}

// Ref returns the item's ID, or the derived legacy ID when none is stored.
func (b *BudgetItem) Ref() uuid.UUID {
	if b.ID != uuid.Nil {
		return b.ID
	}
	return LegacyItemID(b.Name, b.Category)
}

// Owner returns the uid of the item's owner.
func (b *BudgetItem) Owner() string {
	if b.OwnerUID != "" {
		return b.OwnerUID
	}
	if len(b.Contributors) > 0 {
		return b.Contributors[0].UID
	}
	return ""
}

// Matches reports whether the item is the one identified by key.
func (b *BudgetItem) Matches(key ItemKey) bool {
	if key.ID != uuid.Nil {
		return b.Ref() == key.ID
	}
	return b.Name == key.Name && b.Category == key.Category
}

// ContributorUIDs returns the uids of all contributors in order.
func (b *BudgetItem) ContributorUIDs() []string {
	uids := make([]string, len(b.Contributors))
	for i, c := range b.Contributors {
		uids[i] = c.UID
	}
	return uids
}

// FindContributor returns the index of the contributor with uid, or -1.
func (b *BudgetItem) FindContributor(uid string) int {
	for i, c := range b.Contributors {
		if c.UID == uid {
			return i
		}
	}
	return -1
}

// FindExpense returns the index of the expense with id, or -1.
func (b *BudgetItem) FindExpense(id uuid.UUID) int {
	for i, e := range b.Expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// AssignLegacyExpenseIDs gives positional identifiers to expenses stored without one.
func (b *BudgetItem) AssignLegacyExpenseIDs() {
	ref := b.Ref()
	for i := range b.Expenses {
		if b.Expenses[i].ID == uuid.Nil {
			b.Expenses[i].ID = LegacyExpenseID(ref, i)
		}
	}
}

// TotalContributions sums every contributor's pledged contribution.
func (b *BudgetItem) TotalContributions() float64 {
	var total float64
	for _, c := range b.Contributors {
		if c.Contribution != nil {
			total += *c.Contribution
		}
	}
	return total
}

// Touch bumps the version and the update timestamp after a mutation.
// Legacy items without an identifier are assigned one here.
func (b *BudgetItem) Touch() {
	now := time.Now().UTC()
	if b.ID == uuid.Nil {
		b.ID = b.Ref()
	}
	if b.OwnerUID == "" && len(b.Contributors) > 0 {
		b.OwnerUID = b.Contributors[0].UID
	}
	b.Version++
	b.UpdatedAt = &now
}

// Clone returns a deep copy of the item.
func (b *BudgetItem) Clone() *BudgetItem {
	out := *b

	out.Contributors = make([]Contributor, len(b.Contributors))
	for i, c := range b.Contributors {
		if c.Contribution != nil {
			v := *c.Contribution
			c.Contribution = &v
		}
		out.Contributors[i] = c
	}

	out.Expenses = make([]Expense, len(b.Expenses))
	for i, e := range b.Expenses {
		if e.DateTime != nil {
			t := *e.DateTime
			e.DateTime = &t
		}
		out.Expenses[i] = e
	}

	if b.TripID != nil {
		id := *b.TripID
		out.TripID = &id
	}
	if b.CreatedAt != nil {
		t := *b.CreatedAt
		out.CreatedAt = &t
	}
	if b.UpdatedAt != nil {
		t := *b.UpdatedAt
		out.UpdatedAt = &t
	}

	return &out
}

// TombstoneRetention is how long a document remembers a removed item.
// It outlives every retry of a queued replication job.
const TombstoneRetention = 30 * 24 * time.Hour

// Tombstone records that an item was taken out of a document. Copies at or
// below Version are never written back; a Final tombstone blocks every copy.
type Tombstone struct {
	ItemID    uuid.UUID
	Version   int64
	Final     bool
	RemovedAt time.Time
}

// Blocks reports whether item may not be written into the document.
func (t Tombstone) Blocks(item *BudgetItem) bool {
	return t.Final || item.Version <= t.Version
}

// BudgetDocument is one user's full list of budget items, plus tombstones of
// the items recently removed from it.
type BudgetDocument struct {
	UserID  string
	Items   []*BudgetItem
	Removed []Tombstone
}

// NewBudgetDocument creates an empty document for a user.
func NewBudgetDocument(userID string) *BudgetDocument {
	return &BudgetDocument{
		UserID:  userID,
		Items:   []*BudgetItem{},
		Removed: []Tombstone{},
	}
}

// Clone returns a deep copy of the document.
func (d *BudgetDocument) Clone() *BudgetDocument {
	out := &BudgetDocument{
		UserID:  d.UserID,
		Items:   make([]*BudgetItem, len(d.Items)),
		Removed: make([]Tombstone, len(d.Removed)),
	}
	for i, item := range d.Items {
		out.Items[i] = item.Clone()
	}
	copy(out.Removed, d.Removed)
	return out
}

// Lookup returns the entry that item would overwrite, or nil.
func (d *BudgetDocument) Lookup(item *BudgetItem, prev ItemKey) *BudgetItem {
	for _, existing := range d.Items {
		if existing.Ref() == item.Ref() || existing.Matches(prev) {
			return existing
		}
	}
	return nil
}

// Tombstone returns the tombstone of the item id, or nil.
func (d *BudgetDocument) Tombstone(id uuid.UUID) *Tombstone {
	for i := range d.Removed {
		if d.Removed[i].ItemID == id {
			return &d.Removed[i]
		}
	}
	return nil
}

// Accepts reports whether item may be written into the document.
func (d *BudgetDocument) Accepts(item *BudgetItem) bool {
	t := d.Tombstone(item.Ref())
	return t == nil || !t.Blocks(item)
}

// Bury records that the item id at version left the document. A final
// tombstone stays final. It reports whether the tombstones changed, and
// drops those older than TombstoneRetention.
func (d *BudgetDocument) Bury(id uuid.UUID, version int64, final bool, at time.Time) bool {
	d.pruneTombstones(at.Add(-TombstoneRetention))

	if t := d.Tombstone(id); t != nil {
		if t.Final || (!final && t.Version >= version) {
			return false
		}
		t.Final = t.Final || final
		if version > t.Version {
			t.Version = version
		}
		t.RemovedAt = at
		return true
	}

	d.Removed = append(d.Removed, Tombstone{ItemID: id, Version: version, Final: final, RemovedAt: at})
	return true
}

func (d *BudgetDocument) pruneTombstones(cutoff time.Time) {
	kept := d.Removed[:0]
	for _, t := range d.Removed {
		if t.RemovedAt.After(cutoff) {
			kept = append(kept, t)
		}
	}
	d.Removed = kept
}

func (d *BudgetDocument) unbury(id uuid.UUID) {
	for i, t := range d.Removed {
		if t.ItemID == id {
			d.Removed = append(d.Removed[:i], d.Removed[i+1:]...)
			return
		}
	}
}

// Find returns the item identified by key, or nil.
func (d *BudgetDocument) Find(key ItemKey) *BudgetItem {
	for _, item := range d.Items {
		if item.Matches(key) {
			return item
		}
	}
	return nil
}

// FindByID returns the item with the given id, or nil.
func (d *BudgetDocument) FindByID(id uuid.UUID) *BudgetItem {
	for _, item := range d.Items {
		if item.Ref() == id {
			return item
		}
	}
	return nil
}

// Upsert overwrites the entry matching item, or appends it when absent.
// prev is the item's identity before the mutation, so renamed legacy entries
// are still found. Any tombstone of the item is cleared.
func (d *BudgetDocument) Upsert(item *BudgetItem, prev ItemKey) {
	d.unbury(item.Ref())
	for i, existing := range d.Items {
		if existing.Ref() == item.ID || existing.Matches(prev) {
			d.Items[i] = item.Clone()
			return
		}
	}
	d.Items = append(d.Items, item.Clone())
}

// Remove deletes the entry identified by key. It reports whether anything was removed.
func (d *BudgetDocument) Remove(key ItemKey) bool {
	for i, existing := range d.Items {
		if existing.Matches(key) {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveByTrip deletes every item linked to tripID, leaving a final
// tombstone for each, and returns how many were removed.
func (d *BudgetDocument) RemoveByTrip(tripID uuid.UUID) int {
	now := time.Now().UTC()
	kept := d.Items[:0]
	removed := 0
	for _, item := range d.Items {
		if item.TripID != nil && *item.TripID == tripID {
			d.Bury(item.Ref(), item.Version, true, now)
			removed++
			continue
		}
		kept = append(kept, item)
	}
	d.Items = kept
	return removed
}
