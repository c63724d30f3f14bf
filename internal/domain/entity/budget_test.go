package entity

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/trip-planner/backend/internal/domain/error"
)

func newShared() *BudgetItem {
	return NewBudgetItem("Goa Trip", CategoryTravel, 6000,
		Contributor{UID: "a", Username: "alice"},
		[]Contributor{{UID: "b", Username: "bob", Role: ContributorRoleEditor}},
	)
}

func TestNewBudgetItem(t *testing.T) {
	item := newShared()

	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, "a", item.OwnerUID)
	assert.Equal(t, ContributorRoleAdmin, item.Contributors[0].Role)
	assert.Equal(t, int64(1), item.Version)
	assert.NoError(t, item.Validate())
}

func TestBudgetItem_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BudgetItem)
		err    error
	}{
		{"NaN amount", func(b *BudgetItem) { b.Amount = math.NaN() }, domainerror.ErrInvalidAmount},
		{"infinite amount", func(b *BudgetItem) { b.Amount = math.Inf(1) }, domainerror.ErrInvalidAmount},
		{"negative amount", func(b *BudgetItem) { b.Amount = -1 }, domainerror.ErrInvalidAmount},
		{"long name", func(b *BudgetItem) { b.Name = string(make([]byte, MaxBudgetNameLength+1)) }, domainerror.ErrBudgetNameRequired},
		{"no contributors", func(b *BudgetItem) { b.Contributors = nil }, domainerror.ErrInvalidContributors},
		{"owner not first", func(b *BudgetItem) { b.OwnerUID = "b" }, domainerror.ErrInvalidContributors},
		{"duplicate uid", func(b *BudgetItem) { b.Contributors = append(b.Contributors, Contributor{UID: "b"}) }, domainerror.ErrDuplicateContributor},
		{"unknown role", func(b *BudgetItem) { b.Contributors[1].Role = "owner" }, domainerror.ErrInvalidRole},
		{"zero expense", func(b *BudgetItem) {
			b.Expenses = append(b.Expenses, Expense{Name: "x", Category: CategoryFood, Amount: 0})
		}, domainerror.ErrInvalidAmount},
		{"bad expense date", func(b *BudgetItem) {
			b.Expenses = append(b.Expenses, Expense{Name: "x", Category: CategoryFood, Amount: 1, Date: "02/01/2025"})
		}, domainerror.ErrInvalidExpense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := newShared()
			tt.mutate(item)
			assert.ErrorIs(t, item.Validate(), tt.err)
		})
	}
}

func TestBudgetItem_Clone(t *testing.T) {
	item := newShared()
	pledge := 100.0
	item.Contributors[1].Contribution = &pledge
	item.Expenses = append(item.Expenses, *NewExpense("Cab", CategoryTravel, 20, time.Now(), "b"))

	cp := item.Clone()
	cp.Contributors[1].Role = ContributorRoleViewer
	*cp.Contributors[1].Contribution = 5
	cp.Expenses[0].Amount = 99

	assert.Equal(t, ContributorRoleEditor, item.Contributors[1].Role)
	assert.Equal(t, 100.0, *item.Contributors[1].Contribution)
	assert.Equal(t, 20.0, item.Expenses[0].Amount)
}

func TestBudgetItem_Touch(t *testing.T) {
	legacy := &BudgetItem{Name: "Goa", Category: CategoryTour, Contributors: []Contributor{{UID: "a"}}}
	legacy.Touch()

	assert.Equal(t, LegacyItemID("Goa", CategoryTour), legacy.ID)
	assert.Equal(t, "a", legacy.OwnerUID)
	assert.Equal(t, int64(1), legacy.Version)
	assert.NotNil(t, legacy.UpdatedAt)
}

func TestBudgetDocument(t *testing.T) {
	doc := NewBudgetDocument("a")
	item := newShared()

	doc.Upsert(item, item.Key())
	doc.Upsert(item, item.Key())
	require.Len(t, doc.Items, 1)
	assert.NotSame(t, item, doc.Items[0])

	renamed := item.Clone()
	renamed.Name = "Goa 2025"
	doc.Upsert(renamed, item.Key())
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "Goa 2025", doc.Items[0].Name)

	assert.NotNil(t, doc.FindByID(item.ID))
	assert.True(t, doc.Remove(item.Key()))
	assert.False(t, doc.Remove(item.Key()))
	assert.Empty(t, doc.Items)
}

func TestBudgetDocument_LegacyMatch(t *testing.T) {
	legacy := &BudgetItem{Name: "Goa", Category: CategoryTour, Contributors: []Contributor{{UID: "a"}}}
	doc := &BudgetDocument{UserID: "b", Items: []*BudgetItem{legacy}}

	assert.Same(t, legacy, doc.FindByID(LegacyItemID("Goa", CategoryTour)))
	assert.Same(t, legacy, doc.Find(ItemKey{Name: "Goa", Category: CategoryTour}))
	assert.Nil(t, doc.Find(ItemKey{Name: "Goa", Category: CategoryFood}))

	canonical := legacy.Clone()
	prev := canonical.Key()
	canonical.Touch()
	canonical.Name = "Goa 2025"
	doc.Upsert(canonical, prev)

	require.Len(t, doc.Items, 1)
	assert.Equal(t, "Goa 2025", doc.Items[0].Name)
}

func TestBudgetDocument_RemoveByTrip(t *testing.T) {
	tripID := uuid.New()
	linked := newShared()
	linked.TripID = &tripID
	other := newShared()
	doc := &BudgetDocument{UserID: "a", Items: []*BudgetItem{linked, other, linked.Clone()}}

	assert.Equal(t, 2, doc.RemoveByTrip(tripID))
	require.Len(t, doc.Items, 1)
	assert.Equal(t, other.ID, doc.Items[0].ID)
	require.Len(t, doc.Removed, 1)
	assert.True(t, doc.Removed[0].Final)
	assert.False(t, doc.Accepts(linked))
}

func TestBudgetDocument_Tombstones(t *testing.T) {
	now := time.Now().UTC()
	item := newShared()
	item.Version = 3
	doc := NewBudgetDocument("a")
	doc.Upsert(item, item.Key())

	doc.Remove(item.Key())
	assert.True(t, doc.Bury(item.ID, 3, false, now))
	assert.False(t, doc.Bury(item.ID, 2, false, now))

	stale := item.Clone()
	assert.False(t, doc.Accepts(stale))
	newer := item.Clone()
	newer.Version = 4
	assert.True(t, doc.Accepts(newer))

	doc.Upsert(newer, newer.Key())
	assert.Nil(t, doc.Tombstone(item.ID))

	t.Run("final blocks every version", func(t *testing.T) {
		assert.True(t, doc.Bury(item.ID, 4, true, now))
		assert.False(t, doc.Bury(item.ID, 9, false, now))
		later := item.Clone()
		later.Version = 100
		assert.False(t, doc.Accepts(later))
	})

	t.Run("expired tombstones are dropped", func(t *testing.T) {
		other := newShared()
		doc.Bury(other.ID, 1, false, now.Add(TombstoneRetention+time.Hour))
		assert.Nil(t, doc.Tombstone(item.ID))
		assert.NotNil(t, doc.Tombstone(other.ID))
	})
}

func TestAssignLegacyExpenseIDs(t *testing.T) {
	item := &BudgetItem{Name: "Goa", Category: CategoryTour, Expenses: []Expense{{Name: "a"}, {Name: "b"}}}
	item.AssignLegacyExpenseIDs()
	again := &BudgetItem{Name: "Goa", Category: CategoryTour, Expenses: []Expense{{Name: "a"}, {Name: "b"}}}
	again.AssignLegacyExpenseIDs()

	assert.NotEqual(t, item.Expenses[0].ID, item.Expenses[1].ID)
	assert.Equal(t, item.Expenses[1].ID, again.Expenses[1].ID)
	assert.Equal(t, 1, item.FindExpense(item.Expenses[1].ID))
}
