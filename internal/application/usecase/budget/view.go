package budget

import (
	"sort"

	"github.com/trip-planner/backend/internal/domain/entity"
	"github.com/trip-planner/backend/internal/domain/ledger"
)

// BudgetView is a budget item as seen by one user.
type BudgetView struct {
	Item       *entity.BudgetItem
	Role       entity.ContributorRole
	Spent      float64
	Balance    float64
	OverBudget bool
}

// NewBudgetView computes the read model of item for uid.
func NewBudgetView(item *entity.BudgetItem, uid string) BudgetView {
	return BudgetView{
		Item:       item,
		Role:       ledger.ResolveRole(item, uid),
		Spent:      ledger.Spent(item),
		Balance:    ledger.Balance(item),
		OverBudget: ledger.IsOverBudget(item),
	}
}

// sortByCreatedAt orders items newest first. Items without a timestamp go last.
func sortByCreatedAt(items []*entity.BudgetItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].CreatedAt, items[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}

// syncTripAmount keeps a trip-linked item's amount equal to its pledged contributions.
func syncTripAmount(item *entity.BudgetItem) {
	if item.TripID != nil {
		item.Amount = item.TotalContributions()
	}
}
