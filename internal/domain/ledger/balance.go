// Package ledger holds the pure rules of the shared budget ledger: balance
// arithmetic and contributor access control.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/trip-planner/backend/internal/domain/entity"
)

// OverspendPolicy decides what happens when expenses exceed a budget's amount.
type OverspendPolicy string

const (
	// OverspendWarn accepts the write and flags the item as over budget.
	OverspendWarn OverspendPolicy = "warn"
	// OverspendReject refuses writes that push a balance below zero.
	OverspendReject OverspendPolicy = "reject"
)

// ParseOverspendPolicy returns the policy for s, defaulting to OverspendWarn.
func ParseOverspendPolicy(s string) OverspendPolicy {
	if OverspendPolicy(s) == OverspendReject {
		return OverspendReject
	}
	return OverspendWarn
}

// Spent returns the sum of all expense amounts. A nil item or nil expense list spends nothing.
func Spent(item *entity.BudgetItem) float64 {
	return spent(item).InexactFloat64()
}

// Balance returns item.Amount minus everything spent. Negative means over budget.
func Balance(item *entity.BudgetItem) float64 {
	if item == nil {
		return 0
	}
	return decimal.NewFromFloat(item.Amount).Sub(spent(item)).InexactFloat64()
}

// IsOverBudget reports whether the expenses exceed the budgeted amount.
func IsOverBudget(item *entity.BudgetItem) bool {
	return Balance(item) < 0
}

// Allows reports whether moving from before to after is acceptable under the policy.
// Under OverspendReject a write may not lower a balance that ends up negative, which
// still lets callers delete or shrink expenses on an item that is already over budget.
func (p OverspendPolicy) Allows(before, after *entity.BudgetItem) bool {
	if p != OverspendReject {
		return true
	}
	next := Balance(after)
	if next >= 0 {
		return true
	}
	if before == nil {
		return false
	}
	return next >= Balance(before)
}

func spent(item *entity.BudgetItem) decimal.Decimal {
	total := decimal.Zero
	if item == nil {
		return total
	}
	for _, e := range item.Expenses {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	return total
}
