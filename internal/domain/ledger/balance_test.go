package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trip-planner/backend/internal/domain/entity"
)

func itemWith(amount float64, expenses ...float64) *entity.BudgetItem {
	item := &entity.BudgetItem{Amount: amount}
	for _, e := range expenses {
		item.Expenses = append(item.Expenses, entity.Expense{Amount: e})
	}
	return item
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name    string
		item    *entity.BudgetItem
		balance float64
		spent   float64
		over    bool
	}{
		{"nil expenses", &entity.BudgetItem{Amount: 500}, 500, 0, false},
		{"empty expenses", &entity.BudgetItem{Amount: 500, Expenses: []entity.Expense{}}, 500, 0, false},
		{"partly spent", itemWith(6000, 1500), 4500, 1500, false},
		{"exactly spent", itemWith(100, 60, 40), 0, 100, false},
		{"over budget", itemWith(100, 80, 40), -20, 120, true},
		{"no float drift", itemWith(0.3, 0.1, 0.2), 0, 0.3, false},
		{"nil item", nil, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.balance, Balance(tt.item))
			assert.Equal(t, tt.spent, Spent(tt.item))
			assert.Equal(t, tt.over, IsOverBudget(tt.item))
		})
	}
}

func TestOverspendPolicy_Allows(t *testing.T) {
	t.Run("warn allows anything", func(t *testing.T) {
		assert.True(t, OverspendWarn.Allows(itemWith(100), itemWith(100, 500)))
	})

	t.Run("reject blocks going negative", func(t *testing.T) {
		assert.False(t, OverspendReject.Allows(itemWith(100, 50), itemWith(100, 50, 60)))
		assert.False(t, OverspendReject.Allows(nil, itemWith(100, 150)))
	})

	t.Run("reject allows shrinking an existing overspend", func(t *testing.T) {
		assert.True(t, OverspendReject.Allows(itemWith(100, 80, 40), itemWith(100, 80, 30)))
	})

	t.Run("parse", func(t *testing.T) {
		assert.Equal(t, OverspendReject, ParseOverspendPolicy("reject"))
		assert.Equal(t, OverspendWarn, ParseOverspendPolicy("warn"))
		assert.Equal(t, OverspendWarn, ParseOverspendPolicy(""))
	})
}
