package budget

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/domain/entity"
	"github.com/trip-planner/backend/internal/domain/ledger"
)

// AddExpenseInput represents the input for recording an expense.
type AddExpenseInput struct {
	ActorID  string
	BudgetID uuid.UUID
	Name     string
	// Category defaults to the budget's category when empty.
	Category entity.BudgetCategory
	Amount   float64
	// SpentAt defaults to now.
	SpentAt *time.Time
}

// AddExpenseOutput represents the output of recording an expense.
type AddExpenseOutput struct {
	Budget  BudgetView
	Expense entity.Expense
}

// AddExpenseUseCase appends an expense and fans it out to every contributor.
type AddExpenseUseCase struct {
	engine *Engine
}

// NewAddExpenseUseCase creates a new AddExpenseUseCase instance.
func NewAddExpenseUseCase(engine *Engine) *AddExpenseUseCase {
	return &AddExpenseUseCase{engine: engine}
}

// Execute records the expense. Re-issuing the same request appends a second expense.
func (uc *AddExpenseUseCase) Execute(ctx context.Context, input AddExpenseInput) (*AddExpenseOutput, error) {
	at := time.Now()
	if input.SpentAt != nil {
		at = *input.SpentAt
	}

	var expense *entity.Expense
	item, err := uc.engine.Mutate(ctx, input.ActorID, input.BudgetID, ledger.ActionWriteExpense, func(item *entity.BudgetItem) error {
		category := input.Category
		if category == "" {
			category = item.Category
		}
		expense = entity.NewExpense(strings.TrimSpace(input.Name), category, input.Amount, at, input.ActorID)
		if err := expense.Validate(); err != nil {
			return err
		}
		item.Expenses = append(item.Expenses, *expense)
		return nil
	})
	if item == nil {
		return nil, err
	}
	return &AddExpenseOutput{
		Budget:  NewBudgetView(item, input.ActorID),
		Expense: *expense,
	}, err
}
