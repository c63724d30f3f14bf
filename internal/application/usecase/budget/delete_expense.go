package budget

import (
	"context"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/domain/entity"
	"github.com/trip-planner/backend/internal/domain/ledger"
)

// DeleteExpenseInput represents the input for removing an expense.
type DeleteExpenseInput struct {
	ActorID   string
	BudgetID  uuid.UUID
	ExpenseID uuid.UUID
}

// DeleteExpenseOutput represents the output of removing an expense.
type DeleteExpenseOutput struct {
	Budget BudgetView
}

// DeleteExpenseUseCase removes one expense from a budget.
type DeleteExpenseUseCase struct {
	engine *Engine
}

// NewDeleteExpenseUseCase creates a new DeleteExpenseUseCase instance.
func NewDeleteExpenseUseCase(engine *Engine) *DeleteExpenseUseCase {
	return &DeleteExpenseUseCase{engine: engine}
}

// Execute performs the removal.
func (uc *DeleteExpenseUseCase) Execute(ctx context.Context, input DeleteExpenseInput) (*DeleteExpenseOutput, error) {
	item, err := uc.engine.Mutate(ctx, input.ActorID, input.BudgetID, ledger.ActionWriteExpense, func(item *entity.BudgetItem) error {
		idx := item.FindExpense(input.ExpenseID)
		if idx < 0 {
			return errExpenseNotFound()
		}
		item.Expenses = append(item.Expenses[:idx], item.Expenses[idx+1:]...)
		return nil
	})
	if item == nil {
		return nil, err
	}
	return &DeleteExpenseOutput{Budget: NewBudgetView(item, input.ActorID)}, err
}
