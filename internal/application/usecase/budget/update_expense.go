package budget

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/domain/entity"
	"github.com/trip-planner/backend/internal/domain/ledger"
)

// UpdateExpenseInput represents the input for editing an expense. Nil fields are left unchanged.
type UpdateExpenseInput struct {
	ActorID   string
	BudgetID  uuid.UUID
	ExpenseID uuid.UUID
	Name      *string
	Category  *entity.BudgetCategory
	Amount    *float64
	SpentAt   *time.Time
}

// UpdateExpenseOutput represents the output of an expense edit.
type UpdateExpenseOutput struct {
	Budget  BudgetView
	Expense entity.Expense
}

// UpdateExpenseUseCase edits one expense of a budget.
type UpdateExpenseUseCase struct {
	engine *Engine
}

// NewUpdateExpenseUseCase creates a new UpdateExpenseUseCase instance.
func NewUpdateExpenseUseCase(engine *Engine) *UpdateExpenseUseCase {
	return &UpdateExpenseUseCase{engine: engine}
}

// Execute performs the edit.
func (uc *UpdateExpenseUseCase) Execute(ctx context.Context, input UpdateExpenseInput) (*UpdateExpenseOutput, error) {
	var updated entity.Expense
	item, err := uc.engine.Mutate(ctx, input.ActorID, input.BudgetID, ledger.ActionWriteExpense, func(item *entity.BudgetItem) error {
		idx := item.FindExpense(input.ExpenseID)
		if idx < 0 {
			return errExpenseNotFound()
		}

		expense := item.Expenses[idx]
		if input.Name != nil {
			expense.Name = strings.TrimSpace(*input.Name)
		}
		if input.Category != nil {
			expense.Category = *input.Category
		}
		if input.Amount != nil {
			expense.Amount = *input.Amount
		}
		if input.SpentAt != nil {
			at := input.SpentAt.UTC()
			expense.Date = at.Format("2006-01-02")
			expense.Time = at.Format("15:04")
			expense.DateTime = &at
		}
		if err := expense.Validate(); err != nil {
			return err
		}

		item.Expenses[idx] = expense
		updated = expense
		return nil
	})
	if item == nil {
		return nil, err
	}
	return &UpdateExpenseOutput{
		Budget:  NewBudgetView(item, input.ActorID),
		Expense: updated,
	}, err
}
