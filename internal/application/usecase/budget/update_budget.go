package budget

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/domain/entity"
	"github.com/trip-planner/backend/internal/domain/ledger"
)

// UpdateBudgetInput represents the input for editing a budget. Nil fields are left unchanged.
type UpdateBudgetInput struct {
	ActorID  string
	BudgetID uuid.UUID
	Name     *string
	Category *entity.BudgetCategory
	Amount   *float64
}

// UpdateBudgetOutput represents the output of a budget edit.
type UpdateBudgetOutput struct {
	Budget BudgetView
}

// UpdateBudgetUseCase handles editing a budget's name, category and amount.
type UpdateBudgetUseCase struct {
	engine *Engine
}

// NewUpdateBudgetUseCase creates a new UpdateBudgetUseCase instance.
func NewUpdateBudgetUseCase(engine *Engine) *UpdateBudgetUseCase {
	return &UpdateBudgetUseCase{engine: engine}
}

// Execute performs the edit. Only the budget's admin may change these fields.
func (uc *UpdateBudgetUseCase) Execute(ctx context.Context, input UpdateBudgetInput) (*UpdateBudgetOutput, error) {
	item, err := uc.engine.Mutate(ctx, input.ActorID, input.BudgetID, ledger.ActionManageBudget, func(item *entity.BudgetItem) error {
		if input.Name != nil {
			item.Name = strings.TrimSpace(*input.Name)
		}
		if input.Category != nil {
			item.Category = *input.Category
		}
		if input.Amount != nil {
			item.Amount = *input.Amount
		}
		return nil
	})
	if item == nil {
		return nil, err
	}
	return &UpdateBudgetOutput{Budget: NewBudgetView(item, input.ActorID)}, err
}
