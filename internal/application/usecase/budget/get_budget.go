package budget

import (
	"context"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/domain/ledger"
)

// GetBudgetInput represents the input for reading one budget.
type GetBudgetInput struct {
	UserID   string
	BudgetID uuid.UUID
}

// GetBudgetOutput represents the output of reading one budget.
type GetBudgetOutput struct {
	Budget BudgetView
}

// GetBudgetUseCase returns one budget from the user's document.
type GetBudgetUseCase struct {
	engine *Engine
}

// NewGetBudgetUseCase creates a new GetBudgetUseCase instance.
func NewGetBudgetUseCase(engine *Engine) *GetBudgetUseCase {
	return &GetBudgetUseCase{engine: engine}
}

// Execute performs the read.
func (uc *GetBudgetUseCase) Execute(ctx context.Context, input GetBudgetInput) (*GetBudgetOutput, error) {
	item, err := uc.engine.find(ctx, input.UserID, input.BudgetID)
	if err != nil {
		return nil, err
	}
	if err := authorize(item, input.UserID, ledger.ActionRead); err != nil {
		return nil, err
	}
	return &GetBudgetOutput{Budget: NewBudgetView(item, input.UserID)}, nil
}
