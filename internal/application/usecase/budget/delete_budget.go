package budget

import (
	"context"

	"github.com/google/uuid"
)

// DeleteBudgetInput represents the input for budget deletion.
type DeleteBudgetInput struct {
	ActorID  string
	BudgetID uuid.UUID
}

// DeleteBudgetOutput represents the output of budget deletion.
type DeleteBudgetOutput struct {
	// Deleted is false when the actor held no such budget.
	Deleted bool
}

// DeleteBudgetUseCase removes a budget from every contributor's document.
type DeleteBudgetUseCase struct {
	engine *Engine
}

// NewDeleteBudgetUseCase creates a new DeleteBudgetUseCase instance.
func NewDeleteBudgetUseCase(engine *Engine) *DeleteBudgetUseCase {
	return &DeleteBudgetUseCase{engine: engine}
}

// Execute performs the deletion.
func (uc *DeleteBudgetUseCase) Execute(ctx context.Context, input DeleteBudgetInput) (*DeleteBudgetOutput, error) {
	deleted, err := uc.engine.Delete(ctx, input.ActorID, input.BudgetID)
	if err != nil && !deleted {
		return nil, err
	}
	return &DeleteBudgetOutput{Deleted: deleted}, err
}
