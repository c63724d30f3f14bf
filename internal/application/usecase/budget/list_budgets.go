package budget

import (
	"context"

	"github.com/trip-planner/backend/internal/domain/entity"
)

// ListBudgetsInput represents the input for listing a user's budgets.
type ListBudgetsInput struct {
	UserID string
}

// ListBudgetsOutput represents the output of listing budgets.
type ListBudgetsOutput struct {
	Budgets []BudgetView
}

// ListBudgetsUseCase returns every budget in the user's document, newest first.
type ListBudgetsUseCase struct {
	engine *Engine
}

// NewListBudgetsUseCase creates a new ListBudgetsUseCase instance.
func NewListBudgetsUseCase(engine *Engine) *ListBudgetsUseCase {
	return &ListBudgetsUseCase{engine: engine}
}

// Execute performs the listing.
func (uc *ListBudgetsUseCase) Execute(ctx context.Context, input ListBudgetsInput) (*ListBudgetsOutput, error) {
	doc, err := uc.engine.Document(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	items := make([]*entity.BudgetItem, len(doc.Items))
	copy(items, doc.Items)
	sortByCreatedAt(items)

	views := make([]BudgetView, len(items))
	for i, item := range items {
		views[i] = NewBudgetView(item, input.UserID)
	}
	return &ListBudgetsOutput{Budgets: views}, nil
}
