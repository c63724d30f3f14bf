package budget

import (
	"context"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/domain/entity"
	"github.com/trip-planner/backend/internal/domain/ledger"
)

// UpdateContributionInput represents the input for editing a contributor's pledge.
type UpdateContributionInput struct {
	ActorID        string
	BudgetID       uuid.UUID
	ContributorUID string
	Contribution   float64
}

// UpdateContributionOutput represents the output of a contribution edit.
type UpdateContributionOutput struct {
	Budget BudgetView
}

// UpdateContributionUseCase edits the amount a contributor pledged.
// Trip-linked budgets re-derive their amount from the pledges.
type UpdateContributionUseCase struct {
	engine *Engine
}

// NewUpdateContributionUseCase creates a new UpdateContributionUseCase instance.
func NewUpdateContributionUseCase(engine *Engine) *UpdateContributionUseCase {
	return &UpdateContributionUseCase{engine: engine}
}

// Execute performs the edit.
func (uc *UpdateContributionUseCase) Execute(ctx context.Context, input UpdateContributionInput) (*UpdateContributionOutput, error) {
	if err := entity.ValidateAmount(input.Contribution); err != nil {
		return nil, err
	}

	item, err := uc.engine.Mutate(ctx, input.ActorID, input.BudgetID, ledger.ActionManageBudget, func(item *entity.BudgetItem) error {
		idx := item.FindContributor(input.ContributorUID)
		if idx < 0 {
			return errContributorNotFound(input.ContributorUID)
		}
		amount := input.Contribution
		item.Contributors[idx].Contribution = &amount
		syncTripAmount(item)
		return nil
	})
	if item == nil {
		return nil, err
	}
	return &UpdateContributionOutput{Budget: NewBudgetView(item, input.ActorID)}, err
}
