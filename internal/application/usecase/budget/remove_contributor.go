package budget

import (
	"context"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/domain/entity"
	"github.com/trip-planner/backend/internal/domain/ledger"
)

// RemoveContributorInput represents the input for removing a contributor.
type RemoveContributorInput struct {
	ActorID        string
	BudgetID       uuid.UUID
	ContributorUID string
}

// RemoveContributorOutput represents the output of removing a contributor.
type RemoveContributorOutput struct {
	Budget BudgetView
}

// RemoveContributorUseCase removes a contributor and their copy of the budget.
type RemoveContributorUseCase struct {
	engine *Engine
}

// NewRemoveContributorUseCase creates a new RemoveContributorUseCase instance.
func NewRemoveContributorUseCase(engine *Engine) *RemoveContributorUseCase {
	return &RemoveContributorUseCase{engine: engine}
}

// Execute performs the removal. The owner cannot be removed.
func (uc *RemoveContributorUseCase) Execute(ctx context.Context, input RemoveContributorInput) (*RemoveContributorOutput, error) {
	item, err := uc.engine.Mutate(ctx, input.ActorID, input.BudgetID, ledger.ActionManageBudget, func(item *entity.BudgetItem) error {
		if input.ContributorUID == item.Owner() {
			return errCannotChangeOwner()
		}
		idx := item.FindContributor(input.ContributorUID)
		if idx < 0 {
			return errContributorNotFound(input.ContributorUID)
		}
		item.Contributors = append(item.Contributors[:idx], item.Contributors[idx+1:]...)
		syncTripAmount(item)
		return nil
	})
	if item == nil {
		return nil, err
	}
	return &RemoveContributorOutput{Budget: NewBudgetView(item, input.ActorID)}, err
}
