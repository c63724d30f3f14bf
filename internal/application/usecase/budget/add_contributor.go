package budget

import (
	"context"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/application/adapter"
	"github.com/trip-planner/backend/internal/domain/entity"
	"github.com/trip-planner/backend/internal/domain/ledger"
)

// AddContributorInput represents the input for sharing a budget with another user.
type AddContributorInput struct {
	ActorID     string
	BudgetID    uuid.UUID
	Contributor ContributorInput
}

// AddContributorOutput represents the output of adding a contributor.
type AddContributorOutput struct {
	Budget      BudgetView
	Contributor entity.Contributor
}

// AddContributorUseCase adds a contributor by username. The new contributor
// receives a copy of the budget in their own document.
type AddContributorUseCase struct {
	engine   *Engine
	userRepo adapter.UserRepository
}

// NewAddContributorUseCase creates a new AddContributorUseCase instance.
func NewAddContributorUseCase(engine *Engine, userRepo adapter.UserRepository) *AddContributorUseCase {
	return &AddContributorUseCase{
		engine:   engine,
		userRepo: userRepo,
	}
}

// Execute performs the addition.
func (uc *AddContributorUseCase) Execute(ctx context.Context, input AddContributorInput) (*AddContributorOutput, error) {
	contributor, err := resolveContributor(ctx, uc.userRepo, input.Contributor)
	if err != nil {
		return nil, err
	}

	item, err := uc.engine.Mutate(ctx, input.ActorID, input.BudgetID, ledger.ActionManageBudget, func(item *entity.BudgetItem) error {
		item.Contributors = append(item.Contributors, contributor)
		syncTripAmount(item)
		return nil
	})
	if item == nil {
		return nil, err
	}
	return &AddContributorOutput{
		Budget:      NewBudgetView(item, input.ActorID),
		Contributor: contributor,
	}, err
}
