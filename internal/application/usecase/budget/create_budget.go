package budget

import (
	"context"
	"fmt"
	"strings"

	"github.com/trip-planner/backend/internal/application/adapter"
	"github.com/trip-planner/backend/internal/domain/entity"
)

// ContributorInput names a user to share a budget with.
type ContributorInput struct {
	Username     string
	Role         entity.ContributorRole
	Contribution *float64
}

// CreateBudgetInput represents the input for budget creation.
type CreateBudgetInput struct {
	ActorID      string
	Name         string
	Category     entity.BudgetCategory
	Amount       float64
	Contributors []ContributorInput
}

// CreateBudgetOutput represents the output of budget creation.
type CreateBudgetOutput struct {
	Budget BudgetView
}

// CreateBudgetUseCase handles budget creation logic.
type CreateBudgetUseCase struct {
	engine   *Engine
	userRepo adapter.UserRepository
}

// NewCreateBudgetUseCase creates a new CreateBudgetUseCase instance.
func NewCreateBudgetUseCase(engine *Engine, userRepo adapter.UserRepository) *CreateBudgetUseCase {
	return &CreateBudgetUseCase{
		engine:   engine,
		userRepo: userRepo,
	}
}

// Execute creates the budget and writes it into every contributor's document.
// On a partial fan-out both the output and the error are returned.
func (uc *CreateBudgetUseCase) Execute(ctx context.Context, input CreateBudgetInput) (*CreateBudgetOutput, error) {
	owner, err := uc.userRepo.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if owner == nil {
		return nil, errUserNotFound(input.ActorID)
	}

	others, err := ResolveContributors(ctx, uc.userRepo, input.Contributors)
	if err != nil {
		return nil, err
	}

	item := entity.NewBudgetItem(
		strings.TrimSpace(input.Name),
		input.Category,
		input.Amount,
		entity.Contributor{UID: owner.ID, Username: owner.Username},
		others,
	)

	created, err := uc.engine.Create(ctx, item)
	if created == nil {
		return nil, err
	}
	return &CreateBudgetOutput{Budget: NewBudgetView(created, input.ActorID)}, err
}

// ResolveContributors looks every username up in the user directory.
func ResolveContributors(ctx context.Context, userRepo adapter.UserRepository, inputs []ContributorInput) ([]entity.Contributor, error) {
	contributors := make([]entity.Contributor, 0, len(inputs))
	for _, in := range inputs {
		c, err := resolveContributor(ctx, userRepo, in)
		if err != nil {
			return nil, err
		}
		contributors = append(contributors, c)
	}
	return contributors, nil
}

func resolveContributor(ctx context.Context, userRepo adapter.UserRepository, in ContributorInput) (entity.Contributor, error) {
	role := in.Role
	if role == entity.ContributorRoleNone {
		role = entity.ContributorRoleEditor
	}
	if err := role.ValidateAssignable(); err != nil {
		return entity.Contributor{}, err
	}

	user, err := userRepo.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return entity.Contributor{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return entity.Contributor{}, errUserNotFound(in.Username)
	}

	return entity.Contributor{
		UID:          user.ID,
		Username:     user.Username,
		Role:         role,
		Contribution: in.Contribution,
	}, nil
}
