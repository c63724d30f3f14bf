package budget

import (
	"context"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/domain/entity"
	"github.com/trip-planner/backend/internal/domain/ledger"
)

// ChangeContributorRoleInput represents the input for changing a contributor's role.
type ChangeContributorRoleInput struct {
	ActorID        string
	BudgetID       uuid.UUID
	ContributorUID string
	Role           entity.ContributorRole
}

// ChangeContributorRoleOutput represents the output of a role change.
type ChangeContributorRoleOutput struct {
	Budget BudgetView
}

// ChangeContributorRoleUseCase handles changing contributor roles.
type ChangeContributorRoleUseCase struct {
	engine *Engine
}

// NewChangeContributorRoleUseCase creates a new ChangeContributorRoleUseCase instance.
func NewChangeContributorRoleUseCase(engine *Engine) *ChangeContributorRoleUseCase {
	return &ChangeContributorRoleUseCase{engine: engine}
}

// Execute performs the role change. Only the admin may reassign roles, and
// the owner's own role is fixed.
func (uc *ChangeContributorRoleUseCase) Execute(ctx context.Context, input ChangeContributorRoleInput) (*ChangeContributorRoleOutput, error) {
	if err := input.Role.ValidateAssignable(); err != nil {
		return nil, err
	}

	item, err := uc.engine.Mutate(ctx, input.ActorID, input.BudgetID, ledger.ActionManageRoles, func(item *entity.BudgetItem) error {
		if input.ContributorUID == item.Owner() {
			return errCannotChangeOwner()
		}
		idx := item.FindContributor(input.ContributorUID)
		if idx < 0 {
			return errContributorNotFound(input.ContributorUID)
		}
		item.Contributors[idx].Role = input.Role
		return nil
	})
	if item == nil {
		return nil, err
	}
	return &ChangeContributorRoleOutput{Budget: NewBudgetView(item, input.ActorID)}, err
}
