package ledger

import (
	"github.com/trip-planner/backend/internal/domain/entity"
)

// Action is an operation a contributor may attempt on a budget item.
type Action string

const (
	ActionRead         Action = "read"
	ActionWriteExpense Action = "write_expense"
	ActionManageRoles  Action = "manage_roles"
	ActionManageBudget Action = "manage_budget"
	ActionDeleteBudget Action = "delete_budget"
)

// ResolveRole returns the effective role of uid on item.
// The owner (contributors[0]) is always admin whatever role is stored for it,
// other contributors keep their stored role (editor when unset), and
// non-contributors get ContributorRoleNone.
func ResolveRole(item *entity.BudgetItem, uid string) entity.ContributorRole {
	if item == nil || uid == "" {
		return entity.ContributorRoleNone
	}
	if uid == item.Owner() {
		return entity.ContributorRoleAdmin
	}

	idx := item.FindContributor(uid)
	if idx < 0 {
		return entity.ContributorRoleNone
	}

	switch role := item.Contributors[idx].Role; role {
	case entity.ContributorRoleAdmin, entity.ContributorRoleEditor, entity.ContributorRoleViewer:
		return role
	default:
		return entity.ContributorRoleEditor
	}
}

// Can reports whether role permits action.
func Can(role entity.ContributorRole, action Action) bool {
	switch role {
	case entity.ContributorRoleAdmin:
		return true
	case entity.ContributorRoleEditor:
		return action == ActionRead || action == ActionWriteExpense
	case entity.ContributorRoleViewer:
		return action == ActionRead
	default:
		return false
	}
}

// Authorize resolves uid's role on item and checks it against action.
func Authorize(item *entity.BudgetItem, uid string, action Action) (entity.ContributorRole, bool) {
	role := ResolveRole(item, uid)
	return role, Can(role, action)
}
