package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trip-planner/backend/internal/domain/entity"
)

func sharedItem() *entity.BudgetItem {
	return &entity.BudgetItem{
		Contributors: []entity.Contributor{
			{UID: "owner", Role: entity.ContributorRoleViewer},
			{UID: "editor", Role: entity.ContributorRoleEditor},
			{UID: "viewer", Role: entity.ContributorRoleViewer},
			{UID: "unset"},
			{UID: "legacy-admin", Role: entity.ContributorRoleAdmin},
		},
	}
}

func TestResolveRole(t *testing.T) {
	item := sharedItem()

	assert.Equal(t, entity.ContributorRoleAdmin, ResolveRole(item, "owner"), "owner is admin whatever is stored")
	assert.Equal(t, entity.ContributorRoleEditor, ResolveRole(item, "editor"))
	assert.Equal(t, entity.ContributorRoleViewer, ResolveRole(item, "viewer"))
	assert.Equal(t, entity.ContributorRoleEditor, ResolveRole(item, "unset"))
	assert.Equal(t, entity.ContributorRoleAdmin, ResolveRole(item, "legacy-admin"))
	assert.Equal(t, entity.ContributorRoleNone, ResolveRole(item, "stranger"))
	assert.Equal(t, entity.ContributorRoleNone, ResolveRole(nil, "owner"))

	item.OwnerUID = "owner"
	assert.Equal(t, entity.ContributorRoleAdmin, ResolveRole(item, "owner"))
}

func TestCan(t *testing.T) {
	tests := []struct {
		role    entity.ContributorRole
		allowed []Action
		denied  []Action
	}{
		{entity.ContributorRoleAdmin, []Action{ActionRead, ActionWriteExpense, ActionManageRoles, ActionManageBudget, ActionDeleteBudget}, nil},
		{entity.ContributorRoleEditor, []Action{ActionRead, ActionWriteExpense}, []Action{ActionManageRoles, ActionManageBudget, ActionDeleteBudget}},
		{entity.ContributorRoleViewer, []Action{ActionRead}, []Action{ActionWriteExpense, ActionManageRoles, ActionManageBudget, ActionDeleteBudget}},
		{entity.ContributorRoleNone, nil, []Action{ActionRead, ActionWriteExpense}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			for _, a := range tt.allowed {
				assert.True(t, Can(tt.role, a), a)
			}
			for _, a := range tt.denied {
				assert.False(t, Can(tt.role, a), a)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	item := sharedItem()

	role, ok := Authorize(item, "viewer", ActionWriteExpense)
	assert.Equal(t, entity.ContributorRoleViewer, role)
	assert.False(t, ok)

	role, ok = Authorize(item, "owner", ActionDeleteBudget)
	assert.Equal(t, entity.ContributorRoleAdmin, role)
	assert.True(t, ok)
}
