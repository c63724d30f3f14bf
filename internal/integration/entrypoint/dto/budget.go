package dto

import (
	"time"

	"github.com/trip-planner/backend/internal/application/usecase/budget"
	"github.com/trip-planner/backend/internal/domain/entity"
	"github.com/trip-planner/backend/internal/domain/ledger"
)

// ContributorRequest names a contributor by username.
type ContributorRequest struct {
	Username     string   `json:"username" binding:"required"`
	Role         string   `json:"role,omitempty" binding:"omitempty,oneof=admin editor viewer"`
	Contribution *float64 `json:"contribution,omitempty"`
}

// CreateBudgetRequest represents the request body for budget creation.
type CreateBudgetRequest struct {
	Name         string               `json:"name" binding:"required"`
	Category     string               `json:"category" binding:"required"`
	Amount       *float64             `json:"amount" binding:"required"`
	Contributors []ContributorRequest `json:"contributors,omitempty" binding:"omitempty,dive"`
}

// UpdateBudgetRequest represents the request body for budget update.
type UpdateBudgetRequest struct {
	Name     *string  `json:"name,omitempty"`
	Category *string  `json:"category,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
}

// CreateExpenseRequest represents the request body for adding an expense.
type CreateExpenseRequest struct {
	Name     string     `json:"name" binding:"required"`
	Amount   float64    `json:"amount" binding:"required"`
	Category string     `json:"category,omitempty"`
	SpentAt  *time.Time `json:"spent_at,omitempty"`
}

// UpdateExpenseRequest represents the request body for editing an expense.
type UpdateExpenseRequest struct {
	Name     *string    `json:"name,omitempty"`
	Amount   *float64   `json:"amount,omitempty"`
	Category *string    `json:"category,omitempty"`
	SpentAt  *time.Time `json:"spent_at,omitempty"`
}

// ChangeRoleRequest represents the request body for changing a contributor's role.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateContributionRequest represents the request body for editing a pledge.
type UpdateContributionRequest struct {
	Contribution *float64 `json:"contribution" binding:"required"`
}

// ReplicationWarning lists the contributors whose copy is stale. Their
// writes are queued for repair.
type ReplicationWarning struct {
	Error         string   `json:"error"`
	Code          string   `json:"code"`
	FailedUserIDs []string `json:"failed_user_ids"`
}

// ContributorResponse represents a contributor in API responses.
type ContributorResponse struct {
	UID          string   `json:"uid"`
	Username     string   `json:"username"`
	Role         string   `json:"role"`
	Contribution *float64 `json:"contribution,omitempty"`
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Amount    float64    `json:"amount"`
	Category  string     `json:"category"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	DateTime  *time.Time `json:"date_time,omitempty"`
	CreatedBy string     `json:"created_by,omitempty"`
}

// BudgetResponse represents a budget item as seen by the caller.
type BudgetResponse struct {
	ID                 string                `json:"id"`
	Name               string                `json:"name"`
	Category           string                `json:"category"`
	Amount             float64               `json:"amount"`
	Spent              float64               `json:"spent"`
	Balance            float64               `json:"balance"`
	OverBudget         bool                  `json:"over_budget"`
	Role               string                `json:"role"`
	OwnerUID           string                `json:"owner_uid"`
	TripID             *string               `json:"trip_id,omitempty"`
	Version            int64                 `json:"version"`
	Contributors       []ContributorResponse `json:"contributors"`
	Expenses           []ExpenseResponse     `json:"expenses"`
	CreatedAt          *time.Time            `json:"created_at,omitempty"`
	UpdatedAt          *time.Time            `json:"updated_at,omitempty"`
	ReplicationWarning *ReplicationWarning   `json:"replication_warning,omitempty"`
}

// BudgetListResponse represents the response for listing budgets.
type BudgetListResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

// ExpenseMutationResponse is returned when an expense is added or edited.
type ExpenseMutationResponse struct {
	Expense            ExpenseResponse     `json:"expense"`
	Budget             BudgetResponse      `json:"budget"`
	ReplicationWarning *ReplicationWarning `json:"replication_warning,omitempty"`
}

// DeleteResponse is returned by deletions that may only partly replicate.
type DeleteResponse struct {
	Deleted            bool                `json:"deleted"`
	RemovedBudgets     int                 `json:"removed_budgets,omitempty"`
	ReplicationWarning *ReplicationWarning `json:"replication_warning,omitempty"`
}

// ToContributorInputs converts request contributors to use case input.
func ToContributorInputs(reqs []ContributorRequest) []budget.ContributorInput {
	inputs := make([]budget.ContributorInput, len(reqs))
	for i, r := range reqs {
		inputs[i] = budget.ContributorInput{
			Username:     r.Username,
			Role:         entity.ContributorRole(r.Role),
			Contribution: r.Contribution,
		}
	}
	return inputs
}

// ToExpenseResponse converts a domain Expense to an ExpenseResponse DTO.
func ToExpenseResponse(e entity.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		Amount:    e.Amount,
		Category:  string(e.Category),
		Date:      e.Date,
		Time:      e.Time,
		DateTime:  e.DateTime,
		CreatedBy: e.CreatedBy,
	}
}

// ToBudgetResponse converts a BudgetView to a BudgetResponse DTO.
func ToBudgetResponse(view budget.BudgetView) BudgetResponse {
	item := view.Item
	response := BudgetResponse{
		ID:           item.Ref().String(),
		Name:         item.Name,
		Category:     string(item.Category),
		Amount:       item.Amount,
		Spent:        view.Spent,
		Balance:      view.Balance,
		OverBudget:   view.OverBudget,
		Role:         string(view.Role),
		OwnerUID:     item.Owner(),
		Version:      item.Version,
		Contributors: make([]ContributorResponse, len(item.Contributors)),
		Expenses:     make([]ExpenseResponse, len(item.Expenses)),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}

	if item.TripID != nil {
		tripID := item.TripID.String()
		response.TripID = &tripID
	}

	for i, c := range item.Contributors {
		response.Contributors[i] = ContributorResponse{
			UID:          c.UID,
			Username:     c.Username,
			Role:         string(ledger.ResolveRole(item, c.UID)),
			Contribution: c.Contribution,
		}
	}

	for i, e := range item.Expenses {
		response.Expenses[i] = ToExpenseResponse(e)
	}

	return response
}

// ToBudgetListResponse converts views to a BudgetListResponse DTO.
func ToBudgetListResponse(views []budget.BudgetView) BudgetListResponse {
	budgets := make([]BudgetResponse, len(views))
	for i, v := range views {
		budgets[i] = ToBudgetResponse(v)
	}
	return BudgetListResponse{Budgets: budgets}
}
