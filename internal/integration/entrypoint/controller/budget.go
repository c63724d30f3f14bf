// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trip-planner/backend/internal/application/usecase/budget"
	"github.com/trip-planner/backend/internal/domain/entity"
	domainerror "github.com/trip-planner/backend/internal/domain/error"
	"github.com/trip-planner/backend/internal/integration/entrypoint/dto"
)

// BudgetUseCases groups the use cases served by the budget controller.
type BudgetUseCases struct {
	List               *budget.ListBudgetsUseCase
	Get                *budget.GetBudgetUseCase
	Create             *budget.CreateBudgetUseCase
	Update             *budget.UpdateBudgetUseCase
	Delete             *budget.DeleteBudgetUseCase
	AddExpense         *budget.AddExpenseUseCase
	UpdateExpense      *budget.UpdateExpenseUseCase
	DeleteExpense      *budget.DeleteExpenseUseCase
	AddContributor     *budget.AddContributorUseCase
	RemoveContributor  *budget.RemoveContributorUseCase
	ChangeRole         *budget.ChangeContributorRoleUseCase
	UpdateContribution *budget.UpdateContributionUseCase
}

// BudgetController handles budget endpoints.
type BudgetController struct {
	useCases BudgetUseCases
}

// NewBudgetController creates a new budget controller instance.
func NewBudgetController(useCases BudgetUseCases) *BudgetController {
	return &BudgetController{useCases: useCases}
}

// List handles GET /budgets requests.
func (c *BudgetController) List(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}

	output, err := c.useCases.List.Execute(ctx.Request.Context(), budget.ListBudgetsInput{UserID: userID})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetListResponse(output.Budgets))
}

// Get handles GET /budgets/:id requests.
func (c *BudgetController) Get(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathUUID(ctx, "id", "budget")
	if !ok {
		return
	}

	output, err := c.useCases.Get.Execute(ctx.Request.Context(), budget.GetBudgetInput{
		UserID:   userID,
		BudgetID: budgetID,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(output.Budget))
}

// Create handles POST /budgets requests.
func (c *BudgetController) Create(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateBudgetRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingBudgetFields)) {
		return
	}

	output, err := c.useCases.Create.Execute(ctx.Request.Context(), budget.CreateBudgetInput{
		ActorID:      userID,
		Name:         req.Name,
		Category:     entity.BudgetCategory(req.Category),
		Amount:       *req.Amount,
		Contributors: dto.ToContributorInputs(req.Contributors),
	})
	if output == nil {
		handleLedgerError(ctx, err)
		return
	}

	c.respondBudget(ctx, http.StatusCreated, output.Budget, err)
}

// Update handles PATCH /budgets/:id requests.
func (c *BudgetController) Update(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathUUID(ctx, "id", "budget")
	if !ok {
		return
	}

	var req dto.UpdateBudgetRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingBudgetFields)) {
		return
	}

	input := budget.UpdateBudgetInput{
		ActorID:  userID,
		BudgetID: budgetID,
		Name:     req.Name,
		Amount:   req.Amount,
	}
	if req.Category != nil {
		category := entity.BudgetCategory(*req.Category)
		input.Category = &category
	}

	output, err := c.useCases.Update.Execute(ctx.Request.Context(), input)
	if output == nil {
		handleLedgerError(ctx, err)
		return
	}

	c.respondBudget(ctx, http.StatusOK, output.Budget, err)
}

// Delete handles DELETE /budgets/:id requests.
func (c *BudgetController) Delete(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathUUID(ctx, "id", "budget")
	if !ok {
		return
	}

	output, err := c.useCases.Delete.Execute(ctx.Request.Context(), budget.DeleteBudgetInput{
		ActorID:  userID,
		BudgetID: budgetID,
	})
	if output == nil {
		handleLedgerError(ctx, err)
		return
	}

	warning := replicationWarning(err)
	if warning == nil {
		ctx.Status(http.StatusNoContent)
		return
	}
	ctx.JSON(http.StatusMultiStatus, dto.DeleteResponse{
		Deleted:            output.Deleted,
		ReplicationWarning: warning,
	})
}

// AddExpense handles POST /budgets/:id/expenses requests.
func (c *BudgetController) AddExpense(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathUUID(ctx, "id", "budget")
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeInvalidExpense)) {
		return
	}

	output, err := c.useCases.AddExpense.Execute(ctx.Request.Context(), budget.AddExpenseInput{
		ActorID:  userID,
		BudgetID: budgetID,
		Name:     req.Name,
		Category: entity.BudgetCategory(req.Category),
		Amount:   req.Amount,
		SpentAt:  req.SpentAt,
	})
	if output == nil {
		handleLedgerError(ctx, err)
		return
	}

	c.respondExpense(ctx, http.StatusCreated, output.Budget, output.Expense, err)
}

// UpdateExpense handles PATCH /budgets/:id/expenses/:expense_id requests.
func (c *BudgetController) UpdateExpense(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathUUID(ctx, "id", "budget")
	if !ok {
		return
	}
	expenseID, ok := pathUUID(ctx, "expense_id", "expense")
	if !ok {
		return
	}

	var req dto.UpdateExpenseRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeInvalidExpense)) {
		return
	}

	input := budget.UpdateExpenseInput{
		ActorID:   userID,
		BudgetID:  budgetID,
		ExpenseID: expenseID,
		Name:      req.Name,
		Amount:    req.Amount,
		SpentAt:   req.SpentAt,
	}
	if req.Category != nil {
		category := entity.BudgetCategory(*req.Category)
		input.Category = &category
	}

	output, err := c.useCases.UpdateExpense.Execute(ctx.Request.Context(), input)
	if output == nil {
		handleLedgerError(ctx, err)
		return
	}

	c.respondExpense(ctx, http.StatusOK, output.Budget, output.Expense, err)
}

// DeleteExpense handles DELETE /budgets/:id/expenses/:expense_id requests.
func (c *BudgetController) DeleteExpense(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathUUID(ctx, "id", "budget")
	if !ok {
		return
	}
	expenseID, ok := pathUUID(ctx, "expense_id", "expense")
	if !ok {
		return
	}

	output, err := c.useCases.DeleteExpense.Execute(ctx.Request.Context(), budget.DeleteExpenseInput{
		ActorID:   userID,
		BudgetID:  budgetID,
		ExpenseID: expenseID,
	})
	if output == nil {
		handleLedgerError(ctx, err)
		return
	}

	c.respondBudget(ctx, http.StatusOK, output.Budget, err)
}

// AddContributor handles POST /budgets/:id/contributors requests.
func (c *BudgetController) AddContributor(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathUUID(ctx, "id", "budget")
	if !ok {
		return
	}

	var req dto.ContributorRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeInvalidContributors)) {
		return
	}

	inputs := dto.ToContributorInputs([]dto.ContributorRequest{req})
	output, err := c.useCases.AddContributor.Execute(ctx.Request.Context(), budget.AddContributorInput{
		ActorID:     userID,
		BudgetID:    budgetID,
		Contributor: inputs[0],
	})
	if output == nil {
		handleLedgerError(ctx, err)
		return
	}

	c.respondBudget(ctx, http.StatusCreated, output.Budget, err)
}

// RemoveContributor handles DELETE /budgets/:id/contributors/:uid requests.
func (c *BudgetController) RemoveContributor(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathUUID(ctx, "id", "budget")
	if !ok {
		return
	}

	output, err := c.useCases.RemoveContributor.Execute(ctx.Request.Context(), budget.RemoveContributorInput{
		ActorID:        userID,
		BudgetID:       budgetID,
		ContributorUID: ctx.Param("uid"),
	})
	if output == nil {
		handleLedgerError(ctx, err)
		return
	}

	c.respondBudget(ctx, http.StatusOK, output.Budget, err)
}

// ChangeRole handles PUT /budgets/:id/contributors/:uid/role requests.
func (c *BudgetController) ChangeRole(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathUUID(ctx, "id", "budget")
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeInvalidRole)) {
		return
	}

	output, err := c.useCases.ChangeRole.Execute(ctx.Request.Context(), budget.ChangeContributorRoleInput{
		ActorID:        userID,
		BudgetID:       budgetID,
		ContributorUID: ctx.Param("uid"),
		Role:           entity.ContributorRole(req.Role),
	})
	if output == nil {
		handleLedgerError(ctx, err)
		return
	}

	c.respondBudget(ctx, http.StatusOK, output.Budget, err)
}

// UpdateContribution handles PUT /budgets/:id/contributors/:uid/contribution requests.
func (c *BudgetController) UpdateContribution(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathUUID(ctx, "id", "budget")
	if !ok {
		return
	}

	var req dto.UpdateContributionRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeInvalidAmount)) {
		return
	}

	output, err := c.useCases.UpdateContribution.Execute(ctx.Request.Context(), budget.UpdateContributionInput{
		ActorID:        userID,
		BudgetID:       budgetID,
		ContributorUID: ctx.Param("uid"),
		Contribution:   *req.Contribution,
	})
	if output == nil {
		handleLedgerError(ctx, err)
		return
	}

	c.respondBudget(ctx, http.StatusOK, output.Budget, err)
}

func (c *BudgetController) respondBudget(ctx *gin.Context, status int, view budget.BudgetView, err error) {
	response := dto.ToBudgetResponse(view)
	response.ReplicationWarning = replicationWarning(err)
	ctx.JSON(successStatus(status, response.ReplicationWarning), response)
}

func (c *BudgetController) respondExpense(ctx *gin.Context, status int, view budget.BudgetView, expense entity.Expense, err error) {
	warning := replicationWarning(err)
	ctx.JSON(successStatus(status, warning), dto.ExpenseMutationResponse{
		Expense:            dto.ToExpenseResponse(expense),
		Budget:             dto.ToBudgetResponse(view),
		ReplicationWarning: warning,
	})
}
