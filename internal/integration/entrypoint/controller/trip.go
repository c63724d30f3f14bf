package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trip-planner/backend/internal/application/usecase/trip"
	domainerror "github.com/trip-planner/backend/internal/domain/error"
	"github.com/trip-planner/backend/internal/integration/entrypoint/dto"
)

// TripController handles trip endpoints.
type TripController struct {
	createUseCase *trip.CreateTripUseCase
	getUseCase    *trip.GetTripUseCase
	deleteUseCase *trip.DeleteTripUseCase
}

// NewTripController creates a new trip controller instance.
func NewTripController(
	createUseCase *trip.CreateTripUseCase,
	getUseCase *trip.GetTripUseCase,
	deleteUseCase *trip.DeleteTripUseCase,
) *TripController {
	return &TripController{
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// Create handles POST /trips requests.
func (c *TripController) Create(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateTripRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingTripFields)) {
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), trip.CreateTripInput{
		ActorID:           userID,
		Name:              req.Name,
		OwnerContribution: req.OwnerContribution,
		Members:           dto.ToContributorInputs(req.Members),
	})
	if output == nil {
		handleLedgerError(ctx, err)
		return
	}

	warning := replicationWarning(err)
	ctx.JSON(successStatus(http.StatusCreated, warning), dto.CreateTripResponse{
		Trip:               dto.ToTripResponse(output.Trip),
		Budget:             dto.ToBudgetResponse(output.Budget),
		ReplicationWarning: warning,
	})
}

// Get handles GET /trips/:id requests.
func (c *TripController) Get(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}
	tripID, ok := pathUUID(ctx, "id", "trip")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), trip.GetTripInput{
		UserID: userID,
		TripID: tripID,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTripResponse(output.Trip))
}

// Delete handles DELETE /trips/:id requests.
func (c *TripController) Delete(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}
	tripID, ok := pathUUID(ctx, "id", "trip")
	if !ok {
		return
	}

	output, err := c.deleteUseCase.Execute(ctx.Request.Context(), trip.DeleteTripInput{
		ActorID: userID,
		TripID:  tripID,
	})
	if output == nil {
		handleLedgerError(ctx, err)
		return
	}

	warning := replicationWarning(err)
	ctx.JSON(successStatus(http.StatusOK, warning), dto.DeleteResponse{
		Deleted:            true,
		RemovedBudgets:     output.RemovedBudgets,
		ReplicationWarning: warning,
	})
}
