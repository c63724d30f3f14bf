package trip

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/application/adapter"
	"github.com/trip-planner/backend/internal/application/usecase/budget"
	domainerror "github.com/trip-planner/backend/internal/domain/error"
)

// DeleteTripInput represents the input for trip deletion.
type DeleteTripInput struct {
	ActorID string
	TripID  uuid.UUID
}

// DeleteTripOutput represents the output of trip deletion.
type DeleteTripOutput struct {
	// RemovedBudgets counts the budget copies removed across all documents.
	RemovedBudgets int
}

// DeleteTripUseCase deletes a trip and cascades into every user's budgets.
type DeleteTripUseCase struct {
	tripRepo adapter.TripRepository
	engine   *budget.Engine
}

// NewDeleteTripUseCase creates a new DeleteTripUseCase instance.
func NewDeleteTripUseCase(tripRepo adapter.TripRepository, engine *budget.Engine) *DeleteTripUseCase {
	return &DeleteTripUseCase{
		tripRepo: tripRepo,
		engine:   engine,
	}
}

// Execute performs the deletion. Every document is scanned, not only the
// members', since contributors may have been added after the trip was created.
func (uc *DeleteTripUseCase) Execute(ctx context.Context, input DeleteTripInput) (*DeleteTripOutput, error) {
	trip, err := uc.tripRepo.FindByID(ctx, input.TripID)
	if err != nil {
		return nil, fmt.Errorf("failed to find trip: %w", err)
	}
	if trip == nil {
		return nil, domainerror.NewTripError(
			domainerror.ErrCodeTripNotFound,
			"trip not found",
			domainerror.ErrTripNotFound,
		)
	}
	if trip.OwnerUID != input.ActorID {
		return nil, domainerror.NewTripError(
			domainerror.ErrCodeNotTripOwner,
			"only the trip owner can delete this trip",
			domainerror.ErrNotTripOwner,
		)
	}

	removed, purgeErr := uc.engine.PurgeTrip(ctx, trip.ID)
	if purgeErr != nil && !errors.Is(purgeErr, domainerror.ErrPartialReplication) {
		return nil, purgeErr
	}

	if err := uc.tripRepo.Delete(ctx, trip.ID); err != nil {
		return nil, fmt.Errorf("failed to delete trip: %w", err)
	}

	return &DeleteTripOutput{RemovedBudgets: removed}, purgeErr
}
