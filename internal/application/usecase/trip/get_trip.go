package trip

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/application/adapter"
	"github.com/trip-planner/backend/internal/domain/entity"
	domainerror "github.com/trip-planner/backend/internal/domain/error"
)

// GetTripInput represents the input for reading a trip.
type GetTripInput struct {
	UserID string
	TripID uuid.UUID
}

// GetTripOutput represents the output of reading a trip.
type GetTripOutput struct {
	Trip *entity.Trip
}

// GetTripUseCase returns a trip to its owner or members.
type GetTripUseCase struct {
	tripRepo adapter.TripRepository
}

// NewGetTripUseCase creates a new GetTripUseCase instance.
func NewGetTripUseCase(tripRepo adapter.TripRepository) *GetTripUseCase {
	return &GetTripUseCase{tripRepo: tripRepo}
}

// Execute performs the read. Non-members see the trip as missing.
func (uc *GetTripUseCase) Execute(ctx context.Context, input GetTripInput) (*GetTripOutput, error) {
	trip, err := uc.tripRepo.FindByID(ctx, input.TripID)
	if err != nil {
		return nil, fmt.Errorf("failed to find trip: %w", err)
	}
	if trip == nil || !trip.IsMember(input.UserID) {
		return nil, domainerror.NewTripError(
			domainerror.ErrCodeTripNotFound,
			"trip not found",
			domainerror.ErrTripNotFound,
		)
	}
	return &GetTripOutput{Trip: trip}, nil
}
