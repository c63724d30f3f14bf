// Package trip contains trip-related use cases. Every trip owns a linked
// budget shared by its members.
package trip

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trip-planner/backend/internal/application/adapter"
	"github.com/trip-planner/backend/internal/application/usecase/budget"
	"github.com/trip-planner/backend/internal/domain/entity"
	domainerror "github.com/trip-planner/backend/internal/domain/error"
)

// CreateTripInput represents the input for trip creation.
type CreateTripInput struct {
	ActorID           string
	Name              string
	OwnerContribution *float64
	Members           []budget.ContributorInput
}

// CreateTripOutput represents the output of trip creation.
type CreateTripOutput struct {
	Trip   *entity.Trip
	Budget budget.BudgetView
}

// CreateTripUseCase creates a trip and its linked Tour budget.
type CreateTripUseCase struct {
	tripRepo adapter.TripRepository
	userRepo adapter.UserRepository
	engine   *budget.Engine
	logger   *slog.Logger
}

// NewCreateTripUseCase creates a new CreateTripUseCase instance.
func NewCreateTripUseCase(
	tripRepo adapter.TripRepository,
	userRepo adapter.UserRepository,
	engine *budget.Engine,
	logger *slog.Logger,
) *CreateTripUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateTripUseCase{
		tripRepo: tripRepo,
		userRepo: userRepo,
		engine:   engine,
		logger:   logger,
	}
}

// Execute persists the trip, then materializes the linked budget into every
// member's document. The budget amount is the sum of the pledged contributions.
func (uc *CreateTripUseCase) Execute(ctx context.Context, input CreateTripInput) (*CreateTripOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerror.NewTripError(
			domainerror.ErrCodeTripNameRequired,
			"trip name is required",
			domainerror.ErrTripNameRequired,
		)
	}

	owner, err := uc.userRepo.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if owner == nil {
		return nil, domainerror.NewTripError(
			domainerror.ErrCodeTripMemberNotFound,
			fmt.Sprintf("user %q not found", input.ActorID),
			domainerror.ErrTripMemberNotFound,
		)
	}

	members, err := budget.ResolveContributors(ctx, uc.userRepo, input.Members)
	if err != nil {
		return nil, err
	}

	memberUIDs := make([]string, len(members))
	for i, m := range members {
		memberUIDs[i] = m.UID
	}

	trip := entity.NewTrip(name, owner.ID, memberUIDs)
	item := entity.NewBudgetItem(
		name,
		entity.CategoryTour,
		0,
		entity.Contributor{UID: owner.ID, Username: owner.Username, Contribution: input.OwnerContribution},
		members,
	)
	item.TripID = &trip.ID
	item.Amount = item.TotalContributions()

	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := uc.tripRepo.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	created, err := uc.engine.Create(ctx, item)
	if created == nil {
		return nil, err
	}

	uc.logger.Info("trip created",
		"trip_id", trip.ID.String(),
		"item_id", created.ID.String(),
		"user_id", owner.ID,
		"members", len(memberUIDs),
	)
	return &CreateTripOutput{
		Trip:   trip,
		Budget: budget.NewBudgetView(created, input.ActorID),
	}, err
}
