// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/domain/entity"
)

// TripRepository defines the interface for trip persistence operations.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *entity.Trip) error

	// FindByID retrieves a trip by its ID. Returns nil, nil when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error)

	// Delete removes a trip.
	Delete(ctx context.Context, id uuid.UUID) error
}
