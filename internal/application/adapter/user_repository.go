// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/trip-planner/backend/internal/domain/entity"
)

// UserRepository is a read-only view of the external user directory.
type UserRepository interface {
	// FindByID retrieves a user by uid. Returns nil, nil when absent.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByUsername retrieves a user by username. Returns nil, nil when absent.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}
