// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trip-planner/backend/internal/application/adapter"
	"github.com/trip-planner/backend/internal/domain/entity"
	"github.com/trip-planner/backend/internal/integration/persistence/model"
)

// tripRepository implements the adapter.TripRepository interface.
type tripRepository struct {
	db *gorm.DB
}

// NewTripRepository creates a new trip repository instance.
func NewTripRepository(db *gorm.DB) adapter.TripRepository {
	return &tripRepository{
		db: db,
	}
}

// Create persists a new trip.
func (r *tripRepository) Create(ctx context.Context, trip *entity.Trip) error {
	tripModel := model.TripFromEntity(trip)
	result := r.db.WithContext(ctx).Create(tripModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a trip by its ID.
func (r *tripRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	var tripModel model.TripModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&tripModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return tripModel.ToEntity(), nil
}

// Delete removes a trip.
func (r *tripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.TripModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	return nil
}
