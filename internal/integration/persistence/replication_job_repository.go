// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/trip-planner/backend/internal/application/adapter"
	"github.com/trip-planner/backend/internal/domain/entity"
	"github.com/trip-planner/backend/internal/integration/persistence/model"
)

// replicationJobRepository implements the adapter.ReplicationJobRepository interface.
type replicationJobRepository struct {
	db *gorm.DB
}

// NewReplicationJobRepository creates a new replication outbox repository instance.
func NewReplicationJobRepository(db *gorm.DB) adapter.ReplicationJobRepository {
	return &replicationJobRepository{
		db: db,
	}
}

// Create adds a new job to the outbox.
func (r *replicationJobRepository) Create(ctx context.Context, job *entity.ReplicationJob) error {
	jobModel, err := model.ReplicationJobModelFromEntity(job)
	if err != nil {
		return fmt.Errorf("failed to encode replication job: %w", err)
	}
	result := r.db.WithContext(ctx).Create(jobModel)
	if result.Error != nil {
		return fmt.Errorf("failed to create replication job: %w", result.Error)
	}
	return nil
}

// GetPendingJobs retrieves jobs ready to be processed.
func (r *replicationJobRepository) GetPendingJobs(ctx context.Context, limit int) ([]*entity.ReplicationJob, error) {
	var models []model.ReplicationJobModel

	result := r.db.WithContext(ctx).
		Where("status = ?", entity.ReplicationJobPending).
		Where("scheduled_at <= ?", time.Now().UTC()).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&models)

	if result.Error != nil {
		return nil, result.Error
	}

	return toJobEntities(models)
}

// Update saves changes to a job.
func (r *replicationJobRepository) Update(ctx context.Context, job *entity.ReplicationJob) error {
	jobModel, err := model.ReplicationJobModelFromEntity(job)
	if err != nil {
		return fmt.Errorf("failed to encode replication job: %w", err)
	}
	result := r.db.WithContext(ctx).Save(jobModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// DeleteOldDoneJobs removes finished jobs older than the specified number of days.
func (r *replicationJobRepository) DeleteOldDoneJobs(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)

	result := r.db.WithContext(ctx).
		Where("status = ?", entity.ReplicationJobDone).
		Where("processed_at < ?", cutoff).
		Delete(&model.ReplicationJobModel{})

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func toJobEntities(models []model.ReplicationJobModel) ([]*entity.ReplicationJob, error) {
	jobs := make([]*entity.ReplicationJob, len(models))
	for i := range models {
		job, err := models[i].ToEntity()
		if err != nil {
			return nil, err
		}
		jobs[i] = job
	}
	return jobs, nil
}
