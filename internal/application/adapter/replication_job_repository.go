// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/trip-planner/backend/internal/domain/entity"
)

// ReplicationJobRepository is the outbox of contributor writes waiting to be re-applied.
type ReplicationJobRepository interface {
	// Create adds a new job to the outbox.
	Create(ctx context.Context, job *entity.ReplicationJob) error

	// GetPendingJobs retrieves jobs ready to be processed, ordered by scheduled_at.
	GetPendingJobs(ctx context.Context, limit int) ([]*entity.ReplicationJob, error)

	// Update saves changes to a job.
	Update(ctx context.Context, job *entity.ReplicationJob) error

	// DeleteOldDoneJobs removes finished jobs older than the given number of days.
	DeleteOldDoneJobs(ctx context.Context, olderThanDays int) (int64, error)
}
