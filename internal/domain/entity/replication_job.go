// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReplicationJobStatus represents the status of a replication repair job.
type ReplicationJobStatus string

const (
	ReplicationJobPending    ReplicationJobStatus = "pending"
	ReplicationJobProcessing ReplicationJobStatus = "processing"
	ReplicationJobDone       ReplicationJobStatus = "done"
	ReplicationJobFailed     ReplicationJobStatus = "failed"
)

// ReplicationJobKind tells the repair worker what to re-apply.
type ReplicationJobKind string

const (
	// ReplicationUpsert writes Payload into the user's document.
	ReplicationUpsert ReplicationJobKind = "upsert"
	// ReplicationRemove deletes ItemID from the document of a removed contributor.
	// A later version may bring the item back.
	ReplicationRemove ReplicationJobKind = "remove"
	// ReplicationDelete deletes ItemID from the user's document for good.
	ReplicationDelete ReplicationJobKind = "delete"
	// ReplicationPurgeTrip deletes every item linked to TripID from the user's document.
	ReplicationPurgeTrip ReplicationJobKind = "purge_trip"
)

// ReplicationJob is a contributor write that failed during fan-out and is
// waiting to be re-applied.
type ReplicationJob struct {
	ID          uuid.UUID
	Kind        ReplicationJobKind
	UserID      string
	ItemID      uuid.UUID
	TripID      *uuid.UUID
	Payload     *BudgetItem
	Version     int64
	Status      ReplicationJobStatus
	Attempts    int
	MaxAttempts int
	LastError   string
	CreatedAt   time.Time
	ScheduledAt time.Time
	ProcessedAt *time.Time
}

// NewReplicationJob creates a pending job for one failed contributor write.
func NewReplicationJob(kind ReplicationJobKind, userID string, item *BudgetItem) *ReplicationJob {
	now := time.Now().UTC()
	job := &ReplicationJob{
		ID:          uuid.New(),
		Kind:        kind,
		UserID:      userID,
		Status:      ReplicationJobPending,
		MaxAttempts: 5,
		CreatedAt:   now,
		ScheduledAt: now,
	}
	if item != nil {
		job.ItemID = item.Ref()
		job.Version = item.Version
		if kind == ReplicationUpsert {
			job.Payload = item.Clone()
		}
	}
	return job
}

// NewTripPurgeJob creates a pending job removing a trip's items from one user's document.
func NewTripPurgeJob(userID string, tripID uuid.UUID) *ReplicationJob {
	job := NewReplicationJob(ReplicationPurgeTrip, userID, nil)
	job.TripID = &tripID
	return job
}

// MarkProcessing marks the job as currently being processed.
func (j *ReplicationJob) MarkProcessing() {
	j.Status = ReplicationJobProcessing
}

// MarkDone marks the job as successfully applied.
func (j *ReplicationJob) MarkDone() {
	j.Status = ReplicationJobDone
	now := time.Now().UTC()
	j.ProcessedAt = &now
}

// MarkFailed records a failed attempt and schedules a retry if attempts remain.
func (j *ReplicationJob) MarkFailed(err error) {
	j.Attempts++
	j.LastError = err.Error()

	if j.Attempts >= j.MaxAttempts {
		j.Status = ReplicationJobFailed
		now := time.Now().UTC()
		j.ProcessedAt = &now
	} else {
		j.Status = ReplicationJobPending
		j.ScheduledAt = j.calculateNextRetry()
	}
}

// calculateNextRetry backs off 0s, 1min, 5min, then every 5min.
func (j *ReplicationJob) calculateNextRetry() time.Time {
	delays := []time.Duration{0, 1 * time.Minute, 5 * time.Minute}
	if j.Attempts < len(delays) {
		return time.Now().UTC().Add(delays[j.Attempts])
	}
	return time.Now().UTC().Add(5 * time.Minute)
}

// CanRetry returns true if the job can be retried.
func (j *ReplicationJob) CanRetry() bool {
	return j.Attempts < j.MaxAttempts
}
