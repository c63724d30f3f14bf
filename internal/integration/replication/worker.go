// Package replication runs the background repair of contributor copies that
// could not be written during a fan-out.
package replication

import (
	"context"
	"log/slog"
	"time"

	"github.com/trip-planner/backend/internal/application/adapter"
	"github.com/trip-planner/backend/internal/domain/entity"
)

// Repairer re-applies one queued contributor write.
type Repairer interface {
	Repair(ctx context.Context, job *entity.ReplicationJob) error
}

// Worker drains the replication outbox.
type Worker struct {
	jobs            adapter.ReplicationJobRepository
	repairer        Repairer
	observer        adapter.ReplicationObserver
	pollInterval    time.Duration
	batchSize       int
	retentionDays   int
	cleanupInterval time.Duration
	lastCleanup     time.Time
}

// WorkerConfig holds configuration for the repair worker.
type WorkerConfig struct {
	PollInterval    time.Duration
	BatchSize       int
	RetentionDays   int
	CleanupInterval time.Duration
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval:    5 * time.Second,
		BatchSize:       20,
		RetentionDays:   7,
		CleanupInterval: time.Hour,
	}
}

// NewWorker creates a new repair worker.
func NewWorker(jobs adapter.ReplicationJobRepository, repairer Repairer, observer adapter.ReplicationObserver, config WorkerConfig) *Worker {
	if observer == nil {
		observer = adapter.NopReplicationObserver{}
	}
	defaults := DefaultWorkerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}
	return &Worker{
		jobs:            jobs,
		repairer:        repairer,
		observer:        observer,
		pollInterval:    config.PollInterval,
		batchSize:       config.BatchSize,
		retentionDays:   config.RetentionDays,
		cleanupInterval: config.CleanupInterval,
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Replication worker started",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.processBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Replication worker shutting down")
			return
		case <-ticker.C:
			w.processBatch(ctx)
			w.cleanup(ctx)
		}
	}
}

// processBatch fetches and re-applies a batch of pending jobs.
func (w *Worker) processBatch(ctx context.Context) {
	jobs, err := w.jobs.GetPendingJobs(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending replication jobs", "error", err)
		return
	}

	if len(jobs) == 0 {
		return
	}

	slog.Debug("Processing replication batch", "count", len(jobs))

	for _, job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
			w.processJob(ctx, job)
		}
	}
}

func (w *Worker) processJob(ctx context.Context, job *entity.ReplicationJob) {
	logger := slog.With(
		"job_id", job.ID,
		"kind", job.Kind,
		"user_id", job.UserID,
		"item_id", job.ItemID,
	)

	job.MarkProcessing()
	if err := w.jobs.Update(ctx, job); err != nil {
		logger.Error("Failed to mark job as processing", "error", err)
		return
	}

	if err := w.repairer.Repair(ctx, job); err != nil {
		w.observer.RepairJob(false)
		w.handleFailure(ctx, job, err)
		return
	}

	w.observer.RepairJob(true)
	job.MarkDone()
	if err := w.jobs.Update(ctx, job); err != nil {
		logger.Error("Failed to mark job as done", "error", err)
		return
	}

	logger.Info("Contributor copy repaired")
}

func (w *Worker) handleFailure(ctx context.Context, job *entity.ReplicationJob, err error) {
	job.MarkFailed(err)

	if updateErr := w.jobs.Update(ctx, job); updateErr != nil {
		slog.Error("Failed to update job after failure",
			"job_id", job.ID,
			"error", updateErr,
		)
	}

	if job.Status == entity.ReplicationJobFailed {
		slog.Warn("Replication job permanently failed",
			"job_id", job.ID,
			"user_id", job.UserID,
			"attempts", job.Attempts,
			"last_error", job.LastError,
		)
	} else {
		slog.Info("Replication job scheduled for retry",
			"job_id", job.ID,
			"attempts", job.Attempts,
			"scheduled_at", job.ScheduledAt,
		)
	}
}

// cleanup drops finished jobs past the retention window, at most once per cleanup interval.
func (w *Worker) cleanup(ctx context.Context) {
	if w.retentionDays <= 0 || time.Since(w.lastCleanup) < w.cleanupInterval {
		return
	}
	w.lastCleanup = time.Now()

	deleted, err := w.jobs.DeleteOldDoneJobs(ctx, w.retentionDays)
	if err != nil {
		slog.Error("Failed to delete old replication jobs", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("Old replication jobs deleted", "count", deleted)
	}
}

// ProcessNow processes all pending jobs immediately (useful for testing).
func (w *Worker) ProcessNow(ctx context.Context) {
	w.processBatch(ctx)
}
