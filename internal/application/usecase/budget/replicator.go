package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/application/adapter"
	"github.com/trip-planner/backend/internal/domain/entity"
	domainerror "github.com/trip-planner/backend/internal/domain/error"
)

// Replicator writes a canonical budget item into contributor documents.
// Writes are sequential and best-effort: a failed copy does not stop the
// others, and nothing already written is rolled back. Each document is
// read, changed and written back under its own lock.
type Replicator struct {
	store    adapter.LedgerStore
	locker   adapter.ItemLocker
	jobs     adapter.ReplicationJobRepository
	observer adapter.ReplicationObserver
	logger   *slog.Logger
}

// NewReplicator creates a new Replicator. jobs may be nil, in which case
// failed copies are only reported.
func NewReplicator(
	store adapter.LedgerStore,
	locker adapter.ItemLocker,
	jobs adapter.ReplicationJobRepository,
	observer adapter.ReplicationObserver,
	logger *slog.Logger,
) *Replicator {
	if observer == nil {
		observer = adapter.NopReplicationObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Replicator{
		store:    store,
		locker:   locker,
		jobs:     jobs,
		observer: observer,
		logger:   logger,
	}
}

// Apply upserts item into every contributor's document and removes it from
// the documents of uids in removed. prev is the item's identity before the
// mutation. It returns a *domainerror.PartialReplicationError when some copies
// failed.
func (r *Replicator) Apply(ctx context.Context, item *entity.BudgetItem, prev entity.ItemKey, removed []string) error {
	start := time.Now()
	var failures []domainerror.ReplicationFailure

	for _, uid := range item.ContributorUIDs() {
		if err := r.upsert(ctx, uid, item, prev); err != nil {
			failures = append(failures, r.fail(ctx, entity.ReplicationUpsert, uid, item, err))
			continue
		}
		r.observer.ContributorWrite(true)
	}

	for _, uid := range removed {
		if err := r.remove(ctx, uid, prev, item.Version, false); err != nil {
			failures = append(failures, r.fail(ctx, entity.ReplicationRemove, uid, item, err))
			continue
		}
		r.observer.ContributorWrite(true)
	}

	r.observer.FanOut(time.Since(start), len(item.Contributors)+len(removed))
	return partial(item.ID.String(), failures)
}

// Remove deletes item for good from the documents of every uid in targets.
func (r *Replicator) Remove(ctx context.Context, item *entity.BudgetItem, targets []string) error {
	start := time.Now()
	var failures []domainerror.ReplicationFailure

	key := item.Key()
	for _, uid := range targets {
		if err := r.remove(ctx, uid, key, item.Version, true); err != nil {
			failures = append(failures, r.fail(ctx, entity.ReplicationDelete, uid, item, err))
			continue
		}
		r.observer.ContributorWrite(true)
	}

	r.observer.FanOut(time.Since(start), len(targets))
	return partial(item.Ref().String(), failures)
}

// Repair re-applies a job from the outbox. It never touches a copy at or past
// the job's version, and never writes back an item the document has buried.
func (r *Replicator) Repair(ctx context.Context, job *entity.ReplicationJob) error {
	key := entity.ItemKey{ID: job.ItemID}

	switch job.Kind {
	case entity.ReplicationUpsert:
		if job.Payload == nil {
			return fmt.Errorf("upsert job %s has no payload", job.ID)
		}
		err := r.upsert(ctx, job.UserID, job.Payload, key)
		if errors.Is(err, domainerror.ErrVersionConflict) {
			return nil
		}
		return err
	case entity.ReplicationRemove, entity.ReplicationDelete:
		return r.remove(ctx, job.UserID, key, job.Version, job.Kind == entity.ReplicationDelete)
	case entity.ReplicationPurgeTrip:
		if job.TripID == nil {
			return fmt.Errorf("purge job %s has no trip", job.ID)
		}
		_, err := r.purge(ctx, job.UserID, *job.TripID)
		return err
	default:
		return fmt.Errorf("unknown replication job kind %q", job.Kind)
	}
}

// upsert writes item into uid's document. A copy already at or past the
// item's version is a conflict; a buried item is skipped silently.
func (r *Replicator) upsert(ctx context.Context, uid string, item *entity.BudgetItem, prev entity.ItemKey) error {
	return r.update(ctx, uid, func(doc *entity.BudgetDocument) (bool, error) {
		if existing := doc.Lookup(item, prev); existing != nil && existing.Version >= item.Version {
			return false, domainerror.ErrVersionConflict
		}
		if !doc.Accepts(item) {
			r.logger.Debug("buried budget not written back",
				"user_id", uid,
				"item_id", item.Ref().String(),
				"version", item.Version,
			)
			return false, nil
		}
		doc.Upsert(item, prev)
		return true, nil
	})
}

// remove deletes the item from uid's document and buries it at version.
// A copy newer than version is left alone.
func (r *Replicator) remove(ctx context.Context, uid string, key entity.ItemKey, version int64, final bool) error {
	return r.update(ctx, uid, func(doc *entity.BudgetDocument) (bool, error) {
		if existing := doc.Find(key); existing != nil && existing.Version > version {
			return false, nil
		}
		removed := doc.Remove(key)
		buried := doc.Bury(key.ID, version, final, time.Now().UTC())
		return removed || buried, nil
	})
}

// purge removes every item linked to tripID from uid's document.
func (r *Replicator) purge(ctx context.Context, uid string, tripID uuid.UUID) (int, error) {
	removed := 0
	err := r.update(ctx, uid, func(doc *entity.BudgetDocument) (bool, error) {
		removed = doc.RemoveByTrip(tripID)
		return removed > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// update runs fn on uid's document under the document lock and writes the
// document back when fn reports a change.
func (r *Replicator) update(ctx context.Context, uid string, fn func(doc *entity.BudgetDocument) (bool, error)) error {
	unlock, err := r.locker.Lock(ctx, documentLockKey(uid))
	if err != nil {
		return fmt.Errorf("failed to lock budget document: %w", err)
	}
	defer unlock()

	doc, err := r.load(ctx, uid)
	if err != nil {
		return err
	}
	changed, err := fn(doc)
	if err != nil || !changed {
		return err
	}
	return r.store.Set(ctx, uid, doc)
}

// load reads a user's document, treating a missing one as empty.
func (r *Replicator) load(ctx context.Context, uid string) (*entity.BudgetDocument, error) {
	doc, err := r.store.Get(ctx, uid)
	if errors.Is(err, domainerror.ErrDocumentNotFound) {
		return entity.NewBudgetDocument(uid), nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// fail reports one failed copy and queues it for repair. A version conflict
// is not queued: the copy already holds newer state.
func (r *Replicator) fail(
	ctx context.Context,
	kind entity.ReplicationJobKind,
	uid string,
	item *entity.BudgetItem,
	err error,
) domainerror.ReplicationFailure {
	r.observer.ContributorWrite(false)
	r.logger.Warn("contributor copy not written",
		"kind", kind,
		"user_id", uid,
		"item_id", item.Ref().String(),
		"error", err,
	)
	if !errors.Is(err, domainerror.ErrVersionConflict) {
		r.enqueue(ctx, entity.NewReplicationJob(kind, uid, item))
	}
	return domainerror.ReplicationFailure{UserID: uid, Err: err}
}

func (r *Replicator) enqueue(ctx context.Context, job *entity.ReplicationJob) {
	if r.jobs == nil {
		return
	}
	if err := r.jobs.Create(ctx, job); err != nil {
		r.logger.Error("failed to queue replication repair",
			"kind", job.Kind,
			"user_id", job.UserID,
			"item_id", job.ItemID.String(),
			"error", err,
		)
	}
}

func partial(itemID string, failures []domainerror.ReplicationFailure) error {
	if len(failures) == 0 {
		return nil
	}
	return &domainerror.PartialReplicationError{ItemID: itemID, Failures: failures}
}

func documentLockKey(uid string) string {
	return "budgets:" + uid
}
