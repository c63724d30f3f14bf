// Package budget contains the shared budget ledger use cases.
package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/application/adapter"
	"github.com/trip-planner/backend/internal/domain/entity"
	domainerror "github.com/trip-planner/backend/internal/domain/error"
	"github.com/trip-planner/backend/internal/domain/ledger"
)

// Mutation changes a clone of a budget item in place.
type Mutation func(item *entity.BudgetItem) error

// Engine runs every budget mutation: it locks the item, finds the newest
// contributor copy, checks permission, applies the change to a clone and fans
// the canonical result out to every contributor.
type Engine struct {
	store      adapter.LedgerStore
	locker     adapter.ItemLocker
	replicator *Replicator
	policy     ledger.OverspendPolicy
	logger     *slog.Logger
}

// NewEngine creates a new Engine instance.
func NewEngine(
	store adapter.LedgerStore,
	locker adapter.ItemLocker,
	replicator *Replicator,
	policy ledger.OverspendPolicy,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:      store,
		locker:     locker,
		replicator: replicator,
		policy:     policy,
		logger:     logger,
	}
}

// Mutate applies fn to the item itemID held by actorID, provided the actor's
// role allows action. The canonical item is returned together with a
// *domainerror.PartialReplicationError when some contributor copies failed.
func (e *Engine) Mutate(
	ctx context.Context,
	actorID string,
	itemID uuid.UUID,
	action ledger.Action,
	fn Mutation,
) (*entity.BudgetItem, error) {
	unlock, err := e.locker.Lock(ctx, lockKey(itemID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock budget: %w", err)
	}
	defer unlock()

	own, err := e.find(ctx, actorID, itemID)
	if err != nil {
		return nil, err
	}
	current, err := e.latest(ctx, actorID, own)
	if err != nil {
		return nil, err
	}
	if err := authorize(current, actorID, action); err != nil {
		return nil, err
	}

	canonical := current.Clone()
	canonical.ID = current.Ref()
	if err := fn(canonical); err != nil {
		return nil, err
	}
	if err := e.check(current, canonical); err != nil {
		return nil, err
	}
	canonical.Touch()

	removed := removedContributors(current, canonical)
	if err := e.replicator.Apply(ctx, canonical, current.Key(), removed); err != nil {
		return canonical, err
	}

	e.logger.Info("budget updated",
		"item_id", canonical.ID.String(),
		"user_id", actorID,
		"action", action,
		"version", canonical.Version,
	)
	return canonical, nil
}

// Create validates a new item and writes it to every contributor's document.
func (e *Engine) Create(ctx context.Context, item *entity.BudgetItem) (*entity.BudgetItem, error) {
	if err := e.check(nil, item); err != nil {
		return nil, err
	}

	unlock, err := e.locker.Lock(ctx, lockKey(item.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock budget: %w", err)
	}
	defer unlock()

	if err := e.replicator.Apply(ctx, item, item.Key(), nil); err != nil {
		return item, err
	}

	e.logger.Info("budget created",
		"item_id", item.ID.String(),
		"user_id", item.Owner(),
		"contributors", len(item.Contributors),
	)
	return item, nil
}

// Delete removes the item from every contributor's document. It reports
// false when the actor holds no such item.
func (e *Engine) Delete(ctx context.Context, actorID string, itemID uuid.UUID) (bool, error) {
	unlock, err := e.locker.Lock(ctx, lockKey(itemID))
	if err != nil {
		return false, fmt.Errorf("failed to lock budget: %w", err)
	}
	defer unlock()

	own, err := e.find(ctx, actorID, itemID)
	if errors.Is(err, domainerror.ErrBudgetNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	current, err := e.latest(ctx, actorID, own)
	if errors.Is(err, domainerror.ErrBudgetNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := authorize(current, actorID, ledger.ActionDeleteBudget); err != nil {
		return false, err
	}

	targets := mergeUIDs(current.ContributorUIDs(), own.ContributorUIDs())
	if err := e.replicator.Remove(ctx, current, targets); err != nil {
		return true, err
	}

	e.logger.Info("budget deleted",
		"item_id", current.Ref().String(),
		"user_id", actorID,
	)
	return true, nil
}

// PurgeTrip scans every user's document and removes items linked to tripID,
// leaving a final tombstone so no later write brings them back. It returns
// how many item copies were removed.
func (e *Engine) PurgeTrip(ctx context.Context, tripID uuid.UUID) (int, error) {
	userIDs, err := e.store.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list budget documents: %w", err)
	}

	removed := 0
	var failures []domainerror.ReplicationFailure
	for _, uid := range userIDs {
		n, err := e.replicator.purge(ctx, uid, tripID)
		if err != nil {
			e.logger.Warn("trip budget not purged",
				"trip_id", tripID.String(),
				"user_id", uid,
				"error", err,
			)
			e.replicator.observer.ContributorWrite(false)
			e.replicator.enqueue(ctx, entity.NewTripPurgeJob(uid, tripID))
			failures = append(failures, domainerror.ReplicationFailure{UserID: uid, Err: err})
			continue
		}
		removed += n
	}

	e.logger.Info("trip budgets purged",
		"trip_id", tripID.String(),
		"documents", len(userIDs),
		"removed", removed,
	)
	return removed, partial(tripID.String(), failures)
}

// Repair re-applies an outbox job. Item jobs run under the item's lock; the
// target document is always locked by the replicator.
func (e *Engine) Repair(ctx context.Context, job *entity.ReplicationJob) error {
	if job.Kind != entity.ReplicationPurgeTrip {
		unlock, err := e.locker.Lock(ctx, lockKey(job.ItemID))
		if err != nil {
			return fmt.Errorf("failed to lock budget: %w", err)
		}
		defer unlock()
	}

	return e.replicator.Repair(ctx, job)
}

// Document reads a user's document, treating a missing one as empty.
func (e *Engine) Document(ctx context.Context, userID string) (*entity.BudgetDocument, error) {
	return e.replicator.load(ctx, userID)
}

// find locates itemID in the actor's own document.
func (e *Engine) find(ctx context.Context, actorID string, itemID uuid.UUID) (*entity.BudgetItem, error) {
	doc, err := e.Document(ctx, actorID)
	if err != nil {
		return nil, err
	}
	item := doc.FindByID(itemID)
	if item == nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeBudgetNotFound,
			"budget not found",
			domainerror.ErrBudgetNotFound,
		)
	}
	return item, nil
}

// latest returns the newest copy of own held by any of its contributors, so
// a mutation never starts from a copy that missed an earlier fan-out. A copy
// that cannot be read is skipped; a contributor holding a final tombstone
// means the item is gone.
func (e *Engine) latest(ctx context.Context, actorID string, own *entity.BudgetItem) (*entity.BudgetItem, error) {
	best := own
	key := own.Key()
	for _, uid := range own.ContributorUIDs() {
		if uid == actorID {
			continue
		}
		doc, err := e.store.Get(ctx, uid)
		if errors.Is(err, domainerror.ErrDocumentNotFound) {
			continue
		}
		if err != nil {
			e.logger.Warn("contributor copy not read",
				"user_id", uid,
				"item_id", key.ID.String(),
				"error", err,
			)
			continue
		}
		if t := doc.Tombstone(key.ID); t != nil && t.Final {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeBudgetNotFound,
				"budget not found",
				domainerror.ErrBudgetNotFound,
			)
		}
		if held := doc.Find(key); held != nil && held.Version > best.Version {
			best = held
		}
	}
	return best, nil
}

// check validates next and applies the overspend policy.
func (e *Engine) check(prev, next *entity.BudgetItem) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if !e.policy.Allows(prev, next) {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeBudgetExceeded,
			fmt.Sprintf("expenses would exceed the budget of %.2f", next.Amount),
			domainerror.ErrBudgetExceeded,
		)
	}
	return nil
}

func authorize(item *entity.BudgetItem, actorID string, action ledger.Action) error {
	if _, ok := ledger.Authorize(item, actorID, action); !ok {
		return domainerror.NewLedgerError(
			domainerror.ErrCodePermissionDenied,
			fmt.Sprintf("your role does not allow %s on this budget", action),
			domainerror.ErrPermissionDenied,
		)
	}
	return nil
}

// removedContributors returns uids present in before but not in after.
func removedContributors(before, after *entity.BudgetItem) []string {
	var removed []string
	for _, uid := range before.ContributorUIDs() {
		if after.FindContributor(uid) < 0 {
			removed = append(removed, uid)
		}
	}
	return removed
}

// mergeUIDs returns a followed by the uids of b missing from a.
func mergeUIDs(a, b []string) []string {
	out := append([]string{}, a...)
	for _, uid := range b {
		if !slices.Contains(out, uid) {
			out = append(out, uid)
		}
	}
	return out
}

func lockKey(itemID uuid.UUID) string {
	return "budget:" + itemID.String()
}
