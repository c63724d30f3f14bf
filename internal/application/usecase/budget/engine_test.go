package budget

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trip-planner/backend/internal/application/adapter"
	"github.com/trip-planner/backend/internal/domain/entity"
	domainerror "github.com/trip-planner/backend/internal/domain/error"
	"github.com/trip-planner/backend/internal/domain/ledger"
	"github.com/trip-planner/backend/internal/integration/adapters"
	"github.com/trip-planner/backend/test/integration/mock"
)

type fixture struct {
	store  *mock.LedgerStore
	jobs   *mock.ReplicationJobRepository
	users  *mock.UserRepository
	engine *Engine
}

func newFixture(policy ledger.OverspendPolicy) *fixture {
	f := &fixture{
		store: mock.NewLedgerStore(),
		jobs:  mock.NewReplicationJobRepository(),
		users: mock.NewUserRepository(
			entity.NewUser("uid-a", "alice", "alice@example.com"),
			entity.NewUser("uid-b", "bob", "bob@example.com"),
			entity.NewUser("uid-c", "carol", "carol@example.com"),
			entity.NewUser("uid-d", "dave", "dave@example.com"),
		),
	}
	f.wire(f.store, policy)
	return f
}

// wire rebuilds the engine on store, which may wrap f.store.
func (f *fixture) wire(store adapter.LedgerStore, policy ledger.OverspendPolicy) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	locker := adapters.NewMemoryLocker()
	f.engine = NewEngine(store, locker, NewReplicator(store, locker, f.jobs, nil, logger), policy, logger)
}

// share creates an item owned by uid-a and seeds it into every contributor's document.
func (f *fixture) share(t *testing.T, name string, amount float64, others ...entity.Contributor) *entity.BudgetItem {
	t.Helper()
	item := entity.NewBudgetItem(name, entity.CategoryTravel, amount, entity.Contributor{UID: "uid-a", Username: "alice"}, others)
	_, err := f.engine.Create(context.Background(), item)
	require.NoError(t, err)
	return item
}

func (f *fixture) copyOf(t *testing.T, uid string, id uuid.UUID) *entity.BudgetItem {
	t.Helper()
	doc := f.store.Document(uid)
	require.NotNil(t, doc, "document of %s", uid)
	item := doc.FindByID(id)
	require.NotNil(t, item, "item in document of %s", uid)
	return item
}

func editor(uid, username string) entity.Contributor {
	return entity.Contributor{UID: uid, Username: username, Role: entity.ContributorRoleEditor}
}

func viewer(uid, username string) entity.Contributor {
	return entity.Contributor{UID: uid, Username: username, Role: entity.ContributorRoleViewer}
}

func addExpense(name string, amount float64, by string) Mutation {
	return func(it *entity.BudgetItem) error {
		it.Expenses = append(it.Expenses, *entity.NewExpense(name, entity.CategoryTravel, amount, it.CreatedAt.UTC(), by))
		return nil
	}
}

func expenseNames(item *entity.BudgetItem) []string {
	names := make([]string, len(item.Expenses))
	for i, e := range item.Expenses {
		names[i] = e.Name
	}
	return names
}

// slowStore delays reads of one user's document so that concurrent writers
// to that document overlap.
type slowStore struct {
	*mock.LedgerStore
	uid   string
	delay time.Duration
}

func (s *slowStore) Get(ctx context.Context, userID string) (*entity.BudgetDocument, error) {
	if userID == s.uid {
		time.Sleep(s.delay)
	}
	return s.LedgerStore.Get(ctx, userID)
}

func TestEngine_Create(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	item := f.share(t, "Goa Trip", 6000, editor("uid-b", "bob"))

	for _, uid := range []string{"uid-a", "uid-b"} {
		got := f.copyOf(t, uid, item.ID)
		assert.Equal(t, "Goa Trip", got.Name)
		assert.Equal(t, "uid-a", got.OwnerUID)
		assert.Equal(t, int64(1), got.Version)
	}
}

func TestEngine_Create_RejectsInvalidItem(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	item := entity.NewBudgetItem("", entity.CategoryTravel, 10, entity.Contributor{UID: "uid-a"}, nil)

	_, err := f.engine.Create(context.Background(), item)

	assert.ErrorIs(t, err, domainerror.ErrBudgetNameRequired)
	assert.Zero(t, f.store.TotalWrites())
}

func TestEngine_Mutate_ViewerIsDenied(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	item := f.share(t, "Goa Trip", 6000, viewer("uid-b", "bob"))
	before := f.store.TotalWrites()

	_, err := f.engine.Mutate(context.Background(), "uid-b", item.ID, ledger.ActionWriteExpense, func(it *entity.BudgetItem) error {
		it.Expenses = append(it.Expenses, *entity.NewExpense("Cab", entity.CategoryTravel, 100, it.CreatedAt.UTC(), "uid-b"))
		return nil
	})

	assert.ErrorIs(t, err, domainerror.ErrPermissionDenied)
	assert.True(t, domainerror.IsPermissionDenied(err))
	assert.Equal(t, before, f.store.TotalWrites())
	assert.Empty(t, f.copyOf(t, "uid-a", item.ID).Expenses)
}

func TestEngine_Mutate_UnknownItem(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	f.share(t, "Goa Trip", 6000)

	_, err := f.engine.Mutate(context.Background(), "uid-a", uuid.New(), ledger.ActionRead, func(*entity.BudgetItem) error { return nil })

	assert.ErrorIs(t, err, domainerror.ErrBudgetNotFound)
}

func TestEngine_Mutate_StoreErrorOnActorRead(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	item := f.share(t, "Goa Trip", 6000)
	f.store.FailGet("uid-a", true)

	_, err := f.engine.Mutate(context.Background(), "uid-a", item.ID, ledger.ActionManageBudget, func(*entity.BudgetItem) error { return nil })

	assert.ErrorIs(t, err, domainerror.ErrStoreUnavailable)
	assert.Empty(t, f.jobs.Jobs())
}

func TestEngine_Mutate_PartialReplication(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	item := f.share(t, "Goa Trip", 6000,
		editor("uid-b", "bob"),
		editor("uid-c", "carol"),
		editor("uid-d", "dave"),
	)
	f.store.FailSet("uid-c", true)

	got, err := f.engine.Mutate(context.Background(), "uid-b", item.ID, ledger.ActionWriteExpense, func(it *entity.BudgetItem) error {
		it.Expenses = append(it.Expenses, *entity.NewExpense("Hotel", entity.CategoryRent, 1500, it.CreatedAt.UTC(), "uid-b"))
		return nil
	})

	var partial *domainerror.PartialReplicationError
	require.True(t, errors.As(err, &partial))
	assert.ErrorIs(t, err, domainerror.ErrPartialReplication)
	assert.Equal(t, []string{"uid-c"}, partial.FailedUserIDs())
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.Version)

	for _, uid := range []string{"uid-a", "uid-b", "uid-d"} {
		assert.Len(t, f.copyOf(t, uid, item.ID).Expenses, 1, uid)
	}
	assert.Empty(t, f.copyOf(t, "uid-c", item.ID).Expenses)

	jobs := f.jobs.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, entity.ReplicationUpsert, jobs[0].Kind)
	assert.Equal(t, "uid-c", jobs[0].UserID)
	assert.Equal(t, int64(2), jobs[0].Version)
}

func TestEngine_Mutate_OverspendPolicy(t *testing.T) {
	spend := func(amount float64) Mutation {
		return func(it *entity.BudgetItem) error {
			it.Expenses = append(it.Expenses, *entity.NewExpense("Dinner", entity.CategoryFood, amount, it.CreatedAt.UTC(), "uid-a"))
			return nil
		}
	}

	t.Run("warn accepts and flags", func(t *testing.T) {
		f := newFixture(ledger.OverspendWarn)
		item := f.share(t, "Food", 100)

		got, err := f.engine.Mutate(context.Background(), "uid-a", item.ID, ledger.ActionWriteExpense, spend(150))

		require.NoError(t, err)
		assert.True(t, ledger.IsOverBudget(got))
	})

	t.Run("reject refuses", func(t *testing.T) {
		f := newFixture(ledger.OverspendReject)
		item := f.share(t, "Food", 100)
		before := f.store.TotalWrites()

		_, err := f.engine.Mutate(context.Background(), "uid-a", item.ID, ledger.ActionWriteExpense, spend(150))

		assert.ErrorIs(t, err, domainerror.ErrBudgetExceeded)
		assert.Equal(t, before, f.store.TotalWrites())
	})
}

func TestEngine_Mutate_LegacyItem(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	legacy := &entity.BudgetItem{
		Name:     "Goa Trip",
		Category: entity.CategoryTour,
		Amount:   6000,
		Contributors: []entity.Contributor{
			{UID: "uid-a", Username: "alice"},
			{UID: "uid-b", Username: "bob"},
		},
	}
	for _, uid := range []string{"uid-a", "uid-b"} {
		doc := entity.NewBudgetDocument(uid)
		doc.Items = append(doc.Items, legacy.Clone())
		f.store.Seed(doc)
	}

	ref := legacy.Ref()
	got, err := f.engine.Mutate(context.Background(), "uid-a", ref, ledger.ActionManageBudget, func(it *entity.BudgetItem) error {
		it.Name = "Goa 2025"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, ref, got.ID)

	for _, uid := range []string{"uid-a", "uid-b"} {
		doc := f.store.Document(uid)
		require.Len(t, doc.Items, 1, uid)
		assert.Equal(t, ref, doc.Items[0].ID)
		assert.Equal(t, "Goa 2025", doc.Items[0].Name)
		assert.Equal(t, "uid-a", doc.Items[0].OwnerUID)
	}
}

func TestEngine_Delete(t *testing.T) {
	t.Run("admin removes every copy", func(t *testing.T) {
		f := newFixture(ledger.OverspendWarn)
		item := f.share(t, "Goa Trip", 6000, editor("uid-b", "bob"))

		deleted, err := f.engine.Delete(context.Background(), "uid-a", item.ID)

		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Empty(t, f.store.Document("uid-a").Items)
		assert.Empty(t, f.store.Document("uid-b").Items)
	})

	t.Run("editor is denied", func(t *testing.T) {
		f := newFixture(ledger.OverspendWarn)
		item := f.share(t, "Goa Trip", 6000, editor("uid-b", "bob"))

		_, err := f.engine.Delete(context.Background(), "uid-b", item.ID)

		assert.ErrorIs(t, err, domainerror.ErrPermissionDenied)
		assert.Len(t, f.store.Document("uid-a").Items, 1)
	})

	t.Run("missing item is nothing to delete", func(t *testing.T) {
		f := newFixture(ledger.OverspendWarn)

		deleted, err := f.engine.Delete(context.Background(), "uid-a", uuid.New())

		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestEngine_PurgeTrip(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	tripID := uuid.New()

	linked := entity.NewBudgetItem("Goa", entity.CategoryTour, 0, entity.Contributor{UID: "uid-a"}, []entity.Contributor{editor("uid-b", "bob")})
	linked.TripID = &tripID
	_, err := f.engine.Create(context.Background(), linked)
	require.NoError(t, err)
	other := f.share(t, "Groceries", 200, editor("uid-b", "bob"))

	// uid-c holds a stale copy although no longer a contributor.
	stale := entity.NewBudgetDocument("uid-c")
	stale.Items = append(stale.Items, linked.Clone())
	f.store.Seed(stale)

	removed, err := f.engine.PurgeTrip(context.Background(), tripID)

	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	for _, uid := range []string{"uid-a", "uid-b"} {
		doc := f.store.Document(uid)
		require.Len(t, doc.Items, 1)
		assert.Equal(t, other.ID, doc.Items[0].ID)
	}
	assert.Empty(t, f.store.Document("uid-c").Items)
}

func TestEngine_PurgeTrip_QueuesFailedDocuments(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	tripID := uuid.New()
	linked := entity.NewBudgetItem("Goa", entity.CategoryTour, 0, entity.Contributor{UID: "uid-a"}, []entity.Contributor{editor("uid-b", "bob")})
	linked.TripID = &tripID
	_, err := f.engine.Create(context.Background(), linked)
	require.NoError(t, err)
	f.store.FailSet("uid-b", true)

	removed, err := f.engine.PurgeTrip(context.Background(), tripID)

	assert.ErrorIs(t, err, domainerror.ErrPartialReplication)
	assert.Equal(t, 1, removed)
	jobs := f.jobs.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, entity.ReplicationPurgeTrip, jobs[0].Kind)
	assert.Equal(t, tripID, *jobs[0].TripID)
}

func TestEngine_Repair(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	item := f.share(t, "Goa Trip", 6000, editor("uid-b", "bob"))
	f.store.FailSet("uid-b", true)

	_, err := f.engine.Mutate(context.Background(), "uid-a", item.ID, ledger.ActionManageBudget, func(it *entity.BudgetItem) error {
		it.Amount = 7000
		return nil
	})
	require.ErrorIs(t, err, domainerror.ErrPartialReplication)
	jobs := f.jobs.Jobs()
	require.Len(t, jobs, 1)

	f.store.FailSet("uid-b", false)
	require.NoError(t, f.engine.Repair(context.Background(), jobs[0]))

	assert.Equal(t, 7000.0, f.copyOf(t, "uid-b", item.ID).Amount)
}

func TestEngine_Repair_SkipsNewerCopy(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	item := f.share(t, "Goa Trip", 6000, editor("uid-b", "bob"))

	stale := item.Clone()
	stale.Amount = 1
	job := entity.NewReplicationJob(entity.ReplicationUpsert, "uid-b", stale)
	job.Version = 0

	require.NoError(t, f.engine.Repair(context.Background(), job))

	assert.Equal(t, 6000.0, f.copyOf(t, "uid-b", item.ID).Amount)
}

func TestEngine_ConcurrentMutationsOnSharedDocument(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	f.wire(&slowStore{LedgerStore: f.store, uid: "uid-c", delay: 20 * time.Millisecond}, ledger.OverspendWarn)
	ctx := context.Background()

	flights := entity.NewBudgetItem("Flights", entity.CategoryTravel, 1000, entity.Contributor{UID: "uid-a"}, []entity.Contributor{editor("uid-c", "carol")})
	hotel := entity.NewBudgetItem("Hotel", entity.CategoryRent, 1000, entity.Contributor{UID: "uid-b"}, []entity.Contributor{editor("uid-c", "carol")})
	for _, item := range []*entity.BudgetItem{flights, hotel} {
		_, err := f.engine.Create(ctx, item)
		require.NoError(t, err)
	}

	targets := []struct {
		actor string
		item  *entity.BudgetItem
	}{{"uid-a", flights}, {"uid-b", hotel}}
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		i, target := i, target
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.engine.Mutate(ctx, target.actor, target.item.ID, ledger.ActionWriteExpense, addExpense("Cab", 100, target.actor))
		}()
	}
	wg.Wait()

	for i := range targets {
		require.NoError(t, errs[i])
	}
	assert.Len(t, f.copyOf(t, "uid-c", flights.ID).Expenses, 1)
	assert.Len(t, f.copyOf(t, "uid-c", hotel.ID).Expenses, 1)
	assert.Len(t, f.copyOf(t, "uid-a", flights.ID).Expenses, 1)
	assert.Len(t, f.copyOf(t, "uid-b", hotel.ID).Expenses, 1)
}

func TestEngine_Mutate_StartsFromNewestCopy(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	item := f.share(t, "Goa Trip", 6000, editor("uid-b", "bob"), editor("uid-c", "carol"))
	ctx := context.Background()

	f.store.FailSet("uid-c", true)
	_, err := f.engine.Mutate(ctx, "uid-b", item.ID, ledger.ActionWriteExpense, addExpense("Hotel", 1500, "uid-b"))
	require.ErrorIs(t, err, domainerror.ErrPartialReplication)
	f.store.FailSet("uid-c", false)

	// uid-c still holds version 1 without the hotel.
	got, err := f.engine.Mutate(ctx, "uid-c", item.ID, ledger.ActionWriteExpense, addExpense("Cab", 200, "uid-c"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Version)

	jobs := f.jobs.Jobs()
	require.Len(t, jobs, 1)
	require.NoError(t, f.engine.Repair(ctx, jobs[0]))

	for _, uid := range []string{"uid-a", "uid-b", "uid-c"} {
		held := f.copyOf(t, uid, item.ID)
		assert.Equal(t, int64(3), held.Version, uid)
		assert.Equal(t, []string{"Hotel", "Cab"}, expenseNames(held), uid)
	}
}

func TestEngine_Mutate_DeniedByNewestCopy(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	item := f.share(t, "Goa Trip", 6000, editor("uid-b", "bob"), editor("uid-c", "carol"))
	ctx := context.Background()

	// uid-c misses the demotion and still sees itself as an editor.
	f.store.FailSet("uid-c", true)
	_, err := f.engine.Mutate(ctx, "uid-a", item.ID, ledger.ActionManageRoles, func(it *entity.BudgetItem) error {
		it.Contributors[2].Role = entity.ContributorRoleViewer
		return nil
	})
	require.ErrorIs(t, err, domainerror.ErrPartialReplication)
	f.store.FailSet("uid-c", false)
	before := f.store.TotalWrites()

	_, err = f.engine.Mutate(ctx, "uid-c", item.ID, ledger.ActionWriteExpense, addExpense("Cab", 200, "uid-c"))

	assert.ErrorIs(t, err, domainerror.ErrPermissionDenied)
	assert.Equal(t, before, f.store.TotalWrites())
}

func TestReplicator_RefusesToOverwriteNewerCopy(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	item := f.share(t, "Goa Trip", 6000, editor("uid-b", "bob"))
	ctx := context.Background()

	newer := item.Clone()
	newer.Version = 5
	newer.Amount = 9000
	doc := entity.NewBudgetDocument("uid-b")
	doc.Items = append(doc.Items, newer)
	f.store.Seed(doc)

	stale := item.Clone()
	stale.Version = 2
	stale.Amount = 100
	err := f.engine.replicator.Apply(ctx, stale, stale.Key(), nil)

	var partial *domainerror.PartialReplicationError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{"uid-b"}, partial.FailedUserIDs())
	assert.ErrorIs(t, err, domainerror.ErrVersionConflict)
	assert.Empty(t, f.jobs.Jobs())
	assert.Equal(t, 100.0, f.copyOf(t, "uid-a", item.ID).Amount)
	assert.Equal(t, 9000.0, f.copyOf(t, "uid-b", item.ID).Amount)
}

// queueFailedExpense adds an expense as uid-b while uid-c's store is down and
// returns the upsert job queued for uid-c.
func (f *fixture) queueFailedExpense(t *testing.T, item *entity.BudgetItem) *entity.ReplicationJob {
	t.Helper()
	f.store.FailSet("uid-c", true)
	_, err := f.engine.Mutate(context.Background(), "uid-b", item.ID, ledger.ActionWriteExpense, addExpense("Hotel", 1500, "uid-b"))
	require.ErrorIs(t, err, domainerror.ErrPartialReplication)
	f.store.FailSet("uid-c", false)

	jobs := f.jobs.Jobs()
	require.Len(t, jobs, 1)
	require.Equal(t, entity.ReplicationUpsert, jobs[0].Kind)
	return jobs[0]
}

func TestEngine_Repair_AfterDelete(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	item := f.share(t, "Goa Trip", 6000, editor("uid-b", "bob"), editor("uid-c", "carol"))
	ctx := context.Background()
	job := f.queueFailedExpense(t, item)

	deleted, err := f.engine.Delete(ctx, "uid-a", item.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	require.NoError(t, f.engine.Repair(ctx, job))

	for _, uid := range []string{"uid-a", "uid-b", "uid-c"} {
		assert.Nil(t, f.store.Document(uid).FindByID(item.ID), uid)
	}
}

func TestEngine_Repair_AfterContributorRemoval(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	item := f.share(t, "Goa Trip", 6000, editor("uid-b", "bob"), editor("uid-c", "carol"))
	ctx := context.Background()
	job := f.queueFailedExpense(t, item)

	_, err := f.engine.Mutate(ctx, "uid-a", item.ID, ledger.ActionManageBudget, func(it *entity.BudgetItem) error {
		it.Contributors = it.Contributors[:2]
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, f.engine.Repair(ctx, job))
	assert.Nil(t, f.store.Document("uid-c").FindByID(item.ID))

	t.Run("re-adding brings the copy back", func(t *testing.T) {
		_, err := f.engine.Mutate(ctx, "uid-a", item.ID, ledger.ActionManageBudget, func(it *entity.BudgetItem) error {
			it.Contributors = append(it.Contributors, editor("uid-c", "carol"))
			return nil
		})
		require.NoError(t, err)

		held := f.copyOf(t, "uid-c", item.ID)
		assert.Equal(t, int64(4), held.Version)
		assert.Equal(t, []string{"Hotel"}, expenseNames(held))
		assert.Nil(t, f.store.Document("uid-c").Tombstone(item.ID))
	})
}

func TestEngine_Repair_AfterTripPurge(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	ctx := context.Background()
	tripID := uuid.New()
	item := entity.NewBudgetItem("Goa", entity.CategoryTour, 3000, entity.Contributor{UID: "uid-a"},
		[]entity.Contributor{editor("uid-b", "bob"), editor("uid-c", "carol")})
	item.TripID = &tripID
	_, err := f.engine.Create(ctx, item)
	require.NoError(t, err)
	job := f.queueFailedExpense(t, item)

	removed, err := f.engine.PurgeTrip(ctx, tripID)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	require.NoError(t, f.engine.Repair(ctx, job))
	assert.Empty(t, f.store.Document("uid-c").Items)

	_, err = f.engine.Mutate(ctx, "uid-a", item.ID, ledger.ActionWriteExpense, addExpense("Cab", 10, "uid-a"))
	assert.ErrorIs(t, err, domainerror.ErrBudgetNotFound)
}

func TestEngine_Mutate_BuriedElsewhereIsGone(t *testing.T) {
	f := newFixture(ledger.OverspendWarn)
	item := f.share(t, "Goa Trip", 6000, editor("uid-b", "bob"))
	ctx := context.Background()

	// uid-b's copy survives the delete.
	f.store.FailSet("uid-b", true)
	_, err := f.engine.Delete(ctx, "uid-a", item.ID)
	require.ErrorIs(t, err, domainerror.ErrPartialReplication)
	f.store.FailSet("uid-b", false)
	before := f.store.TotalWrites()

	_, err = f.engine.Mutate(ctx, "uid-b", item.ID, ledger.ActionWriteExpense, addExpense("Cab", 10, "uid-b"))

	assert.ErrorIs(t, err, domainerror.ErrBudgetNotFound)
	assert.Equal(t, before, f.store.TotalWrites())
	assert.Nil(t, f.store.Document("uid-a").FindByID(item.ID))
}
