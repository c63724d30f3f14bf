package mock

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/trip-planner/backend/internal/domain/entity"
)

// UserRepository is an in-memory user directory.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entity.User
}

func NewUserRepository(users ...*entity.User) *UserRepository {
	r := &UserRepository{users: map[string]*entity.User{}}
	for _, u := range users {
		r.Add(u)
	}
	return r
}

func (r *UserRepository) Add(user *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[id], nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// TripRepository is an in-memory trip store.
type TripRepository struct {
	mu    sync.RWMutex
	trips map[uuid.UUID]*entity.Trip
}

func NewTripRepository() *TripRepository {
	return &TripRepository{trips: map[uuid.UUID]*entity.Trip{}}
}

func (r *TripRepository) Create(_ context.Context, trip *entity.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *trip
	r.trips[trip.ID] = &cp
	return nil
}

func (r *TripRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	trip, ok := r.trips[id]
	if !ok {
		return nil, nil
	}
	cp := *trip
	return &cp, nil
}

func (r *TripRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trips, id)
	return nil
}

// ReplicationJobRepository is an in-memory replication outbox.
type ReplicationJobRepository struct {
	mu   sync.Mutex
	jobs []*entity.ReplicationJob
}

func NewReplicationJobRepository() *ReplicationJobRepository {
	return &ReplicationJobRepository{}
}

func (r *ReplicationJobRepository) Create(_ context.Context, job *entity.ReplicationJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *ReplicationJobRepository) GetPendingJobs(_ context.Context, limit int) ([]*entity.ReplicationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ReplicationJob
	for _, j := range r.jobs {
		if j.Status == entity.ReplicationJobPending && len(out) < limit {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *ReplicationJobRepository) Update(_ context.Context, _ *entity.ReplicationJob) error {
	return nil
}

func (r *ReplicationJobRepository) DeleteOldDoneJobs(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

// Jobs returns every queued job.
func (r *ReplicationJobRepository) Jobs() []*entity.ReplicationJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.ReplicationJob, len(r.jobs))
	copy(out, r.jobs)
	return out
}
