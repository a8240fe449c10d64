package memory

import (
	"context"
	"sync"
	"time"

	reservationserrors "courtbook/internal/reservations/errors"
	"courtbook/internal/reservations/repository"
	"courtbook/pkg/model"
)

type lockRepository struct {
	mu    sync.Mutex
	locks map[string]model.CourtLock
	now   func() time.Time
}

// NewCourtLocks returns an in-process lock table. Expired locks are taken
// over by the next caller.
func NewCourtLocks() repository.CourtLockRepository {
	return &lockRepository{
		locks: make(map[string]model.CourtLock),
		now:   time.Now,
	}
}

func (r *lockRepository) Create(_ context.Context, lock *model.CourtLock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if held, ok := r.locks[lock.ID]; ok && !held.Expired(now) {
		return reservationserrors.ErrLockHeld
	}

	lock.CreatedAt = now
	r.locks[lock.ID] = *lock
	return nil
}

func (r *lockRepository) Delete(_ context.Context, lock *model.CourtLock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if held, ok := r.locks[lock.ID]; ok && held.Owner == lock.Owner {
		delete(r.locks, lock.ID)
	}
	return nil
}
