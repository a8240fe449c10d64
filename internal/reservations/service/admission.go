package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"courtbook/internal/availability"
	reservationserrors "courtbook/internal/reservations/errors"
	"courtbook/pkg/calendar"
	"courtbook/pkg/db"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/metrics"
	"courtbook/pkg/model"
)

const (
	lockPollMin = 10 * time.Millisecond
	lockPollMax = 100 * time.Millisecond

	busyRetryDelay = 25 * time.Millisecond
)

func lockKey(courtID string, date calendar.Date) string {
	return fmt.Sprintf("court_lock_%s_%s", courtID, date)
}

// lock takes the court/date lock, polling until LockWaitTimeout. The returned
// release func never fails the caller; a lost release only delays the next
// admission until the TTL runs out.
func (s *reservationService) lock(ctx context.Context, courtID string, date calendar.Date) (func(), error) {
	started := time.Now()
	deadline := started.Add(s.cfg.LockWaitTimeout)
	wait := lockPollMin

	lock := &model.CourtLock{
		ID:    lockKey(courtID, date),
		Owner: uuid.NewString(),
	}

	for {
		// Expiry is wall clock even when the service clock is replaced.
		lock.ExpiresAt = time.Now().Add(s.cfg.LockTTL)

		err := s.locks.Create(ctx, lock)
		if err == nil {
			metrics.RecordLockWait(time.Since(started).Seconds())
			return func() { s.unlock(ctx, lock) }, nil
		}
		if !errors.Is(err, reservationserrors.ErrLockHeld) {
			return nil, apperrors.Internal("Failed to acquire court lock", err)
		}
		if time.Now().Add(wait).After(deadline) {
			metrics.RecordLockWait(time.Since(started).Seconds())
			return nil, fmt.Errorf("%w: %s", reservationserrors.ErrBusy, lock.ID)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, lockPollMax)
	}
}

func (s *reservationService) unlock(ctx context.Context, lock *model.CourtLock) {
	if err := s.locks.Delete(context.WithoutCancel(ctx), lock); err != nil {
		s.cfg.Log.Warn("Failed to release court lock",
			"lock_id", lock.ID,
			"owner", lock.Owner,
			"error", err,
		)
	}
}

// withBusyRetry repeats fn once when it failed on contention.
func (s *reservationService) withBusyRetry(ctx context.Context, operation string, fn func() error) error {
	err := fn()
	if err == nil || !isBusy(err) {
		return err
	}

	s.cfg.Log.Warn("Contention detected, retrying once", "operation", operation, "error", err)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(busyRetryDelay):
	}
	return fn()
}

func isBusy(err error) bool {
	return errors.Is(err, db.ErrBusy) ||
		errors.Is(err, reservationserrors.ErrBusy) ||
		apperrors.HasCode(err, apperrors.CodeBusy)
}

// rejection maps an admission or lifecycle failure onto the AppError the
// transport reports.
func (s *reservationService) rejection(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.HasCode(err, apperrors.CodeBusy):
		return err
	case isBusy(err):
		return apperrors.Busy("Court is busy, retry the request", err)
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout("Request timed out")
	case errors.Is(err, calendar.ErrInvalidConfiguration):
		s.cfg.Log.Error("Court has invalid configuration", "error", err)
		return apperrors.Configuration("Court is misconfigured", err)
	case errors.Is(err, availability.ErrOutsideOperatingHours):
		return apperrors.Rejected(err, apperrors.CodeOutsideHours, "Requested time is outside operating hours")
	case errors.Is(err, availability.ErrInvalidDuration):
		return apperrors.Rejected(err, apperrors.CodeInvalidDuration, "Requested duration does not fit the court's slots")
	case errors.Is(err, availability.ErrSlotOccupied):
		return apperrors.Rejected(err, apperrors.CodeSlotOccupied, "Requested slot is already reserved")
	case errors.Is(err, availability.ErrNoSectionAvailable):
		return apperrors.Rejected(err, apperrors.CodeNoSectionAvailable, "No section is free for the requested time")
	case errors.Is(err, availability.ErrInvalidUnit):
		return apperrors.Rejected(err, apperrors.CodeInvalidInput, "Requested section does not exist on this court")
	default:
		return apperrors.Internal("Failed to process reservation", err)
	}
}
