package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	ErrStartInPast = errors.New("reservation cannot start in the past")

	ErrInvalidTransition = errors.New("reservation status does not allow this transition")

	ErrStatusMismatch = errors.New("reservation status changed concurrently")

	ErrNotYetEnded = errors.New("reservation has not ended yet")

	ErrLockHeld = errors.New("court lock is held by another request")

	ErrBusy = errors.New("court is busy, retry later")
)
