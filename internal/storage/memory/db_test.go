package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invoiceserrors "courtbook/internal/invoices/errors"
	reservationserrors "courtbook/internal/reservations/errors"
	"courtbook/pkg/db"
	"courtbook/pkg/model"
)

func newReservation(id string, start time.Time) *model.Reservation {
	return &model.Reservation{
		ID:              id,
		CustomerID:      "c1",
		CourtID:         "court-1",
		Unit:            model.WholeCourt(),
		ReservationDate: start.Format(time.DateOnly),
		StartTime:       start,
		EndTime:         start.Add(time.Hour),
		Status:          model.ReservationPending,
	}
}

func TestExecuteTransaction_CommitsOnSuccess(t *testing.T) {
	store := New(time.Second)
	repo := store.Reservations()
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	err := repo.ExecuteTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.Create(ctx, newReservation("r1", start)))

		got, err := repo.FindByID(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, model.ReservationPending, got.Status)
		return nil
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "court-1", got.CourtID)
}

func TestExecuteTransaction_RollsBackOnError(t *testing.T) {
	store := New(time.Second)
	reservations := store.Reservations()
	invoices := store.Invoices()
	ctx := context.Background()
	boom := errors.New("boom")

	err := reservations.ExecuteTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, reservations.Create(ctx, newReservation("r1", time.Now())))
		require.NoError(t, invoices.Create(ctx, &model.Invoice{ID: "i1", ReservationID: "r1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = reservations.FindByID(ctx, "r1")
	assert.ErrorIs(t, err, reservationserrors.ErrNotFound)
	_, err = invoices.FindByReservationID(ctx, "r1")
	assert.ErrorIs(t, err, invoiceserrors.ErrNotFound)
}

func TestExecuteTransaction_NestedJoinsOuter(t *testing.T) {
	store := New(time.Second)
	repo := store.Reservations()
	ctx := context.Background()

	err := repo.ExecuteTransaction(ctx, func(outer context.Context) error {
		return store.ExecuteTransaction(outer, func(inner context.Context) error {
			return repo.Create(inner, newReservation("r1", time.Now()))
		})
	})
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, "r1")
	assert.NoError(t, err)
}

func TestExecuteTransaction_BusyWhenWriterHeld(t *testing.T) {
	store := New(50 * time.Millisecond)
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = store.ExecuteTransaction(ctx, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err := store.ExecuteTransaction(ctx, func(context.Context) error { return nil })
	close(release)

	assert.ErrorIs(t, err, db.ErrBusy)
}

func TestReservations_FindByCourtAndDate(t *testing.T) {
	store := New(time.Second)
	repo := store.Reservations()
	ctx := context.Background()
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	late := newReservation("late", day.Add(15*time.Hour))
	early := newReservation("early", day.Add(9*time.Hour))
	cancelled := newReservation("gone", day.Add(11*time.Hour))
	cancelled.Status = model.ReservationCancelled
	other := newReservation("other", day.Add(9*time.Hour))
	other.CourtID = "court-2"

	for _, r := range []*model.Reservation{late, early, cancelled, other} {
		require.NoError(t, repo.Create(ctx, r))
	}

	got, err := repo.FindByCourtAndDate(ctx, "court-1", "2026-05-01", false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].ID)
	assert.Equal(t, "late", got[1].ID)

	all, err := repo.FindByCourtAndDate(ctx, "court-1", "2026-05-01", true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestReservations_UpdateStatus(t *testing.T) {
	store := New(time.Second)
	repo := store.Reservations()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newReservation("r1", time.Now())))

	at := time.Now()
	updated, err := repo.UpdateStatus(ctx, "r1",
		[]model.ReservationStatus{model.ReservationPending},
		model.StatusChange{To: model.ReservationConfirmed, InvoiceID: "i1", At: at})
	require.NoError(t, err)
	assert.Equal(t, model.ReservationConfirmed, updated.Status)
	assert.Equal(t, "i1", updated.InvoiceID)

	_, err = repo.UpdateStatus(ctx, "r1",
		[]model.ReservationStatus{model.ReservationPending},
		model.StatusChange{To: model.ReservationCancelled, At: at})
	assert.ErrorIs(t, err, reservationserrors.ErrStatusMismatch)

	cancelled, err := repo.UpdateStatus(ctx, "r1",
		[]model.ReservationStatus{model.ReservationPending, model.ReservationConfirmed},
		model.StatusChange{To: model.ReservationCancelled, CancelledBy: "staff", At: at})
	require.NoError(t, err)
	assert.Equal(t, "staff", cancelled.CancelledBy)
	require.NotNil(t, cancelled.CancelledAt)

	_, err = repo.UpdateStatus(ctx, "missing", nil, model.StatusChange{To: model.ReservationCancelled})
	assert.ErrorIs(t, err, reservationserrors.ErrNotFound)
}

func TestReservations_FindConfirmedEndedBefore(t *testing.T) {
	store := New(time.Second)
	repo := store.Reservations()
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	ended := newReservation("ended", now.Add(-2*time.Hour))
	ended.Status = model.ReservationConfirmed
	running := newReservation("running", now.Add(-30*time.Minute))
	running.Status = model.ReservationConfirmed
	pending := newReservation("pending", now.Add(-3*time.Hour))

	for _, r := range []*model.Reservation{ended, running, pending} {
		require.NoError(t, repo.Create(ctx, r))
	}

	got, err := repo.FindConfirmedEndedBefore(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ended", got[0].ID)
}

func TestInvoices_OnePerReservation(t *testing.T) {
	store := New(time.Second)
	repo := store.Invoices()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Invoice{ID: "i1", ReservationID: "r1", Status: model.InvoicePending}))
	err := repo.Create(ctx, &model.Invoice{ID: "i2", ReservationID: "r1", Status: model.InvoicePending})
	assert.ErrorIs(t, err, invoiceserrors.ErrInvoiceAlreadyExists)

	got, err := repo.FindByReservationID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "i1", got.ID)
}

func TestInvoices_UpdateStatus(t *testing.T) {
	store := New(time.Second)
	repo := store.Invoices()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.Invoice{ID: "i1", ReservationID: "r1", Status: model.InvoicePending}))

	paidAt := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	paid, err := repo.UpdateStatus(ctx, "i1", model.InvoicePending, model.InvoicePaid, &paidAt)
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.True(t, paidAt.Equal(*paid.PaidAt))

	_, err = repo.UpdateStatus(ctx, "i1", model.InvoicePending, model.InvoiceVoid, nil)
	assert.ErrorIs(t, err, invoiceserrors.ErrStatusMismatch)
}

func TestCourtLocks(t *testing.T) {
	locks := NewCourtLocks().(*lockRepository)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	locks.now = func() time.Time { return now }
	ctx := context.Background()

	first := &model.CourtLock{ID: "court_lock_c1_2026-05-01", Owner: "a", ExpiresAt: now.Add(10 * time.Second)}
	require.NoError(t, locks.Create(ctx, first))

	second := &model.CourtLock{ID: first.ID, Owner: "b", ExpiresAt: now.Add(10 * time.Second)}
	assert.ErrorIs(t, locks.Create(ctx, second), reservationserrors.ErrLockHeld)

	// Only the owner releases.
	require.NoError(t, locks.Delete(ctx, second))
	assert.ErrorIs(t, locks.Create(ctx, second), reservationserrors.ErrLockHeld)

	now = now.Add(11 * time.Second)
	assert.NoError(t, locks.Create(ctx, second))

	require.NoError(t, locks.Delete(ctx, second))
	third := &model.CourtLock{ID: first.ID, Owner: "c", ExpiresAt: now.Add(time.Second)}
	assert.NoError(t, locks.Create(ctx, third))
}
