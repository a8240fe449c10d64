package memory

import (
	"context"
	"slices"
	"time"

	reservationserrors "courtbook/internal/reservations/errors"
	"courtbook/internal/reservations/repository"
	"courtbook/pkg/db"
	"courtbook/pkg/model"
)

type reservationRepository struct {
	db *DB
}

func (d *DB) Reservations() repository.ReservationRepository {
	return &reservationRepository{db: d}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	now := time.Now().UTC()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	return r.db.write(ctx, func(trx *transaction) error {
		trx.reservations[reservation.ID] = *reservation
		return nil
	})
}

func (r *reservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	res, ok := r.db.reservation(ctx, id)
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	return &res, nil
}

func (r *reservationRepository) FindByCourtAndDate(ctx context.Context, courtID string, date string, includeCancelled bool) ([]*model.Reservation, error) {
	matches := r.db.snapshotReservations(ctx, func(res model.Reservation) bool {
		if res.CourtID != courtID || res.ReservationDate != date {
			return false
		}
		return includeCancelled || res.Status != model.ReservationCancelled
	})
	return sortedByStart(matches), nil
}

func (r *reservationRepository) FindConfirmedEndedBefore(ctx context.Context, t time.Time, limit int) ([]*model.Reservation, error) {
	matches := r.db.snapshotReservations(ctx, func(res model.Reservation) bool {
		return res.Status == model.ReservationConfirmed && !res.EndTime.After(t)
	})
	out := sortedByStart(matches)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id string, from []model.ReservationStatus, change model.StatusChange) (*model.Reservation, error) {
	var updated model.Reservation
	err := r.db.write(ctx, func(trx *transaction) error {
		res, ok := r.db.reservation(ctx, id)
		if !ok {
			return reservationserrors.ErrNotFound
		}
		if !slices.Contains(from, res.Status) {
			return reservationserrors.ErrStatusMismatch
		}

		at := change.At.UTC()
		res.Status = change.To
		res.UpdatedAt = at
		switch change.To {
		case model.ReservationCancelled:
			res.CancelledBy = change.CancelledBy
			res.CancelledAt = &at
		case model.ReservationCompleted:
			res.CompletedAt = &at
		}
		if change.InvoiceID != "" {
			res.InvoiceID = change.InvoiceID
		}

		trx.reservations[id] = res
		updated = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *reservationRepository) ExecuteTransaction(ctx context.Context, fn db.TransactionFunc) error {
	return r.db.ExecuteTransaction(ctx, fn)
}

func sortedByStart(in []model.Reservation) []*model.Reservation {
	slices.SortFunc(in, func(a, b model.Reservation) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return compareStrings(a.ID, b.ID)
	})
	out := make([]*model.Reservation, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
