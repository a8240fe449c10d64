// Package memory is a single-process transactional store for reservations and
// invoices. Writers are serialized by a semaphore with a bounded wait; a
// transaction stages its changes and publishes them together on commit.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"courtbook/pkg/db"
	"courtbook/pkg/model"
)

var ErrTransactionAborted = errors.New("transaction aborted")

type transaction struct {
	id           int64
	reservations map[string]model.Reservation
	invoices     map[string]model.Invoice
}

type DB struct {
	writer chan struct{} // held by the running transaction

	mu                   sync.RWMutex
	reservations         map[string]model.Reservation
	invoices             map[string]model.Invoice
	invoiceByReservation map[string]string

	txTimeout time.Duration
	nextTrxID int64
}

// New creates an empty store. txTimeout bounds both the wait for the writer
// slot and the transaction body.
func New(txTimeout time.Duration) *DB {
	return &DB{
		writer:               make(chan struct{}, 1),
		reservations:         make(map[string]model.Reservation),
		invoices:             make(map[string]model.Invoice),
		invoiceByReservation: make(map[string]string),
		txTimeout:            txTimeout,
	}
}

// ExecuteTransaction runs fn with exclusive write access. Nested calls join
// the outer transaction.
func (d *DB) ExecuteTransaction(ctx context.Context, fn db.TransactionFunc) error {
	if _, ok := transactionFromContext(ctx); ok {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, d.txTimeout)
	defer cancel()

	select {
	case d.writer <- struct{}{}:
	case <-ctx.Done():
		return busyOr(ctx.Err())
	}
	defer func() { <-d.writer }()

	d.nextTrxID++
	trx := &transaction{
		id:           d.nextTrxID,
		reservations: make(map[string]model.Reservation),
		invoices:     make(map[string]model.Invoice),
	}

	if err := fn(withTransaction(ctx, trx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionAborted, busyOr(err))
	}

	d.commit(trx)
	return nil
}

func busyOr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", db.ErrBusy, err)
	}
	return err
}

func (d *DB) commit(trx *transaction) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, r := range trx.reservations {
		d.reservations[id] = r
	}
	for id, inv := range trx.invoices {
		d.invoices[id] = inv
		d.invoiceByReservation[inv.ReservationID] = id
	}
}

// write runs a single mutation, inside the caller's transaction if there is
// one and as its own transaction otherwise.
func (d *DB) write(ctx context.Context, fn func(trx *transaction) error) error {
	if trx, ok := transactionFromContext(ctx); ok {
		return fn(trx)
	}
	return d.ExecuteTransaction(ctx, func(ctx context.Context) error {
		trx, _ := transactionFromContext(ctx)
		return fn(trx)
	})
}

func (d *DB) reservation(ctx context.Context, id string) (model.Reservation, bool) {
	if trx, ok := transactionFromContext(ctx); ok {
		if r, staged := trx.reservations[id]; staged {
			return r, true
		}
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.reservations[id]
	return r, ok
}

func (d *DB) invoice(ctx context.Context, id string) (model.Invoice, bool) {
	if trx, ok := transactionFromContext(ctx); ok {
		if inv, staged := trx.invoices[id]; staged {
			return inv, true
		}
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	inv, ok := d.invoices[id]
	return inv, ok
}

func (d *DB) invoiceIDForReservation(ctx context.Context, reservationID string) (string, bool) {
	if trx, ok := transactionFromContext(ctx); ok {
		for id, inv := range trx.invoices {
			if inv.ReservationID == reservationID {
				return id, true
			}
		}
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.invoiceByReservation[reservationID]
	return id, ok
}

// snapshotReservations returns committed reservations overlaid with the
// transaction's staged ones.
func (d *DB) snapshotReservations(ctx context.Context, keep func(model.Reservation) bool) []model.Reservation {
	merged := make(map[string]model.Reservation)

	d.mu.RLock()
	for id, r := range d.reservations {
		merged[id] = r
	}
	d.mu.RUnlock()

	if trx, ok := transactionFromContext(ctx); ok {
		for id, r := range trx.reservations {
			merged[id] = r
		}
	}

	out := make([]model.Reservation, 0, len(merged))
	for _, r := range merged {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
