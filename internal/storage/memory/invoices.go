package memory

import (
	"context"
	"time"

	invoiceserrors "courtbook/internal/invoices/errors"
	"courtbook/internal/invoices/repository"
	"courtbook/pkg/db"
	"courtbook/pkg/model"
)

type invoiceRepository struct {
	db *DB
}

func (d *DB) Invoices() repository.InvoiceRepository {
	return &invoiceRepository{db: d}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	now := time.Now().UTC()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	return r.db.write(ctx, func(trx *transaction) error {
		if _, exists := r.db.invoiceIDForReservation(ctx, invoice.ReservationID); exists {
			return invoiceserrors.ErrInvoiceAlreadyExists
		}
		trx.invoices[invoice.ID] = *invoice
		return nil
	})
}

func (r *invoiceRepository) FindByID(ctx context.Context, id string) (*model.Invoice, error) {
	inv, ok := r.db.invoice(ctx, id)
	if !ok {
		return nil, invoiceserrors.ErrNotFound
	}
	return &inv, nil
}

func (r *invoiceRepository) FindByReservationID(ctx context.Context, reservationID string) (*model.Invoice, error) {
	id, ok := r.db.invoiceIDForReservation(ctx, reservationID)
	if !ok {
		return nil, invoiceserrors.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id string, from, to model.InvoiceStatus, paidAt *time.Time) (*model.Invoice, error) {
	var updated model.Invoice
	err := r.db.write(ctx, func(trx *transaction) error {
		inv, ok := r.db.invoice(ctx, id)
		if !ok {
			return invoiceserrors.ErrNotFound
		}
		if inv.Status != from {
			return invoiceserrors.ErrStatusMismatch
		}

		inv.Status = to
		inv.UpdatedAt = time.Now().UTC()
		if paidAt != nil {
			at := paidAt.UTC()
			inv.PaidAt = &at
		}

		trx.invoices[id] = inv
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *invoiceRepository) ExecuteTransaction(ctx context.Context, fn db.TransactionFunc) error {
	return r.db.ExecuteTransaction(ctx, fn)
}
