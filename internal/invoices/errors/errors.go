package errors

import "errors"

var (
	ErrNotFound = errors.New("invoice not found")

	ErrInvalidID = errors.New("invalid invoice ID format")

	ErrInvoiceAlreadyExists = errors.New("an invoice was already issued for this reservation")

	ErrInvoiceAlreadyPaid = errors.New("invoice is already paid")

	ErrInvalidInvoiceState = errors.New("invoice status does not allow this transition")

	ErrStatusMismatch = errors.New("invoice status changed concurrently")
)
