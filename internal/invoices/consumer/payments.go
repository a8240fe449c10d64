// Package consumer turns payment notices from Kafka into invoice transitions.
package consumer

import (
	"context"
	"errors"

	invoiceserrors "courtbook/internal/invoices/errors"
	"courtbook/internal/invoices/service"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/kafka"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"
)

type PaymentsConsumer struct {
	service service.InvoiceService
	log     *logger.Logger
}

func NewPaymentsConsumer(service service.InvoiceService, log *logger.Logger) *PaymentsConsumer {
	return &PaymentsConsumer{service: service, log: log}
}

// Handle marks the invoice named by the notice as paid. A redelivered notice
// for an invoice that is already paid is acknowledged.
func (c *PaymentsConsumer) Handle(ctx context.Context, msg kafka.Message) error {
	var notice model.PaymentNotice
	if err := msg.DecodeValue(&notice); err != nil {
		return kafka.NewPermanentError("malformed payment notice", err)
	}
	if notice.InvoiceID == "" {
		return kafka.NewPermanentError("payment notice without invoice_id", nil)
	}

	_, err := c.service.MarkPaid(ctx, notice.InvoiceID, notice.PaidAt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, invoiceserrors.ErrInvoiceAlreadyPaid):
		c.log.Info("Duplicate payment notice ignored", "invoice_id", notice.InvoiceID, "event_id", msg.GetEventID())
		return nil
	case retryable(err):
		return kafka.NewTransientError("invoice store unavailable", err)
	default:
		return kafka.NewPermanentError("payment rejected", err)
	}
}

func retryable(err error) bool {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return true
	}
	return appErr.Retryable() || appErr.Code == apperrors.CodeInternal
}
