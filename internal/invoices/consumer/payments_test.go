package consumer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invoiceserrors "courtbook/internal/invoices/errors"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/kafka"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"
)

type mockInvoiceService struct {
	MarkPaidFunc func(ctx context.Context, id string, paidAt time.Time) (*model.Invoice, error)
}

func (m *mockInvoiceService) Issue(context.Context, *model.Reservation, *model.Court) (*model.Invoice, error) {
	return nil, nil
}

func (m *mockInvoiceService) MarkPaid(ctx context.Context, id string, paidAt time.Time) (*model.Invoice, error) {
	return m.MarkPaidFunc(ctx, id, paidAt)
}

func (m *mockInvoiceService) Void(context.Context, string) (*model.Invoice, error) {
	return nil, nil
}

func (m *mockInvoiceService) GetByID(context.Context, string) (*model.Invoice, error) {
	return nil, nil
}

func (m *mockInvoiceService) GetByReservation(context.Context, string) (*model.Invoice, error) {
	return nil, nil
}

func notice(t *testing.T, v any) kafka.Message {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return kafka.Message{Key: "k", Value: data, Headers: map[string]string{}}
}

func TestHandle(t *testing.T) {
	paidAt := time.Date(2026, 6, 10, 21, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		payload  any
		raw      []byte
		markErr  error
		wantErr  bool
		wantType kafka.ErrorType
	}{
		{
			name:    "paid",
			payload: model.PaymentNotice{InvoiceID: "inv-1", PaidAt: paidAt},
		},
		{
			name:    "duplicate notice is acknowledged",
			payload: model.PaymentNotice{InvoiceID: "inv-1", PaidAt: paidAt},
			markErr: apperrors.InvalidState(invoiceserrors.ErrInvoiceAlreadyPaid, apperrors.CodeInvalidInvoiceState, "paid"),
		},
		{
			name:     "malformed payload",
			raw:      []byte("{"),
			wantErr:  true,
			wantType: kafka.ErrorTypePermanent,
		},
		{
			name:     "missing invoice id",
			payload:  map[string]string{"paid_at": "2026-06-10T21:00:00Z"},
			wantErr:  true,
			wantType: kafka.ErrorTypePermanent,
		},
		{
			name:     "void invoice",
			payload:  model.PaymentNotice{InvoiceID: "inv-1"},
			markErr:  apperrors.InvalidState(invoiceserrors.ErrInvalidInvoiceState, apperrors.CodeInvalidInvoiceState, "void"),
			wantErr:  true,
			wantType: kafka.ErrorTypePermanent,
		},
		{
			name:     "store busy",
			payload:  model.PaymentNotice{InvoiceID: "inv-1"},
			markErr:  apperrors.Busy("busy", nil),
			wantErr:  true,
			wantType: kafka.ErrorTypeTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockInvoiceService{
				MarkPaidFunc: func(_ context.Context, id string, at time.Time) (*model.Invoice, error) {
					assert.Equal(t, "inv-1", id)
					if tt.markErr != nil {
						return nil, tt.markErr
					}
					return &model.Invoice{ID: id, Status: model.InvoicePaid, PaidAt: &at}, nil
				},
			}
			c := NewPaymentsConsumer(svc, logger.Discard())

			msg := kafka.Message{Value: tt.raw, Headers: map[string]string{}}
			if tt.raw == nil {
				msg = notice(t, tt.payload)
			}

			err := c.Handle(context.Background(), msg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantType, kafka.ClassifyError(err))
		})
	}
}
