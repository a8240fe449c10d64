package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"courtbook/internal/events"
	invoiceserrors "courtbook/internal/invoices/errors"
	"courtbook/internal/invoices/repository"
	"courtbook/pkg/calendar"
	"courtbook/pkg/config"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/metrics"
	"courtbook/pkg/model"
)

type InvoiceService interface {
	// Issue creates the pending invoice of a reservation. It joins the
	// caller's transaction when there is one; the caller publishes
	// InvoiceIssued after commit.
	Issue(ctx context.Context, reservation *model.Reservation, court *model.Court) (*model.Invoice, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (*model.Invoice, error)
	// Void is used by reservation cancellation and joins its transaction.
	Void(ctx context.Context, id string) (*model.Invoice, error)
	GetByID(ctx context.Context, id string) (*model.Invoice, error)
	GetByReservation(ctx context.Context, reservationID string) (*model.Invoice, error)
}

type invoiceService struct {
	repo      repository.InvoiceRepository
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewInvoiceService(repo repository.InvoiceRepository, publisher events.Publisher, cfg *config.Config) InvoiceService {
	return &invoiceService{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *invoiceService) Issue(ctx context.Context, reservation *model.Reservation, court *model.Court) (*model.Invoice, error) {
	if reservation.Status == model.ReservationCancelled || reservation.Status == model.ReservationCompleted {
		return nil, apperrors.InvalidState(invoiceserrors.ErrInvalidInvoiceState, apperrors.CodeInvalidInvoiceState,
			fmt.Sprintf("Cannot invoice a %s reservation", reservation.Status))
	}

	dueDate, err := s.dueDate(reservation.ReservationDate)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute invoice due date", err)
	}

	invoice := &model.Invoice{
		ID:              uuid.NewString(),
		ReservationID:   reservation.ID,
		CourtID:         reservation.CourtID,
		CustomerID:      reservation.CustomerID,
		ReservationDate: reservation.ReservationDate,
		AmountCents:     court.PriceCents(reservation.Window().Duration()),
		DueDate:         dueDate,
		Status:          model.InvoicePending,
	}

	err = s.repo.ExecuteTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindByReservationID(ctx, reservation.ID)
		if err == nil {
			return s.alreadyIssued(existing)
		}
		if !errors.Is(err, invoiceserrors.ErrNotFound) {
			return apperrors.Internal("Failed to check existing invoice", err)
		}

		if err := s.repo.Create(ctx, invoice); err != nil {
			if errors.Is(err, invoiceserrors.ErrInvoiceAlreadyExists) {
				return apperrors.InvalidState(err, apperrors.CodeInvoiceAlreadyExists, "An invoice was already issued for this reservation")
			}
			return apperrors.Internal("Failed to create invoice", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Invoice issued",
		"invoice_id", invoice.ID,
		"reservation_id", reservation.ID,
		"amount", invoice.Amount(),
		"due_date", invoice.DueDate,
	)
	return invoice, nil
}

func (s *invoiceService) alreadyIssued(existing *model.Invoice) error {
	s.cfg.Log.Error("Invoice already issued",
		"invoice_id", existing.ID,
		"reservation_id", existing.ReservationID,
	)
	return apperrors.InvalidState(invoiceserrors.ErrInvoiceAlreadyExists, apperrors.CodeInvoiceAlreadyExists,
		"An invoice was already issued for this reservation").
		WithDetails(map[string]any{"invoice_id": existing.ID})
}

func (s *invoiceService) MarkPaid(ctx context.Context, id string, paidAt time.Time) (*model.Invoice, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if paidAt.IsZero() {
		paidAt = s.now()
	}
	paidAt = paidAt.UTC()

	invoice, err := s.transition(ctx, id, model.InvoicePending, model.InvoicePaid, &paidAt)
	if err != nil {
		return nil, err
	}

	metrics.RecordInvoiceTransition(string(model.InvoicePaid))
	s.publish(ctx, events.ForInvoice(events.InvoicePaid, invoice))
	s.cfg.Log.Info("Invoice paid", "invoice_id", id, "reservation_id", invoice.ReservationID, "paid_at", paidAt)
	return invoice, nil
}

func (s *invoiceService) Void(ctx context.Context, id string) (*model.Invoice, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	invoice, err := s.transition(ctx, id, model.InvoicePending, model.InvoiceVoid, nil)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Invoice voided", "invoice_id", id, "reservation_id", invoice.ReservationID)
	return invoice, nil
}

// transition applies from -> to as a conditional update. A concurrent change
// is reported as the state the invoice is actually in.
func (s *invoiceService) transition(ctx context.Context, id string, from, to model.InvoiceStatus, paidAt *time.Time) (*model.Invoice, error) {
	var updated *model.Invoice
	err := s.repo.ExecuteTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return s.mapRepoError(err, id)
		}
		if current.Status != from {
			return s.invalidState(current, to)
		}

		updated, err = s.repo.UpdateStatus(ctx, id, from, to, paidAt)
		if errors.Is(err, invoiceserrors.ErrStatusMismatch) {
			latest, findErr := s.repo.FindByID(ctx, id)
			if findErr != nil {
				return s.mapRepoError(findErr, id)
			}
			return s.invalidState(latest, to)
		}
		if err != nil {
			return s.mapRepoError(err, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *invoiceService) invalidState(current *model.Invoice, to model.InvoiceStatus) error {
	s.cfg.Log.Error("Invalid invoice transition",
		"invoice_id", current.ID,
		"status", current.Status,
		"requested", to,
	)
	if current.Status == model.InvoicePaid {
		return apperrors.InvalidState(invoiceserrors.ErrInvoiceAlreadyPaid, apperrors.CodeInvalidInvoiceState,
			"Invoice is already paid")
	}
	return apperrors.InvalidState(invoiceserrors.ErrInvalidInvoiceState, apperrors.CodeInvalidInvoiceState,
		fmt.Sprintf("Invoice is %s and cannot become %s", current.Status, to))
}

func (s *invoiceService) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return invoice, nil
}

func (s *invoiceService) GetByReservation(ctx context.Context, reservationID string) (*model.Invoice, error) {
	if reservationID == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	invoice, err := s.repo.FindByReservationID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, invoiceserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Invoice for reservation " + reservationID)
		}
		return nil, apperrors.Internal("Failed to retrieve invoice", err)
	}
	return invoice, nil
}

func (s *invoiceService) dueDate(reservationDate string) (string, error) {
	date, err := calendar.ParseDate(reservationDate)
	if err != nil {
		return "", err
	}
	return date.AddDays(s.cfg.InvoiceDueDays).String(), nil
}

func (s *invoiceService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.cfg.Log.Warn("Failed to publish event", "type", event.Type, "key", event.Key, "error", err)
	}
}

func (s *invoiceService) mapRepoError(err error, id string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, invoiceserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Invoice", id)
	case errors.Is(err, invoiceserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid invoice ID format")
	default:
		return apperrors.Internal("Failed to access invoice", err)
	}
}

func validateID(id string) error {
	if id == "" {
		return apperrors.InvalidInput("Invoice ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Wrap(invoiceserrors.ErrInvalidID, apperrors.CodeInvalidInput, "Invalid invoice ID format", 400)
	}
	return nil
}
