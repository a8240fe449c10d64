package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"courtbook/internal/availability"
	"courtbook/internal/catalog"
	"courtbook/internal/events"
	invoiceserrors "courtbook/internal/invoices/errors"
	invoiceservice "courtbook/internal/invoices/service"
	reservationserrors "courtbook/internal/reservations/errors"
	"courtbook/internal/reservations/repository"
	"courtbook/internal/reservations/validator"
	"courtbook/pkg/calendar"
	"courtbook/pkg/config"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/metrics"
	"courtbook/pkg/model"
	"courtbook/pkg/sanitizer"
)

// sweepBatchSize bounds one CompleteElapsed pass.
const sweepBatchSize = 100

type ReservationService interface {
	// Request admits a booking: it validates the request against the
	// court's schedule and current reservations, then writes a confirmed
	// reservation and its invoice in one transaction.
	Request(ctx context.Context, req *model.BookingRequest) (*model.Reservation, error)
	Cancel(ctx context.Context, id string, actor string) (*model.Reservation, error)
	MarkCompleted(ctx context.Context, id string) (*model.Reservation, error)
	// CompleteElapsed moves confirmed reservations whose end has passed to
	// completed and reports how many it moved.
	CompleteElapsed(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	ListByCourtAndDate(ctx context.Context, courtID string, date string, includeCancelled bool) ([]*model.Reservation, error)
	AvailableSlots(ctx context.Context, courtID string, date string, unit string) ([]calendar.Window, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	locks     repository.CourtLockRepository
	courts    catalog.Reader
	invoices  invoiceservice.InvoiceService
	engine    *availability.Engine
	validator *validator.ReservationValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

type Option func(*reservationService)

// WithClock replaces the clock used for the start-in-past and completion
// checks.
func WithClock(now func() time.Time) Option {
	return func(s *reservationService) {
		s.now = now
	}
}

func NewReservationService(
	repo repository.ReservationRepository,
	locks repository.CourtLockRepository,
	courts catalog.Reader,
	invoices invoiceservice.InvoiceService,
	engine *availability.Engine,
	validator *validator.ReservationValidator,
	publisher events.Publisher,
	cfg *config.Config,
	opts ...Option,
) ReservationService {
	s := &reservationService{
		repo:      repo,
		locks:     locks,
		courts:    courts,
		invoices:  invoices,
		engine:    engine,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// booking is a request resolved against the catalog.
type booking struct {
	req    *model.BookingRequest
	court  *model.Court
	date   calendar.Date
	unit   model.Unit
	window calendar.Window
}

func (s *reservationService) Request(ctx context.Context, req *model.BookingRequest) (*model.Reservation, error) {
	started := time.Now()

	b, err := s.resolve(ctx, req)
	if err != nil {
		s.recordAdmission(err, started)
		return nil, err
	}

	var reservation *model.Reservation
	var invoice *model.Invoice
	err = s.withBusyRetry(ctx, "request", func() error {
		var admitErr error
		reservation, invoice, admitErr = s.admit(ctx, b)
		return admitErr
	})
	s.recordAdmission(err, started)
	if err != nil {
		return nil, s.rejection(err)
	}

	s.publish(ctx, events.ForReservation(events.ReservationConfirmed, reservation))
	s.publish(ctx, events.ForInvoice(events.InvoiceIssued, invoice))
	metrics.RecordReservationTransition(string(model.ReservationConfirmed))

	s.cfg.Log.Info("Reservation confirmed",
		"reservation_id", reservation.ID,
		"court_id", reservation.CourtID,
		"unit", reservation.Unit.String(),
		"window", reservation.Window().String(),
		"invoice_id", invoice.ID,
	)
	return reservation, nil
}

// resolve validates the request shape and places it on the court's schedule.
func (s *reservationService) resolve(ctx context.Context, req *model.BookingRequest) (*booking, error) {
	sanitizeRequest(req)
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, validationError("Booking request validation failed", err)
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid date: " + err.Error())
	}
	unit, err := model.ParseUnit(req.Section)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	court, err := s.court(ctx, req.CourtID)
	if err != nil {
		return nil, err
	}

	var window calendar.Window
	if req.SlotIndex != nil {
		window, err = s.engine.SlotWindow(court, date, *req.SlotIndex, req.SlotCount)
	} else {
		window, err = s.explicitWindow(court, date, req.StartTime, req.EndTime)
	}
	if err != nil {
		return nil, s.rejection(err)
	}

	if window.Start.Before(s.now()) {
		return nil, apperrors.Rejected(reservationserrors.ErrStartInPast, apperrors.CodeInvalidInput,
			"Reservation cannot start in the past")
	}

	// Checked again under the lock in admit.
	existing, err := s.repo.FindByCourtAndDate(ctx, court.ID, date.String(), false)
	if err != nil {
		return nil, apperrors.Internal("Failed to load reservations", err)
	}
	if _, err := s.engine.ValidateRequest(court, date, unit, window, existing); err != nil {
		return nil, s.rejection(err)
	}

	return &booking{req: req, court: court, date: date, unit: unit, window: window}, nil
}

func (s *reservationService) explicitWindow(court *model.Court, date calendar.Date, start, end string) (calendar.Window, error) {
	schedule, err := availability.NewSchedule(court, date)
	if err != nil {
		return calendar.Window{}, err
	}
	from, err := calendar.ParseTimeOfDay(start)
	if err != nil {
		return calendar.Window{}, apperrors.InvalidInput("Invalid start_time: " + err.Error())
	}
	to, err := calendar.ParseTimeOfDay(end)
	if err != nil {
		return calendar.Window{}, apperrors.InvalidInput("Invalid end_time: " + err.Error())
	}
	return schedule.Window(from, to), nil
}

// admit runs one admission attempt under the court/date lock.
func (s *reservationService) admit(ctx context.Context, b *booking) (*model.Reservation, *model.Invoice, error) {
	release, err := s.lock(ctx, b.court.ID, b.date)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	var reservation *model.Reservation
	var invoice *model.Invoice
	err = s.repo.ExecuteTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindByCourtAndDate(ctx, b.court.ID, b.date.String(), false)
		if err != nil {
			return apperrors.Internal("Failed to load reservations", err)
		}
		admission, err := s.engine.ValidateRequest(b.court, b.date, b.unit, b.window, existing)
		if err != nil {
			return err
		}

		pending := &model.Reservation{
			ID:              uuid.NewString(),
			CustomerID:      b.req.CustomerID,
			CourtID:         b.court.ID,
			Unit:            admission.Unit,
			ReservationDate: b.date.String(),
			StartTime:       admission.Window.Start.UTC(),
			EndTime:         admission.Window.End.UTC(),
			Status:          model.ReservationPending,
			PriceCents:      b.court.PriceCents(admission.Window.Duration()),
		}
		if err := s.repo.Create(ctx, pending); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}

		// Re-check with the row in place. Anything that slipped in between
		// the first read and the insert is caught here.
		current, err := s.repo.FindByCourtAndDate(ctx, b.court.ID, b.date.String(), false)
		if err != nil {
			return apperrors.Internal("Failed to reload reservations", err)
		}
		if _, err := s.engine.ValidateRequest(b.court, b.date, admission.Unit, admission.Window, without(current, pending.ID)); err != nil {
			return err
		}

		invoice, err = s.invoices.Issue(ctx, pending, b.court)
		if err != nil {
			return err
		}

		reservation, err = s.repo.UpdateStatus(ctx, pending.ID,
			[]model.ReservationStatus{model.ReservationPending},
			model.StatusChange{To: model.ReservationConfirmed, InvoiceID: invoice.ID, At: s.now()})
		if err != nil {
			return apperrors.Internal("Failed to confirm reservation", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return reservation, invoice, nil
}

func without(reservations []*model.Reservation, id string) []*model.Reservation {
	out := make([]*model.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

func (s *reservationService) Cancel(ctx context.Context, id string, actor string) (*model.Reservation, error) {
	actor = sanitizer.NormalizeActor(actor)
	if err := s.validator.ValidateCancel(&model.CancelRequest{Actor: actor}); err != nil {
		return nil, validationError("Cancel request validation failed", err)
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	date, err := calendar.ParseDate(existing.ReservationDate)
	if err != nil {
		return nil, apperrors.Internal("Stored reservation has a malformed date", err)
	}

	var cancelled *model.Reservation
	var voided *model.Invoice
	err = s.withBusyRetry(ctx, "cancel", func() error {
		release, err := s.lock(ctx, existing.CourtID, date)
		if err != nil {
			return err
		}
		defer release()

		return s.repo.ExecuteTransaction(ctx, func(ctx context.Context) error {
			current, err := s.repo.FindByID(ctx, id)
			if err != nil {
				return s.mapRepoError(err, id)
			}
			if !current.Status.CanTransitionTo(model.ReservationCancelled) {
				return invalidTransition(current, model.ReservationCancelled)
			}

			invoice, err := s.invoiceOf(ctx, current)
			if err != nil {
				return err
			}
			if invoice != nil && invoice.Status == model.InvoicePaid {
				return apperrors.InvalidState(errors.Join(reservationserrors.ErrInvalidTransition, invoiceserrors.ErrInvoiceAlreadyPaid),
					apperrors.CodeInvoiceAlreadyPaid, "Reservation has a paid invoice and must be refunded instead")
			}

			cancelled, err = s.repo.UpdateStatus(ctx, id,
				[]model.ReservationStatus{model.ReservationPending, model.ReservationConfirmed},
				model.StatusChange{To: model.ReservationCancelled, CancelledBy: actor, At: s.now()})
			if err != nil {
				return s.mapRepoError(err, id)
			}

			voided = nil
			if invoice != nil && invoice.Status == model.InvoicePending {
				if voided, err = s.invoices.Void(ctx, invoice.ID); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to cancel reservation", "reservation_id", id, "actor", actor, "error", err)
		return nil, s.rejection(err)
	}

	metrics.RecordReservationTransition(string(model.ReservationCancelled))
	s.publish(ctx, events.ForReservation(events.ReservationCancelled, cancelled))
	if voided != nil {
		metrics.RecordInvoiceTransition(string(model.InvoiceVoid))
		s.publish(ctx, events.ForInvoice(events.InvoiceVoided, voided))
	}

	s.cfg.Log.Info("Reservation cancelled", "reservation_id", id, "actor", actor, "invoice_voided", voided != nil)
	return cancelled, nil
}

func (s *reservationService) invoiceOf(ctx context.Context, r *model.Reservation) (*model.Invoice, error) {
	invoice, err := s.invoices.GetByReservation(ctx, r.ID)
	if apperrors.HasCode(err, apperrors.CodeNotFound) {
		return nil, nil
	}
	return invoice, err
}

func (s *reservationService) MarkCompleted(ctx context.Context, id string) (*model.Reservation, error) {
	var completed *model.Reservation
	changed := false
	err := s.repo.ExecuteTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return s.mapRepoError(err, id)
		}

		switch {
		case current.Status == model.ReservationCompleted:
			completed = current
			return nil
		case current.Status != model.ReservationConfirmed:
			return invalidTransition(current, model.ReservationCompleted)
		case s.now().Before(current.EndTime):
			return apperrors.InvalidState(reservationserrors.ErrNotYetEnded, apperrors.CodeInvalidState,
				fmt.Sprintf("Reservation ends at %s", current.EndTime.Format(time.RFC3339)))
		}

		completed, err = s.repo.UpdateStatus(ctx, id,
			[]model.ReservationStatus{model.ReservationConfirmed},
			model.StatusChange{To: model.ReservationCompleted, At: s.now()})
		if errors.Is(err, reservationserrors.ErrStatusMismatch) {
			// Completed or cancelled by someone else meanwhile.
			latest, findErr := s.repo.FindByID(ctx, id)
			if findErr != nil {
				return s.mapRepoError(findErr, id)
			}
			if latest.Status == model.ReservationCompleted {
				completed = latest
				return nil
			}
			return invalidTransition(latest, model.ReservationCompleted)
		}
		if err != nil {
			return s.mapRepoError(err, id)
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, s.rejection(err)
	}

	if changed {
		metrics.RecordReservationTransition(string(model.ReservationCompleted))
		s.publish(ctx, events.ForReservation(events.ReservationCompleted, completed))
		s.cfg.Log.Info("Reservation completed", "reservation_id", id)
	}
	return completed, nil
}

func (s *reservationService) CompleteElapsed(ctx context.Context) (int, error) {
	total := 0
	for {
		due, err := s.repo.FindConfirmedEndedBefore(ctx, s.now(), sweepBatchSize)
		if err != nil {
			return total, apperrors.Internal("Failed to list elapsed reservations", err)
		}

		moved := 0
		for _, r := range due {
			if _, err := s.MarkCompleted(ctx, r.ID); err != nil {
				s.cfg.Log.Warn("Failed to complete reservation", "reservation_id", r.ID, "error", err)
				continue
			}
			moved++
		}
		total += moved

		// A short page, or a page where nothing moved, means we are done.
		if len(due) < sweepBatchSize || moved == 0 {
			return total, nil
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
	}
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, s.mapRepoError(reservationserrors.ErrInvalidID, id)
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return reservation, nil
}

func (s *reservationService) ListByCourtAndDate(ctx context.Context, courtID string, date string, includeCancelled bool) ([]*model.Reservation, error) {
	if courtID == "" {
		return nil, apperrors.InvalidInput("Court ID cannot be empty")
	}
	d, err := calendar.ParseDate(date)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid date: " + err.Error())
	}

	reservations, err := s.repo.FindByCourtAndDate(ctx, courtID, d.String(), includeCancelled)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations", "court_id", courtID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to list reservations", err)
	}
	return reservations, nil
}

// AvailableSlots lists the free generated slots of a court on a date for a
// unit ("", "any" or a section number). Slots that already started are
// left out.
func (s *reservationService) AvailableSlots(ctx context.Context, courtID string, date string, unit string) ([]calendar.Window, error) {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid date: " + err.Error())
	}
	u, err := model.ParseUnit(unit)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	court, err := s.court(ctx, courtID)
	if err != nil {
		return nil, err
	}

	reservations, err := s.repo.FindByCourtAndDate(ctx, courtID, d.String(), false)
	if err != nil {
		return nil, apperrors.Internal("Failed to load reservations", err)
	}

	slots, err := s.engine.ListAvailableSlots(court, d, u, reservations)
	if err != nil {
		return nil, s.rejection(err)
	}

	now := s.now()
	free := []calendar.Window{}
	for slot := range slots {
		if slot.Start.Before(now) {
			continue
		}
		free = append(free, slot)
	}
	return free, nil
}

func sanitizeRequest(req *model.BookingRequest) {
	req.CustomerID = sanitizer.TrimAndNormalize(req.CustomerID)
	req.CourtID = sanitizer.TrimAndNormalize(req.CourtID)
	req.Date = strings.TrimSpace(req.Date)
	req.Section = sanitizer.NormalizeSection(req.Section)
	req.StartTime = sanitizer.NormalizeTimeOfDay(req.StartTime)
	req.EndTime = sanitizer.NormalizeTimeOfDay(req.EndTime)
}

func (s *reservationService) court(ctx context.Context, id string) (*model.Court, error) {
	court, err := s.courts.GetCourt(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrCourtNotFound) {
			return nil, apperrors.NotFoundWithID("Court", id)
		}
		return nil, apperrors.Internal("Failed to load court", err)
	}
	if err := s.validator.ValidateCourt(court); err != nil {
		s.cfg.Log.Error("Court has invalid configuration", "court_id", id, "error", err)
		return nil, apperrors.Configuration("Court is misconfigured", fmt.Errorf("%w: %v", calendar.ErrInvalidConfiguration, err))
	}
	return court, nil
}

func (s *reservationService) mapRepoError(err error, id string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, reservationserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", id)
	case errors.Is(err, reservationserrors.ErrInvalidID):
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "Invalid reservation ID format", 400)
	case errors.Is(err, reservationserrors.ErrStatusMismatch):
		return apperrors.InvalidState(err, apperrors.CodeInvalidState, "Reservation changed concurrently")
	case isBusy(err):
		return err
	default:
		return apperrors.Internal("Failed to access reservation", err)
	}
}

func (s *reservationService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.cfg.Log.Warn("Failed to publish event", "type", event.Type, "key", event.Key, "error", err)
	}
}

func (s *reservationService) recordAdmission(err error, started time.Time) {
	outcome := string(model.ReservationConfirmed)
	if err != nil {
		outcome = apperrors.AsAppError(s.rejection(err)).Code
	}
	metrics.RecordAdmission(outcome, time.Since(started).Seconds())
}

func validationError(message string, err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		return apperrors.Validation(message, map[string]any{"errors": errs})
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func invalidTransition(r *model.Reservation, to model.ReservationStatus) error {
	return apperrors.InvalidState(reservationserrors.ErrInvalidTransition, apperrors.CodeInvalidState,
		fmt.Sprintf("Reservation is %s and cannot become %s", r.Status, to))
}
