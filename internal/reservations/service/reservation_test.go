package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/internal/availability"
	"courtbook/internal/catalog"
	"courtbook/internal/events"
	invoiceserrors "courtbook/internal/invoices/errors"
	invoiceservice "courtbook/internal/invoices/service"
	reservationserrors "courtbook/internal/reservations/errors"
	"courtbook/internal/reservations/repository"
	"courtbook/internal/reservations/validator"
	"courtbook/internal/storage/memory"
	"courtbook/pkg/config"
	"courtbook/pkg/db"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"
)

const testDate = "2026-06-10"

var testNow = time.Date(2026, 6, 10, 7, 0, 0, 0, time.UTC)

type fixture struct {
	svc      ReservationService
	invoices invoiceservice.InvoiceService
	store    *memory.DB
	events   *events.Recorder
	clock    *clock
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func courts() []model.Court {
	return []model.Court{
		{
			ID:                  "tennis-1",
			ComplexID:           "complex-1",
			Name:                "Center Court",
			OpeningTime:         "08:00:00",
			ClosingTime:         "23:00:00",
			ReservationDuration: 1.0,
			HourlyRate:          20,
		},
		{
			ID:                  "football-1",
			ComplexID:           "complex-1",
			Name:                "Five-a-side",
			OpeningTime:         "08:00:00",
			ClosingTime:         "22:00:00",
			ReservationDuration: 1.5,
			HourlyRate:          40,
			Divisible:           true,
			MaxDivisions:        2,
		},
		{
			ID:                  "Court_A",
			ComplexID:           "complex-2",
			Name:                "Annex",
			OpeningTime:         "08:00:00",
			ClosingTime:         "23:00:00",
			ReservationDuration: 1.0,
			HourlyRate:          20,
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Log:                    logger.Discard(),
		LockTTL:                5 * time.Second,
		LockWaitTimeout:        2 * time.Second,
		TxTimeout:              time.Second,
		MaxSlotsPerReservation: 4,
	}
}

func newFixture(t *testing.T, opts ...func(*fixtureDeps)) *fixture {
	t.Helper()

	cfg := testConfig()
	reader, err := catalog.NewStaticReader(courts()...)
	require.NoError(t, err)

	store := memory.New(cfg.TxTimeout)
	deps := &fixtureDeps{
		repo:  store.Reservations(),
		locks: memory.NewCourtLocks(),
	}
	for _, opt := range opts {
		opt(deps)
	}

	recorder := &events.Recorder{}
	invoices := invoiceservice.NewInvoiceService(store.Invoices(), recorder, cfg)
	clk := &clock{now: testNow}
	engine := availability.NewEngine(availability.Policy{MaxSlotsPerReservation: cfg.MaxSlotsPerReservation})

	svc := NewReservationService(deps.repo, deps.locks, reader, invoices, engine,
		validator.NewReservationValidator(cfg.Log), recorder, cfg, WithClock(clk.Now))

	return &fixture{svc: svc, invoices: invoices, store: store, events: recorder, clock: clk}
}

type fixtureDeps struct {
	repo  repository.ReservationRepository
	locks repository.CourtLockRepository
}

func explicit(court, section, start, end string) *model.BookingRequest {
	return &model.BookingRequest{
		CustomerID: "cust-1",
		CourtID:    court,
		Date:       testDate,
		Section:    section,
		StartTime:  start,
		EndTime:    end,
	}
}

func TestRequest_Confirmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Request(ctx, explicit("tennis-1", "", "18:00", "19:00"))
	require.NoError(t, err)

	assert.Equal(t, model.ReservationConfirmed, res.Status)
	assert.True(t, res.Unit.IsWholeCourt())
	assert.Equal(t, int64(2000), res.PriceCents)
	require.NotEmpty(t, res.InvoiceID)

	invoice, err := f.invoices.GetByReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.InvoiceID, invoice.ID)
	assert.Equal(t, int64(2000), invoice.AmountCents)
	assert.Equal(t, model.InvoicePending, invoice.Status)

	assert.Equal(t, []string{events.ReservationConfirmed, events.InvoiceIssued}, f.events.Types())
}

func TestRequest_MixedCaseCourtID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slots, err := f.svc.AvailableSlots(ctx, "Court_A", testDate, "")
	require.NoError(t, err)
	assert.Len(t, slots, 15)

	req := explicit("  Court_A ", "", "9:00", "10.00")
	req.CustomerID = "  cust-1 "
	res, err := f.svc.Request(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, model.ReservationConfirmed, res.Status)
	assert.Equal(t, "Court_A", res.CourtID)
	assert.Equal(t, "cust-1", res.CustomerID)
	assert.Equal(t, time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC), res.StartTime)

	_, err = f.svc.Request(ctx, explicit("court_a", "", "11:00", "12:00"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestRequest_SlotIndex(t *testing.T) {
	f := newFixture(t)
	index := 2

	res, err := f.svc.Request(context.Background(), &model.BookingRequest{
		CustomerID: "cust-1",
		CourtID:    "football-1",
		Date:       testDate,
		Section:    "1",
		SlotIndex:  &index,
		SlotCount:  2,
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 6, 10, 11, 0, 0, 0, time.UTC), res.StartTime)
	assert.Equal(t, time.Date(2026, 6, 10, 14, 0, 0, 0, time.UTC), res.EndTime)
	assert.Equal(t, model.SectionUnit(1), res.Unit)
	assert.Equal(t, int64(12000), res.PriceCents)
}

func TestRequest_HourlyScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Request(ctx, explicit("tennis-1", "", "09:00", "10:00"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		start string
		end   string
		code  string
		cause error
	}{
		{"overlap", "09:30", "10:30", apperrors.CodeSlotOccupied, availability.ErrSlotOccupied},
		{"same slot", "09:00", "10:00", apperrors.CodeSlotOccupied, availability.ErrSlotOccupied},
		{"before opening", "07:00", "08:00", apperrors.CodeOutsideHours, availability.ErrOutsideOperatingHours},
		{"after closing", "22:30", "23:30", apperrors.CodeOutsideHours, availability.ErrOutsideOperatingHours},
		{"not a slot multiple", "12:00", "12:45", apperrors.CodeInvalidDuration, availability.ErrInvalidDuration},
		{"too many slots", "12:00", "17:00", apperrors.CodeInvalidDuration, availability.ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Request(ctx, explicit("tennis-1", "", tt.start, tt.end))
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
			assert.ErrorIs(t, err, tt.cause)
		})
	}

	_, err = f.svc.Request(ctx, explicit("tennis-1", "", "10:00", "11:00"))
	assert.NoError(t, err, "adjacent window must be free")
}

func TestRequest_DivisibleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Request(ctx, explicit("football-1", "any", "08:00", "09:30"))
	require.NoError(t, err)
	assert.Equal(t, model.SectionUnit(1), first.Unit)

	second, err := f.svc.Request(ctx, explicit("football-1", "any", "08:00", "09:30"))
	require.NoError(t, err)
	assert.Equal(t, model.SectionUnit(2), second.Unit)

	_, err = f.svc.Request(ctx, explicit("football-1", "any", "08:00", "09:30"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNoSectionAvailable))

	_, err = f.svc.Request(ctx, explicit("football-1", "whole", "08:00", "09:30"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSlotOccupied))

	_, err = f.svc.Request(ctx, explicit("football-1", "3", "09:30", "11:00"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
	assert.ErrorIs(t, err, availability.ErrInvalidUnit)

	whole, err := f.svc.Request(ctx, explicit("football-1", "whole", "09:30", "11:00"))
	require.NoError(t, err)
	assert.True(t, whole.Unit.IsWholeCourt())

	_, err = f.svc.Request(ctx, explicit("football-1", "2", "09:30", "11:00"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSlotOccupied))
}

func TestRequest_ConcurrentIdenticalRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	var confirmed, occupied atomic.Int32
	errs := make(chan error, n)

	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Request(ctx, explicit("tennis-1", "", "18:00", "19:00"))
			switch {
			case err == nil:
				confirmed.Add(1)
			case apperrors.HasCode(err, apperrors.CodeSlotOccupied):
				occupied.Add(1)
			default:
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	assert.Equal(t, int32(1), confirmed.Load())
	assert.Equal(t, int32(n-1), occupied.Load())

	list, err := f.svc.ListByCourtAndDate(ctx, "tennis-1", testDate, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRequest_MixedUnitRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sections := []string{"whole", "1", "2", "any"}
	const rounds = 4
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		won  []*model.Reservation
		errs = make(chan error, len(sections)*rounds)
	)

	for range rounds {
		for _, section := range sections {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := f.svc.Request(ctx, explicit("football-1", section, "09:30", "11:00"))
				switch {
				case err == nil:
					mu.Lock()
					won = append(won, res)
					mu.Unlock()
				case apperrors.HasCode(err, apperrors.CodeSlotOccupied),
					apperrors.HasCode(err, apperrors.CodeNoSectionAvailable):
				default:
					errs <- err
				}
			}()
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}

	perUnit := map[model.Unit]int{}
	for _, res := range won {
		perUnit[res.Unit]++
	}
	if perUnit[model.WholeCourt()] > 0 {
		assert.Equal(t, 1, perUnit[model.WholeCourt()])
		assert.Len(t, won, 1)
	} else {
		require.NotEmpty(t, won)
		assert.LessOrEqual(t, perUnit[model.SectionUnit(1)], 1)
		assert.LessOrEqual(t, perUnit[model.SectionUnit(2)], 1)
		assert.Len(t, perUnit, len(won))
	}

	list, err := f.svc.ListByCourtAndDate(ctx, "football-1", testDate, true)
	require.NoError(t, err)
	assert.Len(t, list, len(won))
}

func TestRequest_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Request(ctx, &model.BookingRequest{CourtID: "tennis-1", Date: testDate})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.svc.Request(ctx, explicit("missing", "", "09:00", "10:00"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	f.clock.Set(time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC))
	_, err = f.svc.Request(ctx, explicit("tennis-1", "", "09:00", "10:00"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
	assert.ErrorIs(t, err, reservationserrors.ErrStartInPast)

	assert.Empty(t, f.events.Types())
}

// rawCatalog serves courts without the load-time checks of StaticReader.
type rawCatalog map[string]model.Court

func (c rawCatalog) GetCourt(_ context.Context, id string) (*model.Court, error) {
	court, ok := c[id]
	if !ok {
		return nil, catalog.ErrCourtNotFound
	}
	return &court, nil
}

func TestRequest_MisconfiguredCourt(t *testing.T) {
	cfg := testConfig()
	broken := courts()[0]
	broken.ID = "broken"
	broken.ClosingTime = "07:00:00"

	store := memory.New(cfg.TxTimeout)
	svc := NewReservationService(store.Reservations(), memory.NewCourtLocks(), rawCatalog{"broken": broken},
		invoiceservice.NewInvoiceService(store.Invoices(), events.Nop(), cfg),
		availability.NewEngine(availability.Policy{MaxSlotsPerReservation: 4}),
		validator.NewReservationValidator(cfg.Log), events.Nop(), cfg, WithClock(func() time.Time { return testNow }))

	_, err := svc.Request(context.Background(), explicit("broken", "", "09:00", "10:00"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfiguration), "got %v", err)

	_, err = svc.AvailableSlots(context.Background(), "broken", testDate, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfiguration), "got %v", err)
}

// heldLocks reports the lock as held for the first misses calls.
type heldLocks struct {
	repository.CourtLockRepository
	misses atomic.Int32
}

func (l *heldLocks) Create(ctx context.Context, lock *model.CourtLock) error {
	if l.misses.Add(-1) >= 0 {
		return reservationserrors.ErrLockHeld
	}
	return l.CourtLockRepository.Create(ctx, lock)
}

func TestRequest_LockTimeoutIsBusy(t *testing.T) {
	locks := &heldLocks{CourtLockRepository: memory.NewCourtLocks()}
	locks.misses.Store(1 << 20)
	f := newFixture(t, func(d *fixtureDeps) { d.locks = locks })

	svc := f.svc.(*reservationService)
	svc.cfg.LockWaitTimeout = 50 * time.Millisecond

	_, err := f.svc.Request(context.Background(), explicit("tennis-1", "", "18:00", "19:00"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeBusy), "got %v", err)
	assert.True(t, apperrors.AsAppError(err).Retryable())
	assert.ErrorIs(t, err, reservationserrors.ErrBusy)
}

func TestRequest_LockEventuallyFree(t *testing.T) {
	locks := &heldLocks{CourtLockRepository: memory.NewCourtLocks()}
	locks.misses.Store(3)
	f := newFixture(t, func(d *fixtureDeps) { d.locks = locks })

	res, err := f.svc.Request(context.Background(), explicit("tennis-1", "", "18:00", "19:00"))
	require.NoError(t, err)
	assert.Equal(t, model.ReservationConfirmed, res.Status)
}

// busyOnce fails the first transaction with db.ErrBusy.
type busyOnce struct {
	repository.ReservationRepository
	calls atomic.Int32
}

func (r *busyOnce) ExecuteTransaction(ctx context.Context, fn db.TransactionFunc) error {
	if r.calls.Add(1) == 1 {
		return db.ErrBusy
	}
	return r.ReservationRepository.ExecuteTransaction(ctx, fn)
}

func TestRequest_RetriesOnceWhenBusy(t *testing.T) {
	var repo *busyOnce
	f := newFixture(t, func(d *fixtureDeps) {
		repo = &busyOnce{ReservationRepository: d.repo}
		d.repo = repo
	})

	res, err := f.svc.Request(context.Background(), explicit("tennis-1", "", "18:00", "19:00"))
	require.NoError(t, err)
	assert.Equal(t, model.ReservationConfirmed, res.Status)
	assert.Equal(t, int32(2), repo.calls.Load())
}

// alwaysBusy fails every transaction with db.ErrBusy.
type alwaysBusy struct {
	repository.ReservationRepository
	calls atomic.Int32
}

func (r *alwaysBusy) ExecuteTransaction(context.Context, db.TransactionFunc) error {
	r.calls.Add(1)
	return db.ErrBusy
}

func TestRequest_BusyAfterRetry(t *testing.T) {
	var repo *alwaysBusy
	f := newFixture(t, func(d *fixtureDeps) {
		repo = &alwaysBusy{ReservationRepository: d.repo}
		d.repo = repo
	})

	_, err := f.svc.Request(context.Background(), explicit("tennis-1", "", "18:00", "19:00"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeBusy))
	assert.ErrorIs(t, err, db.ErrBusy)
	assert.Equal(t, int32(2), repo.calls.Load())
}

func TestCancel_VoidsPendingInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Request(ctx, explicit("tennis-1", "", "18:00", "19:00"))
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, res.ID, "front-desk")
	require.NoError(t, err)
	assert.Equal(t, model.ReservationCancelled, cancelled.Status)
	assert.Equal(t, "front-desk", cancelled.CancelledBy)
	require.NotNil(t, cancelled.CancelledAt)

	invoice, err := f.invoices.GetByReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceVoid, invoice.Status)

	assert.Equal(t, []string{
		events.ReservationConfirmed, events.InvoiceIssued,
		events.ReservationCancelled, events.InvoiceVoided,
	}, f.events.Types())

	// The unit is free again.
	_, err = f.svc.Request(ctx, explicit("tennis-1", "", "18:00", "19:00"))
	assert.NoError(t, err)
}

func TestCancel_PaidInvoiceRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Request(ctx, explicit("tennis-1", "", "18:00", "19:00"))
	require.NoError(t, err)
	_, err = f.invoices.MarkPaid(ctx, res.InvoiceID, time.Time{})
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, res.ID, "front-desk")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvoiceAlreadyPaid))
	assert.ErrorIs(t, err, invoiceserrors.ErrInvoiceAlreadyPaid)

	current, err := f.svc.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationConfirmed, current.Status)

	invoice, err := f.invoices.GetByID(ctx, res.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePaid, invoice.Status)
}

func TestCancel_Terminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Request(ctx, explicit("tennis-1", "", "18:00", "19:00"))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, res.ID, "front-desk")
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, res.ID, "front-desk")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))
	assert.ErrorIs(t, err, reservationserrors.ErrInvalidTransition)

	_, err = f.svc.Cancel(ctx, res.ID, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestMarkCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Request(ctx, explicit("tennis-1", "", "18:00", "19:00"))
	require.NoError(t, err)

	_, err = f.svc.MarkCompleted(ctx, res.ID)
	assert.ErrorIs(t, err, reservationserrors.ErrNotYetEnded)

	f.clock.Set(time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC))
	completed, err := f.svc.MarkCompleted(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	again, err := f.svc.MarkCompleted(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationCompleted, again.Status)

	completedEvents := 0
	for _, typ := range f.events.Types() {
		if typ == events.ReservationCompleted {
			completedEvents++
		}
	}
	assert.Equal(t, 1, completedEvents)

	_, err = f.svc.Cancel(ctx, res.ID, "front-desk")
	assert.ErrorIs(t, err, reservationserrors.ErrInvalidTransition)
}

func TestMarkCompleted_Cancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Request(ctx, explicit("tennis-1", "", "18:00", "19:00"))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, res.ID, "front-desk")
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC))
	_, err = f.svc.MarkCompleted(ctx, res.ID)
	assert.ErrorIs(t, err, reservationserrors.ErrInvalidTransition)
}

func TestCompleteElapsed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, w := range [][2]string{{"09:00", "10:00"}, {"10:00", "11:00"}, {"20:00", "21:00"}} {
		_, err := f.svc.Request(ctx, explicit("tennis-1", "", w[0], w[1]))
		require.NoError(t, err)
	}

	f.clock.Set(time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC))
	n, err := f.svc.CompleteElapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = f.svc.CompleteElapsed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := f.svc.ListByCourtAndDate(ctx, "tennis-1", testDate, false)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, model.ReservationCompleted, list[0].Status)
	assert.Equal(t, model.ReservationCompleted, list[1].Status)
	assert.Equal(t, model.ReservationConfirmed, list[2].Status)
}

func TestAvailableSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slots, err := f.svc.AvailableSlots(ctx, "tennis-1", testDate, "")
	require.NoError(t, err)
	assert.Len(t, slots, 15)

	_, err = f.svc.Request(ctx, explicit("tennis-1", "", "09:00", "10:00"))
	require.NoError(t, err)

	slots, err = f.svc.AvailableSlots(ctx, "tennis-1", testDate, "whole")
	require.NoError(t, err)
	assert.Len(t, slots, 14)
	for _, s := range slots {
		assert.NotEqual(t, 9, s.Start.Hour())
	}

	f.clock.Set(time.Date(2026, 6, 10, 20, 30, 0, 0, time.UTC))
	slots, err = f.svc.AvailableSlots(ctx, "tennis-1", testDate, "")
	require.NoError(t, err)
	assert.Len(t, slots, 2)

	_, err = f.svc.AvailableSlots(ctx, "tennis-1", "10/06/2026", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetByID(ctx, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	_, err = f.svc.GetByID(ctx, "not-a-uuid")
	assert.True(t, errors.Is(err, reservationserrors.ErrInvalidID))

	_, err = f.svc.GetByID(ctx, "7d4a2f7e-6a59-4d8e-9b61-1f0f3c1c0d55")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
