package availability

import (
	"fmt"
	"iter"
	"time"

	"courtbook/pkg/calendar"
	"courtbook/pkg/model"
)

// Schedule is a court's operating window resolved onto one date.
type Schedule struct {
	Court    *model.Court
	Date     calendar.Date
	Hours    calendar.Window
	Slot     time.Duration
	Location *time.Location

	slots iter.Seq[calendar.Window]
}

// NewSchedule resolves the court's operating parameters for date. Malformed
// parameters fail with calendar.ErrInvalidConfiguration.
func NewSchedule(court *model.Court, date calendar.Date) (*Schedule, error) {
	if err := CheckCourt(court); err != nil {
		return nil, err
	}

	loc, err := court.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", calendar.ErrInvalidConfiguration, err)
	}
	opening := calendar.MustTimeOfDay(court.OpeningTime)
	closing := calendar.MustTimeOfDay(court.ClosingTime)
	slot, _ := calendar.HoursToDuration(court.ReservationDuration)

	hours := calendar.Window{Start: date.At(opening, loc), End: date.At(closing, loc)}
	slots, err := calendar.GenerateSlots(hours.Start, hours.End, slot)
	if err != nil {
		return nil, fmt.Errorf("court %s: %w", court.ID, err)
	}

	return &Schedule{
		Court:    court,
		Date:     date,
		Hours:    hours,
		Slot:     slot,
		Location: loc,
		slots:    slots,
	}, nil
}

// CheckCourt validates the operating parameters of a catalog court.
func CheckCourt(court *model.Court) error {
	if court == nil {
		return fmt.Errorf("%w: court is nil", calendar.ErrInvalidConfiguration)
	}
	opening, err := calendar.ParseTimeOfDay(court.OpeningTime)
	if err != nil {
		return fmt.Errorf("%w: court %s opening time: %v", calendar.ErrInvalidConfiguration, court.ID, err)
	}
	closing, err := calendar.ParseTimeOfDay(court.ClosingTime)
	if err != nil {
		return fmt.Errorf("%w: court %s closing time: %v", calendar.ErrInvalidConfiguration, court.ID, err)
	}
	if !opening.Before(closing) {
		return fmt.Errorf("%w: court %s closes at %s, not after opening at %s", calendar.ErrInvalidConfiguration, court.ID, closing, opening)
	}
	if _, err := calendar.HoursToDuration(court.ReservationDuration); err != nil {
		return fmt.Errorf("court %s: %w", court.ID, err)
	}
	if court.HourlyRate < 0 {
		return fmt.Errorf("%w: court %s has a negative hourly rate", calendar.ErrInvalidConfiguration, court.ID)
	}
	if court.Divisible && court.MaxDivisions < 1 {
		return fmt.Errorf("%w: divisible court %s needs at least one division", calendar.ErrInvalidConfiguration, court.ID)
	}
	return nil
}

func (s *Schedule) Slots() iter.Seq[calendar.Window] {
	return s.slots
}

// Window places an explicit wall-clock range on the schedule's date.
func (s *Schedule) Window(start, end calendar.TimeOfDay) calendar.Window {
	return calendar.Window{Start: s.Date.At(start, s.Location), End: s.Date.At(end, s.Location)}
}

// OnGrid reports whether t is reachable from opening by whole slots.
func (s *Schedule) OnGrid(t time.Time) bool {
	offset := t.Sub(s.Hours.Start)
	return offset >= 0 && offset%s.Slot == 0
}
