// Package availability decides whether a court unit is free for a window.
// The Engine is stateless: callers pass in the reservations it should judge
// against, and must repeat the check inside their write transaction.
package availability

import (
	"fmt"
	"iter"

	"courtbook/pkg/calendar"
	"courtbook/pkg/model"
)

type Policy struct {
	// MaxSlotsPerReservation caps how many consecutive slots one reservation
	// may span. Zero means one slot.
	MaxSlotsPerReservation int
	// AlignToSlotGrid rejects explicit windows that do not start on a
	// generated slot boundary.
	AlignToSlotGrid bool
}

type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	if policy.MaxSlotsPerReservation < 1 {
		policy.MaxSlotsPerReservation = 1
	}
	return &Engine{policy: policy}
}

// Admission is a positive admission decision.
type Admission struct {
	Unit   model.Unit
	Window calendar.Window
	Slots  int
}

// ListAvailableSlots yields the generated slots of the court on date that the
// requested unit could still take. For AnySection a slot is free when at least
// one section is.
func (e *Engine) ListAvailableSlots(court *model.Court, date calendar.Date, unit model.Unit, reservations []*model.Reservation) (iter.Seq[calendar.Window], error) {
	schedule, err := NewSchedule(court, date)
	if err != nil {
		return nil, err
	}
	if err := checkUnit(court, unit); err != nil {
		return nil, err
	}

	return func(yield func(calendar.Window) bool) {
		for slot := range schedule.Slots() {
			if !e.free(court, unit, slot, reservations) {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}, nil
}

func (e *Engine) free(court *model.Court, unit model.Unit, w calendar.Window, reservations []*model.Reservation) bool {
	if unit.IsAnySection() {
		_, ok := FreeSection(court, w, reservations)
		return ok
	}
	return !IsOccupied(court.ID, unit, w, reservations)
}

// ValidateRequest runs the admission checks in order: window shape, operating
// hours, duration, grid alignment, unit, then occupancy. AnySection resolves
// to the lowest numbered free section.
func (e *Engine) ValidateRequest(court *model.Court, date calendar.Date, unit model.Unit, w calendar.Window, reservations []*model.Reservation) (Admission, error) {
	schedule, err := NewSchedule(court, date)
	if err != nil {
		return Admission{}, err
	}

	if !w.End.After(w.Start) {
		return Admission{}, fmt.Errorf("%w: end %s is not after start %s", ErrInvalidDuration, w.End.Format("15:04"), w.Start.Format("15:04"))
	}
	if !w.Within(schedule.Hours) {
		return Admission{}, fmt.Errorf("%w: %s is not within %s", ErrOutsideOperatingHours, w, schedule.Hours)
	}

	length := w.Duration()
	if length%schedule.Slot != 0 {
		return Admission{}, fmt.Errorf("%w: %s is not a multiple of %s", ErrInvalidDuration, length, schedule.Slot)
	}
	slots := int(length / schedule.Slot)
	if slots > e.policy.MaxSlotsPerReservation {
		return Admission{}, fmt.Errorf("%w: %d slots requested, at most %d allowed", ErrInvalidDuration, slots, e.policy.MaxSlotsPerReservation)
	}
	if e.policy.AlignToSlotGrid && !schedule.OnGrid(w.Start) {
		return Admission{}, fmt.Errorf("%w: %s does not start on a slot boundary", ErrInvalidDuration, w)
	}

	if err := checkUnit(court, unit); err != nil {
		return Admission{}, fmt.Errorf("%w: %s on court %s with %d sections", err, unit, court.ID, court.SectionCount())
	}

	if unit.IsAnySection() {
		section, ok := FreeSection(court, w, reservations)
		if !ok {
			return Admission{}, fmt.Errorf("%w: %s", ErrNoSectionAvailable, w)
		}
		return Admission{Unit: section, Window: w, Slots: slots}, nil
	}

	if IsOccupied(court.ID, unit, w, reservations) {
		return Admission{}, fmt.Errorf("%w: %s %s", ErrSlotOccupied, unit, w)
	}
	return Admission{Unit: unit, Window: w, Slots: slots}, nil
}

// SlotWindow resolves a slot-index request into the window covering count
// consecutive generated slots starting at index.
func (e *Engine) SlotWindow(court *model.Court, date calendar.Date, index, count int) (calendar.Window, error) {
	schedule, err := NewSchedule(court, date)
	if err != nil {
		return calendar.Window{}, err
	}
	if count < 1 {
		count = 1
	}
	if index < 0 {
		return calendar.Window{}, fmt.Errorf("%w: slot index %d", ErrOutsideOperatingHours, index)
	}

	var w calendar.Window
	i := 0
	for slot := range schedule.Slots() {
		if i == index {
			w.Start = slot.Start
		}
		if i == index+count-1 {
			w.End = slot.End
			return w, nil
		}
		i++
	}
	return calendar.Window{}, fmt.Errorf("%w: slots %d..%d do not exist, the court has %d", ErrOutsideOperatingHours, index, index+count-1, i)
}
