package availability

import (
	"courtbook/pkg/calendar"
	"courtbook/pkg/model"
)

// Units lists the concrete bookable units of a court: the whole court first,
// then sections in ascending order.
func Units(court *model.Court) []model.Unit {
	units := []model.Unit{model.WholeCourt()}
	for n := 1; n <= court.SectionCount(); n++ {
		units = append(units, model.SectionUnit(n))
	}
	return units
}

// Occupies reports whether a reservation holding held blocks a booking of
// wanted over an overlapping window. The whole court blocks everything and is
// blocked by any section; sections only block themselves.
func Occupies(held, wanted model.Unit) bool {
	switch {
	case held.IsWholeCourt():
		return true
	case wanted.IsWholeCourt():
		return held.IsSection()
	default:
		return held == wanted
	}
}

// IsOccupied evaluates the occupancy predicate for a concrete unit against
// the reservations of one court.
func IsOccupied(courtID string, unit model.Unit, w calendar.Window, reservations []*model.Reservation) bool {
	for _, r := range reservations {
		if r.CourtID != courtID || !r.Holds() {
			continue
		}
		if calendar.Overlaps(r.Window(), w) && Occupies(r.Unit, unit) {
			return true
		}
	}
	return false
}

// FreeSection returns the lowest numbered section that is free for w.
func FreeSection(court *model.Court, w calendar.Window, reservations []*model.Reservation) (model.Unit, bool) {
	for n := 1; n <= court.SectionCount(); n++ {
		unit := model.SectionUnit(n)
		if !IsOccupied(court.ID, unit, w, reservations) {
			return unit, true
		}
	}
	return model.Unit{}, false
}

func checkUnit(court *model.Court, unit model.Unit) error {
	switch unit.Kind {
	case model.UnitWholeCourt:
		return nil
	case model.UnitAnySection:
		if court.SectionCount() == 0 {
			return ErrInvalidUnit
		}
		return nil
	case model.UnitSection:
		if unit.Section < 1 || unit.Section > court.SectionCount() {
			return ErrInvalidUnit
		}
		return nil
	default:
		return ErrInvalidUnit
	}
}
