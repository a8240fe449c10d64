package availability

import "errors"

var (
	ErrOutsideOperatingHours = errors.New("requested window is outside operating hours")

	ErrInvalidDuration = errors.New("requested window does not match the court's slot duration")

	ErrSlotOccupied = errors.New("requested unit is already reserved for an overlapping window")

	ErrNoSectionAvailable = errors.New("no section is free for the requested window")

	ErrInvalidUnit = errors.New("requested unit does not exist on this court")
)
