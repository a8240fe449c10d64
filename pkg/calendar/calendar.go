// Package calendar holds the time arithmetic the availability engine is
// built from: civil dates, times of day, half-open windows and slot
// generation. Everything here is pure.
package calendar

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"time"
)

// ErrInvalidConfiguration is returned for operating parameters that cannot
// produce a schedule.
var ErrInvalidConfiguration = errors.New("invalid schedule configuration")

// Window is the half-open interval [Start, End).
type Window struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Within reports whether w lies entirely inside outer.
func (w Window) Within(outer Window) bool {
	return !w.Start.Before(outer.Start) && !w.End.After(outer.End)
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format("15:04"), w.End.Format("15:04"))
}

// Overlaps reports whether two half-open windows share any instant.
// Windows that only touch at an edge do not overlap.
func Overlaps(a, b Window) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// GenerateSlots steps from opening to closing by d. A trailing slot that
// would end after closing is discarded. The returned sequence can be ranged
// over any number of times.
func GenerateSlots(opening, closing time.Time, d time.Duration) (iter.Seq[Window], error) {
	if !closing.After(opening) {
		return nil, fmt.Errorf("%w: closing %s is not after opening %s", ErrInvalidConfiguration, closing.Format(time.TimeOnly), opening.Format(time.TimeOnly))
	}
	if d <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive, got %s", ErrInvalidConfiguration, d)
	}

	return func(yield func(Window) bool) {
		for start := opening; ; start = start.Add(d) {
			end := start.Add(d)
			if end.After(closing) {
				return
			}
			if !yield(Window{Start: start, End: end}) {
				return
			}
		}
	}, nil
}

// HoursToDuration converts a fractional hour count such as 0.75 to a
// duration rounded to the nearest minute.
func HoursToDuration(hours float64) (time.Duration, error) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, fmt.Errorf("%w: duration %v is not a number", ErrInvalidConfiguration, hours)
	}
	minutes := math.Round(hours * 60)
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: duration %v hours rounds to zero minutes", ErrInvalidConfiguration, hours)
	}
	return time.Duration(minutes) * time.Minute, nil
}
