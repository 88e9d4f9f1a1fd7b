package domain

import (
	"fmt"
	"time"
)

// Immutable half-open time interval [Start, End).
// A TimeSlot represents a contiguous block of time during which a driver
// has no scheduled commitment and could accept a new load.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// NewTimeSlot builds a slot, rejecting intervals where End precedes Start.
func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if end.Before(start) {
		return TimeSlot{}, fmt.Errorf("new time slot: end %s precedes start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return TimeSlot{Start: start, End: end}, nil
}

// Contains reports whether the instant t falls within the slot.
func (s TimeSlot) Contains(t time.Time) bool {
	return !t.Before(s.Start) && !t.After(s.End)
}

// ContainsRange reports whether [start, end] falls entirely within the slot.
func (s TimeSlot) ContainsRange(start, end time.Time) bool {
	return s.Contains(start) && s.Contains(end)
}

// Overlaps reports whether two slots share any time:
// !(s.End < other.Start || other.End < s.Start).
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return !(s.End.Before(other.Start) || other.End.Before(s.Start))
}

// Duration returns the length of the slot.
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Hours returns the length of the slot in fractional hours.
func (s TimeSlot) Hours() float64 {
	return s.Duration().Hours()
}
