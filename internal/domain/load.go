package domain

import "time"

// LoadStatus is the lifecycle state of a freight load, owned by the external
// load-management subsystem. The scheduling engine only reads it, except for
// the BOOKED -> ASSIGNED promotion performed on assignment.
type LoadStatus string

const (
	LoadBooked    LoadStatus = "BOOKED"
	LoadAssigned  LoadStatus = "ASSIGNED"
	LoadInTransit LoadStatus = "IN_TRANSIT"
	LoadDelivered LoadStatus = "DELIVERED"
	LoadPaid      LoadStatus = "PAID"
	LoadCancelled LoadStatus = "CANCELLED"
)

// Completed reports whether the load has reached a terminal delivered state.
func (s LoadStatus) Completed() bool {
	return s == LoadDelivered || s == LoadPaid
}

// Scheduling defaults applied when a load carries a date but no time of day.
const (
	DefaultPickupHour   = 8
	DefaultDeliveryHour = 17

	// Flat span estimate for loads with a pickup date but no delivery date.
	MissingDeliverySpan = 24 * time.Hour
)

// Load is a read-only view of a freight shipment's scheduling-relevant
// fields. Pickup/delivery times are "HH:MM" strings, empty when unknown.
type Load struct {
	ID               int64
	Customer         string
	PickupLocation   string
	PickupDate       *time.Time
	PickupTime       string
	DeliveryLocation string
	DeliveryDate     *time.Time
	DeliveryTime     string
	GrossAmount      float64
	Status           LoadStatus
	DriverID         *int64
}

// combineDateTime anchors an "HH:MM" time of day onto a date, falling back
// to the supplied default when the time is absent or unparseable.
func combineDateTime(date *time.Time, hhmm string, defHour, defMin int) (time.Time, bool) {
	if date == nil {
		return time.Time{}, false
	}
	h, m := defHour, defMin
	if hhmm != "" {
		if parsed, err := time.Parse("15:04", hhmm); err == nil {
			h, m = parsed.Hour(), parsed.Minute()
		}
	}
	d := *date
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, d.Location()), true
}

// PickupAt derives the pickup datetime, defaulting the time of day to 08:00.
func (l *Load) PickupAt() (time.Time, bool) {
	return combineDateTime(l.PickupDate, l.PickupTime, DefaultPickupHour, 0)
}

// DeliveryAt derives the delivery datetime, defaulting the time of day to 17:00.
func (l *Load) DeliveryAt() (time.Time, bool) {
	return combineDateTime(l.DeliveryDate, l.DeliveryTime, DefaultDeliveryHour, 0)
}

// DeliveryAtDefault derives the delivery datetime with a caller-chosen
// default time of day (the in-transit ETA rule uses noon).
func (l *Load) DeliveryAtDefault(hour, min int) (time.Time, bool) {
	return combineDateTime(l.DeliveryDate, l.DeliveryTime, hour, min)
}

// Malformed reports whether the load's dates cannot be scheduled
// (delivery date before pickup date). Malformed loads are skipped by
// classification and window computation rather than treated as errors.
func (l *Load) Malformed() bool {
	if l.PickupDate == nil || l.DeliveryDate == nil {
		return false
	}
	return l.DeliveryDate.Before(*l.PickupDate)
}

// Span derives the load's effective occupied interval for conflict checks.
// The span starts at the pickup datetime; the end falls back to pickup +24h
// when no delivery date exists. Loads with no pickup date, or with malformed
// dates, have no derivable span and are excluded from conflict checks.
func (l *Load) Span() (TimeSlot, bool) {
	if l.Malformed() {
		return TimeSlot{}, false
	}
	start, ok := l.PickupAt()
	if !ok {
		return TimeSlot{}, false
	}
	end := start.Add(MissingDeliverySpan)
	if at, ok := l.DeliveryAt(); ok && at.After(start) {
		end = at
	}
	slot, err := NewTimeSlot(start, end)
	if err != nil {
		return TimeSlot{}, false
	}
	return slot, true
}
