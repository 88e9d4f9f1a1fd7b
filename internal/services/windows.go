package services

import (
	"time"

	"driver-dispatch-service/internal/domain"
)

// Window computation constants.
const (
	// Slack reserved before each load's pickup.
	prePickupBuffer = 2 * time.Hour
	// Mandatory rest inserted after each delivery.
	postDeliveryRest = 10 * time.Hour
)

// ComputeWindows derives the driver's free TimeSlots between now and the
// horizon boundary (now + horizonDays, clipped to end of day).
//
// The cursor starts at estimatedAvailable when the classifier produced one
// that lies in the future (driver is mid-load or returning), else at now.
// Walking loads in pickup order, a window is emitted for every gap between
// the cursor and the next load's buffered pickup; the cursor then advances
// past the load's delivery plus rest, or by a flat day when the load has no
// delivery date. Loads without a pickup date are skipped for gap purposes.
//
// The result is recomputed fresh on every call; no state is carried between
// calls. Zero loads yield a single window covering the full horizon.
func ComputeWindows(loads []*domain.Load, estimatedAvailable *time.Time, now time.Time, horizonDays int) []domain.TimeSlot {
	cursor := now
	if estimatedAvailable != nil && estimatedAvailable.After(now) {
		cursor = *estimatedAvailable
	}

	horizonEnd := endOfDay(now.AddDate(0, 0, horizonDays))

	windows := make([]domain.TimeSlot, 0, len(loads)+1)
	for _, l := range loads {
		if l.Malformed() {
			continue
		}
		pickup, ok := l.PickupAt()
		if !ok {
			continue
		}

		bufferStart := pickup.Add(-prePickupBuffer)
		if cursor.Before(bufferStart) {
			if slot, err := domain.NewTimeSlot(cursor, bufferStart); err == nil {
				windows = append(windows, slot)
			}
		}

		next := pickup.Add(domain.MissingDeliverySpan)
		if at, ok := l.DeliveryAt(); ok {
			next = at.Add(postDeliveryRest)
		}
		if next.After(cursor) {
			cursor = next
		}
	}

	if cursor.Before(horizonEnd) {
		if slot, err := domain.NewTimeSlot(cursor, horizonEnd); err == nil {
			windows = append(windows, slot)
		}
	}

	return windows
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
