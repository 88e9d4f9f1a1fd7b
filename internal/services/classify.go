package services

import (
	"time"

	"driver-dispatch-service/internal/domain"
)

// HomeBase is the derived location string for a driver with no active
// commitment. No GPS or telematics data is modeled; every location the
// classifier produces is derived from load fields.
const HomeBase = "Home Base"

// Classification thresholds.
const (
	// A booked load with pickup this close counts as "preparing".
	prepareLookAhead = 2 * time.Hour
	// A delivery completed within this window means the driver is still
	// returning from it.
	returnLookBack = 24 * time.Hour
	// Flat estimate of transit time back from a completed delivery.
	returnTransitEstimate = 12 * time.Hour
	// Default time of day for an in-transit delivery ETA.
	transitETAHour = 12
)

// Classification is the derived operational picture for one driver.
type Classification struct {
	Status             domain.DriverStatus
	Location           string
	EstimatedAvailable *time.Time
	CurrentLoad        *domain.Load
	NextLoad           *domain.Load
}

// Classify maps a driver's loads and the current instant to an operational
// status, a derived location string, and an estimated free-up time.
//
// Preconditions: loads are sorted ascending by pickup date then time (see
// SortLoadsForScheduling) and contain no cancelled loads. Classify is a
// pure function; identical inputs always produce identical output.
//
// Rules, first match wins:
//  1. a load in progress (IN_TRANSIT or ASSIGNED) determines the status;
//  2. else the earliest booked load with a pickup date: preparing when the
//     pickup is inside the look-ahead window, otherwise available;
//  3. else the most recently completed load: returning when delivered
//     inside the look-back window, otherwise available at home base;
//  4. else no load history: available at home base.
//
// Loads with malformed dates cannot be classified for scheduling and fall
// through to the next rule.
func Classify(loads []*domain.Load, now time.Time) Classification {
	for _, l := range loads {
		if l.Malformed() {
			continue
		}
		switch l.Status {
		case domain.LoadInTransit:
			c := Classification{
				Status:      domain.StatusOnRoad,
				Location:    "En route to " + l.DeliveryLocation,
				CurrentLoad: l,
			}
			if at, ok := l.DeliveryAtDefault(transitETAHour, 0); ok {
				c.EstimatedAvailable = &at
			}
			return c
		case domain.LoadAssigned:
			c := Classification{
				Status:      domain.StatusLoading,
				Location:    l.PickupLocation,
				CurrentLoad: l,
			}
			if at, ok := l.DeliveryAt(); ok {
				c.EstimatedAvailable = &at
			}
			return c
		}
	}

	for _, l := range loads {
		if l.Malformed() || l.Status != domain.LoadBooked {
			continue
		}
		pickup, ok := l.PickupAt()
		if !ok {
			continue
		}
		if pickup.Sub(now) <= prepareLookAhead {
			return Classification{
				Status:   domain.StatusPreparing,
				Location: l.PickupLocation,
				NextLoad: l,
			}
		}
		return Classification{
			Status:   domain.StatusAvailable,
			Location: HomeBase,
			NextLoad: l,
		}
	}

	var lastDone *domain.Load
	var lastDoneAt time.Time
	for _, l := range loads {
		if l.Malformed() || !l.Status.Completed() {
			continue
		}
		at, ok := l.DeliveryAt()
		if !ok {
			continue
		}
		if lastDone == nil || at.After(lastDoneAt) {
			lastDone, lastDoneAt = l, at
		}
	}
	if lastDone != nil {
		if now.Sub(lastDoneAt) <= returnLookBack {
			avail := lastDoneAt.Add(returnTransitEstimate)
			return Classification{
				Status:             domain.StatusReturning,
				Location:           lastDone.DeliveryLocation,
				EstimatedAvailable: &avail,
			}
		}
		return Classification{Status: domain.StatusAvailable, Location: HomeBase}
	}

	return Classification{Status: domain.StatusAvailable, Location: HomeBase}
}
