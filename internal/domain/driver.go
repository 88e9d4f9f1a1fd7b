package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatusHistoryCap bounds the per-driver status history. Only the newest
// entries are retained; the oldest are discarded on overflow.
const StatusHistoryCap = 50

// Simplified hours-of-service ceilings. These are scheduling heuristics,
// not a regulatory engine (no 34-hour restart, no 30-minute break rule).
const (
	MaxDailyHours         = 14.0
	MaxWeeklyHours        = 70.0
	AssignmentBufferHours = 2.0
)

// StatusChangeEvent is an append-only audit entry recording one explicit
// driver status transition. Owned exclusively by one DriverRecord.
type StatusChangeEvent struct {
	ID        string
	Status    DriverStatus
	Timestamp time.Time
	Location  string
	Notes     string
	ChangedBy string
}

// DriverProfile is the dispatchable-driver row read from the driver store:
// identity plus externally maintained hours-worked totals.
type DriverProfile struct {
	ID               int64
	Name             string
	TruckUnit        string
	TrailerUnit      string
	HoursWorkedToday float64
	HoursWorkedWeek  float64
}

// FleetStatistics is an aggregate snapshot over all active driver records.
type FleetStatistics struct {
	Total                  int     `json:"total"`
	Available              int     `json:"available"`
	OnRoad                 int     `json:"onRoad"`
	OffDuty                int     `json:"offDuty"`
	AvailabilityPercentage float64 `json:"availabilityPercentage"`
}

// DriverRecord holds a driver's current operational state for dispatch.
// One record exists per active driver; it is refreshed in place on every
// scheduling cycle so external references remain valid. Not safe for
// concurrent mutation: all writes must come from the single scheduling
// owner (see engine.Runner).
type DriverRecord struct {
	ID          int64
	Name        string
	TruckUnit   string
	TrailerUnit string

	Status   DriverStatus
	Location string
	Notes    string

	UpdatedAt time.Time
	UpdatedBy string

	// Expected return / free-up times computed by classification.
	ETA                *time.Time
	EstimatedAvailable *time.Time

	CurrentLoad *Load
	NextLoad    *Load

	HoursWorkedToday float64
	HoursWorkedWeek  float64

	// Read-in view of the driver's non-cancelled loads; not owned.
	AssignedLoads []*Load

	// Free windows recomputed each refresh; never persisted.
	Windows []TimeSlot

	// IDs of assigned loads whose effective spans overlap another load.
	ConflictLoadIDs []int64

	// Most-recent-first, capped at StatusHistoryCap.
	History []StatusChangeEvent

	// Set when the driver is no longer dispatchable; the record is kept.
	Retired bool
}

// NewDriverRecord creates the record for a driver that just became active.
func NewDriverRecord(p DriverProfile) *DriverRecord {
	return &DriverRecord{
		ID:               p.ID,
		Name:             p.Name,
		TruckUnit:        p.TruckUnit,
		TrailerUnit:      p.TrailerUnit,
		Status:           StatusAvailable,
		Location:         "Home Base",
		HoursWorkedToday: p.HoursWorkedToday,
		HoursWorkedWeek:  p.HoursWorkedWeek,
	}
}

// RecordStatusChange applies an explicit, externally driven status change.
// Any status may follow any other; no transition table is enforced.
// The event is always appended to the front of the history, but location
// and notes only overwrite the current values when non-empty, so a caller
// can update a subset of fields per call.
func (d *DriverRecord) RecordStatusChange(status DriverStatus, location, notes, actor string, now time.Time) {
	ev := StatusChangeEvent{
		ID:        uuid.NewString(),
		Status:    status,
		Timestamp: now,
		Location:  location,
		Notes:     notes,
		ChangedBy: actor,
	}
	d.History = append([]StatusChangeEvent{ev}, d.History...)
	if len(d.History) > StatusHistoryCap {
		d.History = d.History[:StatusHistoryCap]
	}

	d.Status = status
	if location != "" {
		d.Location = location
	}
	if notes != "" {
		d.Notes = notes
	}
	d.UpdatedAt = now
	d.UpdatedBy = actor
}

// HasRoom reports whether the driver can take on a commitment spanning
// [start, end]. A driver that is not available and already holds a current
// load has no room. The required hours include a fixed buffer on top of the
// interval itself, and are checked against the daily and weekly ceilings.
// When availability windows have been computed the interval must fall
// entirely within one of them; with no windows computed the check passes
// (fail open — preserved for compatibility with the existing dispatch flow).
func (d *DriverRecord) HasRoom(start, end time.Time) bool {
	if d.Status != StatusAvailable && d.CurrentLoad != nil {
		return false
	}

	hoursNeeded := end.Sub(start).Hours() + AssignmentBufferHours
	if d.HoursWorkedToday+hoursNeeded > MaxDailyHours {
		return false
	}
	if d.HoursWorkedWeek+hoursNeeded > MaxWeeklyHours {
		return false
	}

	if len(d.Windows) == 0 {
		return true
	}
	for _, w := range d.Windows {
		if w.ContainsRange(start, end) {
			return true
		}
	}
	return false
}

// Retire marks the driver as no longer dispatchable. The record is kept so
// history and references stay intact.
func (d *DriverRecord) Retire() {
	d.Retired = true
}

// Clone returns a deep-enough copy for query snapshots: slices are copied,
// load pointers are shared (loads are read-only views).
func (d *DriverRecord) Clone() DriverRecord {
	out := *d
	out.AssignedLoads = append([]*Load(nil), d.AssignedLoads...)
	out.Windows = append([]TimeSlot(nil), d.Windows...)
	out.ConflictLoadIDs = append([]int64(nil), d.ConflictLoadIDs...)
	out.History = append([]StatusChangeEvent(nil), d.History...)
	if d.ETA != nil {
		eta := *d.ETA
		out.ETA = &eta
	}
	if d.EstimatedAvailable != nil {
		ea := *d.EstimatedAvailable
		out.EstimatedAvailable = &ea
	}
	return out
}
