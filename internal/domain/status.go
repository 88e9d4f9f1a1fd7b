package domain

// DriverStatus is the dispatcher-facing operational state of a driver.
type DriverStatus string

const (
	StatusAvailable DriverStatus = "AVAILABLE"
	StatusPreparing DriverStatus = "PREPARING"
	StatusLoading   DriverStatus = "LOADING"
	StatusOnRoad    DriverStatus = "ON_ROAD"
	StatusUnloading DriverStatus = "UNLOADING"
	StatusReturning DriverStatus = "RETURNING"
	StatusBreak     DriverStatus = "BREAK"
	StatusSleeper   DriverStatus = "SLEEPER"
	StatusOffDuty   DriverStatus = "OFF_DUTY"
	StatusBreakdown DriverStatus = "BREAKDOWN"
	StatusReserved  DriverStatus = "RESERVED"
)

type statusInfo struct {
	label string
	color string
	// Rough estimate of hours until the driver frees up at this status.
	// A scheduling heuristic only, never a hard constraint.
	nominalHours float64
}

var statusTable = map[DriverStatus]statusInfo{
	StatusAvailable: {"Available", "green", 0},
	StatusPreparing: {"Preparing", "yellow", 2},
	StatusLoading:   {"Loading", "orange", 3},
	StatusOnRoad:    {"On Road", "blue", 8},
	StatusUnloading: {"Unloading", "orange", 2},
	StatusReturning: {"Returning", "cyan", 12},
	StatusBreak:     {"Break", "gray", 0.5},
	StatusSleeper:   {"Sleeper Berth", "gray", 10},
	StatusOffDuty:   {"Off Duty", "darkgray", 24},
	StatusBreakdown: {"Breakdown", "red", 48},
	StatusReserved:  {"Reserved", "purple", 4},
}

// Valid reports whether s is one of the defined driver statuses.
func (s DriverStatus) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

// Label returns the display label for the status.
func (s DriverStatus) Label() string {
	if info, ok := statusTable[s]; ok {
		return info.label
	}
	return string(s)
}

// Color returns the presentation color tag for the status.
func (s DriverStatus) Color() string {
	if info, ok := statusTable[s]; ok {
		return info.color
	}
	return "gray"
}

// NominalHoursRemaining returns the rough hours-to-free heuristic.
func (s DriverStatus) NominalHoursRemaining() float64 {
	if info, ok := statusTable[s]; ok {
		return info.nominalHours
	}
	return 0
}
