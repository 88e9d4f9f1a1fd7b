package dto

import "time"

type TimeSlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type DriverStatusResponse struct {
	DriverID           int64              `json:"driver_id"`
	Name               string             `json:"name"`
	TruckUnit          string             `json:"truck_unit"`
	TrailerUnit        string             `json:"trailer_unit"`
	Status             string             `json:"status"`
	StatusLabel        string             `json:"status_label"`
	StatusColor        string             `json:"status_color"`
	Location           string             `json:"location"`
	Notes              string             `json:"notes,omitempty"`
	EstimatedAvailable *time.Time         `json:"estimated_available,omitempty"`
	CurrentLoadID      *int64             `json:"current_load_id,omitempty"`
	NextLoadID         *int64             `json:"next_load_id,omitempty"`
	HoursWorkedToday   float64            `json:"hours_worked_today"`
	HoursWorkedWeek    float64            `json:"hours_worked_week"`
	Windows            []TimeSlotResponse `json:"windows"`
	ConflictLoadIDs    []int64            `json:"conflict_load_ids,omitempty"`
	Retired            bool               `json:"retired,omitempty"`
	UpdatedAt          time.Time          `json:"updated_at"`
	UpdatedBy          string             `json:"updated_by,omitempty"`
}

type ListDriverStatusesResponse struct {
	Drivers []DriverStatusResponse `json:"drivers"`
}

type StatisticsResponse struct {
	Total                  int     `json:"total"`
	Available              int     `json:"available"`
	OnRoad                 int     `json:"on_road"`
	OffDuty                int     `json:"off_duty"`
	AvailabilityPercentage float64 `json:"availability_percentage"`
}

type StatusChangeRequest struct {
	DriverID int64  `json:"driver_id"`
	Status   string `json:"status"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
	Actor    string `json:"actor"`
}
