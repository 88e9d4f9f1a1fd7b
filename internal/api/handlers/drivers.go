package handlers

import (
	"net/http"
	"strconv"
	"time"

	"driver-dispatch-service/internal/api/dto"
	"driver-dispatch-service/internal/domain"
	"driver-dispatch-service/internal/engine"

	"go.uber.org/zap"
)

// DriverHandler exposes driver availability queries and explicit status
// changes. Every engine access goes through the Runner so reads and writes
// stay on the single scheduling goroutine.
type DriverHandler struct {
	Runner *engine.Runner
	Log    *zap.Logger
}

// Statuses returns snapshots of every driver record.
func (h *DriverHandler) Statuses(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodGet) {
		return
	}

	var recs []domain.DriverRecord
	err := h.Runner.Do(r.Context(), func(e *engine.Engine) {
		recs = e.GetDriverStatuses()
	})
	if err != nil {
		writeError(w, r, h.Log, http.StatusServiceUnavailable, "scheduler unavailable")
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, toStatusList(recs))
}

// Available returns drivers free now, or — when start/end are supplied —
// candidates for that interval (drivers expected free in time included).
func (h *DriverHandler) Available(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	startRaw, endRaw := q.Get("start"), q.Get("end")

	var (
		start, end time.Time
		ranged     bool
	)
	if startRaw != "" || endRaw != "" {
		var err error
		start, err = time.Parse(time.RFC3339, startRaw)
		if err != nil {
			writeError(w, r, h.Log, http.StatusBadRequest, "start must be RFC3339")
			return
		}
		end, err = time.Parse(time.RFC3339, endRaw)
		if err != nil {
			writeError(w, r, h.Log, http.StatusBadRequest, "end must be RFC3339")
			return
		}
		if end.Before(start) {
			writeError(w, r, h.Log, http.StatusBadRequest, "end precedes start")
			return
		}
		ranged = true
	}

	var recs []domain.DriverRecord
	err := h.Runner.Do(r.Context(), func(e *engine.Engine) {
		if ranged {
			recs = e.FindAvailableDrivers(start, end)
		} else {
			recs = e.GetAvailableDrivers()
		}
	})
	if err != nil {
		writeError(w, r, h.Log, http.StatusServiceUnavailable, "scheduler unavailable")
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, toStatusList(recs))
}

// Returning returns drivers expected free within ?days (default 2).
func (h *DriverHandler) Returning(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodGet) {
		return
	}

	days := 2
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 30 {
			writeError(w, r, h.Log, http.StatusBadRequest, "days must be between 1 and 30")
			return
		}
		days = parsed
	}

	var recs []domain.DriverRecord
	err := h.Runner.Do(r.Context(), func(e *engine.Engine) {
		recs = e.GetDriversReturningSoon(days)
	})
	if err != nil {
		writeError(w, r, h.Log, http.StatusServiceUnavailable, "scheduler unavailable")
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, toStatusList(recs))
}

// Status applies an explicit status change (break, breakdown, off duty...).
func (h *DriverHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}

	var req dto.StatusChangeRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.DriverID <= 0 {
		writeError(w, r, h.Log, http.StatusBadRequest, "driver_id is required")
		return
	}

	var (
		ok     bool
		reason string
	)
	err := h.Runner.Do(r.Context(), func(e *engine.Engine) {
		ok, reason = e.RecordStatusChange(r.Context(), req.DriverID,
			domain.DriverStatus(req.Status), req.Location, req.Notes, req.Actor)
	})
	if err != nil {
		writeError(w, r, h.Log, http.StatusServiceUnavailable, "scheduler unavailable")
		return
	}

	status := http.StatusOK
	if !ok {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, r, h.Log, status, dto.OperationResponse{OK: ok, Reason: reason})
}

// Statistics returns the fleet aggregate.
func (h *DriverHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodGet) {
		return
	}

	var stats domain.FleetStatistics
	err := h.Runner.Do(r.Context(), func(e *engine.Engine) {
		stats = e.GetStatistics()
	})
	if err != nil {
		writeError(w, r, h.Log, http.StatusServiceUnavailable, "scheduler unavailable")
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.StatisticsResponse{
		Total:                  stats.Total,
		Available:              stats.Available,
		OnRoad:                 stats.OnRoad,
		OffDuty:                stats.OffDuty,
		AvailabilityPercentage: stats.AvailabilityPercentage,
	})
}

// Refresh triggers an out-of-band scheduling pass. Returns immediately;
// the pass coalesces with any already pending one.
func (h *DriverHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}

	h.Runner.TriggerRefresh()
	writeJSON(w, r, h.Log, http.StatusAccepted, dto.OperationResponse{OK: true})
}

func toStatusList(recs []domain.DriverRecord) dto.ListDriverStatusesResponse {
	res := dto.ListDriverStatusesResponse{
		Drivers: make([]dto.DriverStatusResponse, 0, len(recs)),
	}
	for i := range recs {
		rec := &recs[i]
		d := dto.DriverStatusResponse{
			DriverID:           rec.ID,
			Name:               rec.Name,
			TruckUnit:          rec.TruckUnit,
			TrailerUnit:        rec.TrailerUnit,
			Status:             string(rec.Status),
			StatusLabel:        rec.Status.Label(),
			StatusColor:        rec.Status.Color(),
			Location:           rec.Location,
			Notes:              rec.Notes,
			EstimatedAvailable: rec.EstimatedAvailable,
			HoursWorkedToday:   rec.HoursWorkedToday,
			HoursWorkedWeek:    rec.HoursWorkedWeek,
			Windows:            make([]dto.TimeSlotResponse, 0, len(rec.Windows)),
			ConflictLoadIDs:    rec.ConflictLoadIDs,
			Retired:            rec.Retired,
			UpdatedAt:          rec.UpdatedAt,
			UpdatedBy:          rec.UpdatedBy,
		}
		if rec.CurrentLoad != nil {
			id := rec.CurrentLoad.ID
			d.CurrentLoadID = &id
		}
		if rec.NextLoad != nil {
			id := rec.NextLoad.ID
			d.NextLoadID = &id
		}
		for _, win := range rec.Windows {
			d.Windows = append(d.Windows, dto.TimeSlotResponse{Start: win.Start, End: win.End})
		}
		res.Drivers = append(res.Drivers, d)
	}
	return res
}
