package handlers

import (
	"net/http"

	"driver-dispatch-service/internal/api/dto"
	"driver-dispatch-service/internal/domain"
	"driver-dispatch-service/internal/engine"

	"go.uber.org/zap"
)

// LoadHandler exposes the engine's load views and the assign/release
// operations.
type LoadHandler struct {
	Runner *engine.Runner
	Log    *zap.Logger
}

// Active lists loads currently in play.
func (h *LoadHandler) Active(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodGet) {
		return
	}
	h.list(w, r, func(e *engine.Engine) ([]*domain.Load, error) {
		return e.GetActiveLoads(r.Context())
	})
}

// Unassigned lists booked loads with no driver.
func (h *LoadHandler) Unassigned(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodGet) {
		return
	}
	h.list(w, r, func(e *engine.Engine) ([]*domain.Load, error) {
		return e.GetUnassignedLoads(r.Context())
	})
}

func (h *LoadHandler) list(w http.ResponseWriter, r *http.Request, fetch func(*engine.Engine) ([]*domain.Load, error)) {
	var (
		loads    []*domain.Load
		fetchErr error
	)
	err := h.Runner.Do(r.Context(), func(e *engine.Engine) {
		loads, fetchErr = fetch(e)
	})
	if err != nil {
		writeError(w, r, h.Log, http.StatusServiceUnavailable, "scheduler unavailable")
		return
	}
	if fetchErr != nil {
		h.Log.Error("list loads failed", zap.Error(fetchErr))
		writeError(w, r, h.Log, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListLoadsResponse{Loads: make([]dto.LoadResponse, 0, len(loads))}
	for _, l := range loads {
		res.Loads = append(res.Loads, dto.LoadResponse{
			LoadID:           l.ID,
			Customer:         l.Customer,
			PickupLocation:   l.PickupLocation,
			PickupDate:       l.PickupDate,
			PickupTime:       l.PickupTime,
			DeliveryLocation: l.DeliveryLocation,
			DeliveryDate:     l.DeliveryDate,
			DeliveryTime:     l.DeliveryTime,
			GrossAmount:      l.GrossAmount,
			Status:           string(l.Status),
			DriverID:         l.DriverID,
		})
	}
	writeJSON(w, r, h.Log, http.StatusOK, res)
}

// Assign routes an assignment request through the scheduling goroutine.
// Capacity rejections come back as ordinary negative results, not errors.
func (h *LoadHandler) Assign(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}

	var req dto.AssignRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.LoadID <= 0 || req.DriverID <= 0 {
		writeError(w, r, h.Log, http.StatusBadRequest, "load_id and driver_id are required")
		return
	}

	var (
		ok     bool
		reason string
	)
	err := h.Runner.Do(r.Context(), func(e *engine.Engine) {
		ok, reason = e.AssignLoad(r.Context(), req.LoadID, req.DriverID, req.Notes, req.Actor)
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

// Release clears a load's driver assignment.
func (h *LoadHandler) Release(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}

	var req dto.ReleaseRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.LoadID <= 0 {
		writeError(w, r, h.Log, http.StatusBadRequest, "load_id is required")
		return
	}

	var (
		ok     bool
		reason string
	)
	err := h.Runner.Do(r.Context(), func(e *engine.Engine) {
		ok, reason = e.UnassignLoad(r.Context(), req.LoadID, req.Actor)
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
