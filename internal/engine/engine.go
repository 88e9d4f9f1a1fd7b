package engine

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"driver-dispatch-service/internal/domain"
	"driver-dispatch-service/internal/ports"
	"driver-dispatch-service/internal/services"

	"go.uber.org/zap"
)

// Clock supplies "now" so classification stays testable; never read
// time.Now directly inside the engine.
type Clock func() time.Time

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	// Days of availability computed ahead of now.
	HorizonDays int
	// Actor recorded on engine-driven status changes (e.g. unassignment).
	Actor string
	Clock Clock
}

const (
	defaultHorizonDays = 7
	defaultActor       = "scheduler"
)

// Engine aggregates per-driver availability state: on refresh it
// reclassifies every active driver, recomputes availability windows, flags
// conflicts, and answers dispatch queries. It is not internally thread-safe;
// a single owner (see Runner) must serialize every call.
type Engine struct {
	loads   ports.LoadRepository
	drivers ports.DriverRepository
	cache   ports.StatusCache // optional
	log     *zap.Logger

	horizonDays int
	actor       string
	clock       Clock

	records map[int64]*domain.DriverRecord

	// Bumped by Invalidate; a refresh whose fetch began under an older
	// generation is dropped instead of applied.
	gen atomic.Uint64
}

// New wires an engine. cache may be nil when no snapshot sink is configured.
func New(loads ports.LoadRepository, drivers ports.DriverRepository, cache ports.StatusCache, logger *zap.Logger, cfg Config) *Engine {
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = defaultHorizonDays
	}
	if cfg.Actor == "" {
		cfg.Actor = defaultActor
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		loads:       loads,
		drivers:     drivers,
		cache:       cache,
		log:         logger,
		horizonDays: cfg.HorizonDays,
		actor:       cfg.Actor,
		clock:       cfg.Clock,
		records:     make(map[int64]*domain.DriverRecord),
	}
}

// Invalidate marks every in-flight refresh stale. Safe to call from any
// goroutine; used on shutdown and reset so abandoned results are discarded
// on arrival rather than applied.
func (e *Engine) Invalidate() {
	e.gen.Add(1)
}

// driverRefresh is the fetched-and-computed state for one driver, built
// during the read phase of a refresh and applied afterwards.
type driverRefresh struct {
	profile        domain.DriverProfile
	loads          []*domain.Load
	classification services.Classification
	windows        []domain.TimeSlot
	conflicts      []int64
	failed         bool
}

// RefreshAll reclassifies every active driver and recomputes availability in
// place. One driver's failure is isolated and logged; the batch continues.
// Only a whole-batch repository failure is returned to the caller.
func (e *Engine) RefreshAll(ctx context.Context) error {
	startGen := e.gen.Load()
	now := e.clock()

	profiles, err := e.drivers.GetActiveDrivers(ctx)
	if err != nil {
		e.log.Error("refresh: list active drivers", zap.Error(err))
		return fmt.Errorf("refresh all: get active drivers: %w", err)
	}

	refreshes := make([]driverRefresh, 0, len(profiles))
	for _, p := range profiles {
		r := driverRefresh{profile: p}

		loads, err := e.loads.GetByDriver(ctx, p.ID)
		if err != nil {
			// Isolated failure: keep the driver's previous state.
			e.log.Error("refresh: get loads for driver",
				zap.Int64("driver_id", p.ID), zap.Error(err))
			r.failed = true
			refreshes = append(refreshes, r)
			continue
		}

		loads = services.FilterSchedulable(loads)
		services.SortLoadsForScheduling(loads)

		cls := services.Classify(loads, now)

		// The window cursor anchors on the classifier's free-up estimate
		// whenever the driver is tied up (mid-load or returning).
		var estAvail *time.Time
		if cls.CurrentLoad != nil || cls.Status == domain.StatusReturning {
			estAvail = cls.EstimatedAvailable
		}

		r.loads = loads
		r.classification = cls
		r.windows = services.ComputeWindows(loads, estAvail, now, e.horizonDays)
		r.conflicts = services.ConflictIDs(loads)
		refreshes = append(refreshes, r)
	}

	// Drop stale results: the owning session invalidated while we were
	// fetching, so applying now could interleave with a newer pass.
	if e.gen.Load() != startGen {
		e.log.Warn("refresh: discarding stale refresh result",
			zap.Uint64("generation", startGen))
		return nil
	}

	active := make(map[int64]struct{}, len(refreshes))
	for _, r := range refreshes {
		active[r.profile.ID] = struct{}{}
		if r.failed {
			continue
		}
		e.applyDriverRefresh(r, now)
	}

	// Retire (never delete) records for drivers no longer dispatchable.
	for id, rec := range e.records {
		if _, ok := active[id]; !ok && !rec.Retired {
			rec.Retire()
			e.log.Info("refresh: driver retired from dispatch",
				zap.Int64("driver_id", id))
		}
	}

	e.publishSnapshots(ctx)
	return nil
}

// applyDriverRefresh writes one driver's computed state into its record in
// place, so references held by callers stay valid across refreshes.
func (e *Engine) applyDriverRefresh(r driverRefresh, now time.Time) {
	rec, ok := e.records[r.profile.ID]
	if !ok {
		rec = domain.NewDriverRecord(r.profile)
		e.records[r.profile.ID] = rec
	}

	rec.Name = r.profile.Name
	rec.TruckUnit = r.profile.TruckUnit
	rec.TrailerUnit = r.profile.TrailerUnit
	rec.HoursWorkedToday = r.profile.HoursWorkedToday
	rec.HoursWorkedWeek = r.profile.HoursWorkedWeek
	rec.Retired = false

	cls := r.classification
	rec.Status = cls.Status
	rec.Location = cls.Location
	rec.EstimatedAvailable = cls.EstimatedAvailable
	rec.ETA = cls.EstimatedAvailable
	rec.CurrentLoad = cls.CurrentLoad
	rec.NextLoad = cls.NextLoad
	rec.AssignedLoads = r.loads
	rec.Windows = r.windows
	rec.ConflictLoadIDs = r.conflicts
	rec.UpdatedAt = now
}

// publishSnapshots pushes the latest per-driver state and fleet statistics
// to the snapshot cache. Best effort: failures are logged, never returned.
func (e *Engine) publishSnapshots(ctx context.Context) {
	if e.cache == nil {
		return
	}
	if err := e.cache.PutStatuses(ctx, e.GetDriverStatuses()); err != nil {
		e.log.Error("refresh: publish driver statuses", zap.Error(err))
	}
	if err := e.cache.PutStatistics(ctx, e.GetStatistics()); err != nil {
		e.log.Error("refresh: publish statistics", zap.Error(err))
	}
}

// AssignLoad assigns a booked load to a driver after a capacity check,
// promotes it to ASSIGNED, and refreshes. Returns ok plus a human-readable
// reason on rejection; persistence failures are logged and reported the
// same way, never thrown.
func (e *Engine) AssignLoad(ctx context.Context, loadID, driverID int64, notes, actor string) (bool, string) {
	rec, ok := e.records[driverID]
	if !ok || rec.Retired {
		return false, fmt.Sprintf("driver %d is not active for dispatch", driverID)
	}

	load, reason := e.findActiveLoad(ctx, loadID)
	if load == nil {
		return false, reason
	}
	if load.DriverID != nil {
		return false, fmt.Sprintf("load %d is already assigned to driver %d", loadID, *load.DriverID)
	}
	if load.Status != domain.LoadBooked {
		return false, fmt.Sprintf("load %d is %s, only booked loads can be assigned", loadID, load.Status)
	}

	if span, ok := load.Span(); ok {
		if !rec.HasRoom(span.Start, span.End) {
			return false, fmt.Sprintf("driver %d has no room for load %d", driverID, loadID)
		}
	}

	if err := e.loads.Assign(ctx, loadID, driverID); err != nil {
		e.log.Error("assign load: persist assignment",
			zap.Int64("load_id", loadID), zap.Int64("driver_id", driverID), zap.Error(err))
		return false, "assignment could not be persisted"
	}
	if err := e.loads.UpdateStatus(ctx, loadID, domain.LoadAssigned); err != nil {
		e.log.Error("assign load: promote status",
			zap.Int64("load_id", loadID), zap.Int64("driver_id", driverID), zap.Error(err))
		return false, "load status could not be updated"
	}

	if actor == "" {
		actor = e.actor
	}
	if notes != "" {
		rec.Notes = notes
	}
	rec.UpdatedBy = actor

	e.log.Info("load assigned",
		zap.Int64("load_id", loadID), zap.Int64("driver_id", driverID),
		zap.String("actor", actor))

	if err := e.RefreshAll(ctx); err != nil {
		e.log.Error("assign load: refresh after assignment", zap.Error(err))
	}
	return true, ""
}

// UnassignLoad clears a load's driver reference, reverts the driver to
// available with a note, and refreshes. Unassigning a driverless load is a
// logged no-op.
func (e *Engine) UnassignLoad(ctx context.Context, loadID int64, actor string) (bool, string) {
	load, reason := e.findActiveLoad(ctx, loadID)
	if load == nil {
		return false, reason
	}
	if load.DriverID == nil {
		e.log.Warn("unassign load: load has no driver", zap.Int64("load_id", loadID))
		return false, fmt.Sprintf("load %d has no assigned driver", loadID)
	}
	driverID := *load.DriverID

	if err := e.loads.Unassign(ctx, loadID); err != nil {
		e.log.Error("unassign load: persist",
			zap.Int64("load_id", loadID), zap.Int64("driver_id", driverID), zap.Error(err))
		return false, "unassignment could not be persisted"
	}

	if actor == "" {
		actor = e.actor
	}
	if rec, ok := e.records[driverID]; ok {
		if rec.CurrentLoad != nil && rec.CurrentLoad.ID == loadID {
			rec.CurrentLoad = nil
		}
		rec.RecordStatusChange(domain.StatusAvailable, "",
			fmt.Sprintf("Unassigned from load %d", loadID), actor, e.clock())
	}

	e.log.Info("load unassigned",
		zap.Int64("load_id", loadID), zap.Int64("driver_id", driverID),
		zap.String("actor", actor))

	if err := e.RefreshAll(ctx); err != nil {
		e.log.Error("unassign load: refresh after unassignment", zap.Error(err))
	}
	return true, ""
}

// RecordStatusChange applies an explicit, user-driven status change to one
// driver (break, breakdown, off duty, ...) and republishes snapshots.
func (e *Engine) RecordStatusChange(ctx context.Context, driverID int64, status domain.DriverStatus, location, notes, actor string) (bool, string) {
	if !status.Valid() {
		return false, fmt.Sprintf("unknown status %q", status)
	}
	rec, ok := e.records[driverID]
	if !ok {
		return false, fmt.Sprintf("driver %d is not active for dispatch", driverID)
	}
	if actor == "" {
		actor = e.actor
	}
	rec.RecordStatusChange(status, location, notes, actor, e.clock())
	e.publishSnapshots(ctx)
	return true, ""
}

// findActiveLoad resolves a load id against the active-load view.
func (e *Engine) findActiveLoad(ctx context.Context, loadID int64) (*domain.Load, string) {
	loads, err := e.loads.GetActive(ctx)
	if err != nil {
		e.log.Error("find load: list active loads",
			zap.Int64("load_id", loadID), zap.Error(err))
		return nil, "loads could not be fetched"
	}
	for _, l := range loads {
		if l.ID == loadID {
			return l, ""
		}
	}
	return nil, fmt.Sprintf("load %d not found among active loads", loadID)
}

// GetDriverStatuses returns snapshots of every driver record (retired
// included), ordered by driver id.
func (e *Engine) GetDriverStatuses() []domain.DriverRecord {
	out := make([]domain.DriverRecord, 0, len(e.records))
	for _, rec := range e.records {
		out = append(out, rec.Clone())
	}
	slices.SortFunc(out, func(a, b domain.DriverRecord) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// GetAvailableDrivers returns snapshots of drivers currently available.
func (e *Engine) GetAvailableDrivers() []domain.DriverRecord {
	return e.selectRecords(func(rec *domain.DriverRecord) bool {
		return rec.Status == domain.StatusAvailable
	})
}

// FindAvailableDrivers returns candidates for the interval [start, end]:
// drivers available now, plus returning or on-road drivers expected free at
// or before start.
func (e *Engine) FindAvailableDrivers(start, end time.Time) []domain.DriverRecord {
	return e.selectRecords(func(rec *domain.DriverRecord) bool {
		switch rec.Status {
		case domain.StatusAvailable:
			return true
		case domain.StatusReturning, domain.StatusOnRoad:
			return rec.EstimatedAvailable != nil && !rec.EstimatedAvailable.After(start)
		}
		return false
	})
}

// GetDriversReturningSoon returns drivers tied up now but expected free
// within the given number of days.
func (e *Engine) GetDriversReturningSoon(days int) []domain.DriverRecord {
	deadline := e.clock().AddDate(0, 0, days)
	return e.selectRecords(func(rec *domain.DriverRecord) bool {
		switch rec.Status {
		case domain.StatusReturning, domain.StatusOnRoad, domain.StatusLoading, domain.StatusUnloading:
			return rec.EstimatedAvailable != nil && !rec.EstimatedAvailable.After(deadline)
		}
		return false
	})
}

func (e *Engine) selectRecords(keep func(*domain.DriverRecord) bool) []domain.DriverRecord {
	var out []domain.DriverRecord
	for _, rec := range e.records {
		if rec.Retired || !keep(rec) {
			continue
		}
		out = append(out, rec.Clone())
	}
	slices.SortFunc(out, func(a, b domain.DriverRecord) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// GetActiveLoads returns the current active-load view.
func (e *Engine) GetActiveLoads(ctx context.Context) ([]*domain.Load, error) {
	loads, err := e.loads.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active loads: %w", err)
	}
	return loads, nil
}

// GetUnassignedLoads returns booked loads with no driver.
func (e *Engine) GetUnassignedLoads(ctx context.Context) ([]*domain.Load, error) {
	loads, err := e.loads.GetUnassigned(ctx)
	if err != nil {
		return nil, fmt.Errorf("get unassigned loads: %w", err)
	}
	return loads, nil
}

// GetStatistics aggregates fleet-level counts over non-retired records.
func (e *Engine) GetStatistics() domain.FleetStatistics {
	var stats domain.FleetStatistics
	for _, rec := range e.records {
		if rec.Retired {
			continue
		}
		stats.Total++
		switch rec.Status {
		case domain.StatusAvailable:
			stats.Available++
		case domain.StatusOnRoad:
			stats.OnRoad++
		case domain.StatusOffDuty:
			stats.OffDuty++
		}
	}
	if stats.Total > 0 {
		stats.AvailabilityPercentage = float64(stats.Available) / float64(stats.Total) * 100
	}
	return stats
}
