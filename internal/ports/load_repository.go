package ports

import (
	"context"

	"driver-dispatch-service/internal/domain"
)

// Port: boundary for reading and mutating Load entities. The scheduling
// engine reads loads and writes only driver assignment and the
// BOOKED -> ASSIGNED promotion; everything else belongs to the external
// load-management subsystem.
type LoadRepository interface {
	// Loads not yet completed or cancelled (booked, assigned, in transit).
	GetActive(ctx context.Context) ([]*domain.Load, error)

	// All non-cancelled loads for one driver, including completed ones
	// (classification needs the delivery history).
	GetByDriver(ctx context.Context, driverID int64) ([]*domain.Load, error)

	// Booked loads with no driver assigned.
	GetUnassigned(ctx context.Context) ([]*domain.Load, error)

	// Set the load's driver reference.
	Assign(ctx context.Context, loadID, driverID int64) error

	// Clear the load's driver reference.
	Unassign(ctx context.Context, loadID int64) error

	// Persist a load status transition.
	UpdateStatus(ctx context.Context, loadID int64, status domain.LoadStatus) error
}
