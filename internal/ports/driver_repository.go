package ports

import (
	"context"

	"driver-dispatch-service/internal/domain"
)

// Port: boundary for retrieving dispatchable drivers from the driver store.
type DriverRepository interface {
	// Drivers currently flagged as dispatchable, with their externally
	// maintained hours-worked totals.
	GetActiveDrivers(ctx context.Context) ([]domain.DriverProfile, error)
}
