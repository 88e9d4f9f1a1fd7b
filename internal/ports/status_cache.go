package ports

import (
	"context"

	"driver-dispatch-service/internal/domain"
)

// Port: best-effort sink for computed status snapshots, read by the
// presentation layer. Publish failures are logged by the caller and never
// abort a refresh.
type StatusCache interface {
	// Store the per-driver status snapshots from the latest refresh.
	PutStatuses(ctx context.Context, records []domain.DriverRecord) error

	// Store the latest fleet-level aggregate.
	PutStatistics(ctx context.Context, stats domain.FleetStatistics) error
}
