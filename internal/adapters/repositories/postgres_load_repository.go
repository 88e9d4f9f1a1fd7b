package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"driver-dispatch-service/internal/domain"
)

// Postgres-backed implementation of the LoadRepository port.
type PostgresLoadRepository struct{ DB *sql.DB }

func NewPostgresLoadRepository(db *sql.DB) *PostgresLoadRepository {
	return &PostgresLoadRepository{DB: db}
}

const loadColumns = `
	id,
	customer,
	pickup_location,
	pickup_date,
	pickup_time,
	delivery_location,
	delivery_date,
	delivery_time,
	gross_amount,
	status,
	driver_id
`

// GetActive returns loads still in play: booked, assigned, or in transit.
func (r *PostgresLoadRepository) GetActive(ctx context.Context) ([]*domain.Load, error) {
	if r.DB == nil {
		return nil, errors.New("load repository: DB is nil")
	}

	query := `
	SELECT ` + loadColumns + `
	FROM loads
	WHERE status IN ('BOOKED', 'ASSIGNED', 'IN_TRANSIT')
	ORDER BY pickup_date NULLS LAST, pickup_time NULLS LAST, id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active loads: query loads table: %w", err)
	}
	defer rows.Close()

	return scanLoads(rows, "get active loads")
}

// GetByDriver returns all non-cancelled loads for one driver, completed
// ones included, in pickup order.
func (r *PostgresLoadRepository) GetByDriver(ctx context.Context, driverID int64) ([]*domain.Load, error) {
	if r.DB == nil {
		return nil, errors.New("load repository: DB is nil")
	}

	query := `
	SELECT ` + loadColumns + `
	FROM loads
	WHERE driver_id = $1
		AND status <> 'CANCELLED'
	ORDER BY pickup_date NULLS LAST, pickup_time NULLS LAST, id;
	`
	rows, err := r.DB.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, fmt.Errorf("get loads for driver %d: query loads table: %w", driverID, err)
	}
	defer rows.Close()

	return scanLoads(rows, "get loads by driver")
}

// GetUnassigned returns booked loads with no driver reference.
func (r *PostgresLoadRepository) GetUnassigned(ctx context.Context) ([]*domain.Load, error) {
	if r.DB == nil {
		return nil, errors.New("load repository: DB is nil")
	}

	query := `
	SELECT ` + loadColumns + `
	FROM loads
	WHERE status = 'BOOKED'
		AND driver_id IS NULL
	ORDER BY pickup_date NULLS LAST, pickup_time NULLS LAST, id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get unassigned loads: query loads table: %w", err)
	}
	defer rows.Close()

	return scanLoads(rows, "get unassigned loads")
}

// Assign sets the load's driver reference.
func (r *PostgresLoadRepository) Assign(ctx context.Context, loadID, driverID int64) error {
	if r.DB == nil {
		return errors.New("load repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE loads SET driver_id = $1 WHERE id = $2;`, driverID, loadID)
	if err != nil {
		return fmt.Errorf("assign load %d to driver %d: %w", loadID, driverID, err)
	}
	return requireOneRow(res, fmt.Sprintf("assign load %d", loadID))
}

// Unassign clears the load's driver reference.
func (r *PostgresLoadRepository) Unassign(ctx context.Context, loadID int64) error {
	if r.DB == nil {
		return errors.New("load repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE loads SET driver_id = NULL WHERE id = $1;`, loadID)
	if err != nil {
		return fmt.Errorf("unassign load %d: %w", loadID, err)
	}
	return requireOneRow(res, fmt.Sprintf("unassign load %d", loadID))
}

// UpdateStatus persists a load status transition.
func (r *PostgresLoadRepository) UpdateStatus(ctx context.Context, loadID int64, status domain.LoadStatus) error {
	if r.DB == nil {
		return errors.New("load repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE loads SET status = $1 WHERE id = $2;`, string(status), loadID)
	if err != nil {
		return fmt.Errorf("update load %d status to %s: %w", loadID, status, err)
	}
	return requireOneRow(res, fmt.Sprintf("update load %d status", loadID))
}

func requireOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: no matching row", op)
	}
	return nil
}

func scanLoads(rows *sql.Rows, op string) ([]*domain.Load, error) {
	loads := make([]*domain.Load, 0, 64)
	for rows.Next() {
		var (
			l            domain.Load
			pickupDate   sql.NullTime
			pickupTime   sql.NullString
			deliveryDate sql.NullTime
			deliveryTime sql.NullString
			driverID     sql.NullInt64
		)
		err := rows.Scan(
			&l.ID,
			&l.Customer,
			&l.PickupLocation,
			&pickupDate,
			&pickupTime,
			&l.DeliveryLocation,
			&deliveryDate,
			&deliveryTime,
			&l.GrossAmount,
			&l.Status,
			&driverID,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		if pickupDate.Valid {
			d := pickupDate.Time
			l.PickupDate = &d
		}
		if pickupTime.Valid {
			l.PickupTime = pickupTime.String
		}
		if deliveryDate.Valid {
			d := deliveryDate.Time
			l.DeliveryDate = &d
		}
		if deliveryTime.Valid {
			l.DeliveryTime = deliveryTime.String
		}
		if driverID.Valid {
			id := driverID.Int64
			l.DriverID = &id
		}

		loads = append(loads, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}
	return loads, nil
}
