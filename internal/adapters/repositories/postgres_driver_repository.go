package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"driver-dispatch-service/internal/domain"
)

// Postgres-backed implementation of the DriverRepository port.
type PostgresDriverRepository struct{ DB *sql.DB }

func NewPostgresDriverRepository(db *sql.DB) *PostgresDriverRepository {
	return &PostgresDriverRepository{DB: db}
}

// GetActiveDrivers returns drivers flagged as dispatchable, with the
// hours-worked totals maintained by the payroll side.
func (r *PostgresDriverRepository) GetActiveDrivers(ctx context.Context) ([]domain.DriverProfile, error) {
	if r.DB == nil {
		return nil, errors.New("driver repository: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		truck_unit,
		trailer_unit,
		hours_today,
		hours_week
	FROM drivers
	WHERE active
	ORDER BY id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active drivers: query drivers table: %w", err)
	}
	defer rows.Close()

	drivers := make([]domain.DriverProfile, 0, 32)
	for rows.Next() {
		var p domain.DriverProfile
		err := rows.Scan(&p.ID, &p.Name, &p.TruckUnit, &p.TrailerUnit,
			&p.HoursWorkedToday, &p.HoursWorkedWeek)
		if err != nil {
			return nil, fmt.Errorf("get active drivers: scan row: %w", err)
		}
		drivers = append(drivers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get active drivers: row iteration: %w", err)
	}
	return drivers, nil
}
