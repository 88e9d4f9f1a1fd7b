package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the Postgres schema used by the dispatch service.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDriversQuery := `
	CREATE TABLE IF NOT EXISTS drivers (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		truck_unit TEXT NOT NULL DEFAULT '',
		trailer_unit TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		hours_today DOUBLE PRECISION NOT NULL DEFAULT 0,
		hours_week DOUBLE PRECISION NOT NULL DEFAULT 0
	);
	`

	createLoadsQuery := `
	CREATE TABLE IF NOT EXISTS loads (
		id BIGINT PRIMARY KEY,
		customer TEXT NOT NULL DEFAULT '',
		pickup_location TEXT NOT NULL DEFAULT '',
		pickup_date DATE,
		pickup_time TEXT,
		delivery_location TEXT NOT NULL DEFAULT '',
		delivery_date DATE,
		delivery_time TEXT,
		gross_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'BOOKED',
		driver_id BIGINT REFERENCES drivers(id)
	);
	`

	createDriverIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_loads_driver_status
	ON loads(driver_id, status);
	`

	createStatusIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_loads_status
	ON loads(status);
	`

	statements := []string{
		createDriversQuery,
		createLoadsQuery,
		createDriverIndexQuery,
		createStatusIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type DriverSeed struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	TruckUnit   string  `json:"truck_unit"`
	TrailerUnit string  `json:"trailer_unit"`
	Active      *bool   `json:"active"`
	HoursToday  float64 `json:"hours_today"`
	HoursWeek   float64 `json:"hours_week"`
}

type LoadSeed struct {
	ID               int64   `json:"id"`
	Customer         string  `json:"customer"`
	PickupLocation   string  `json:"pickup_location"`
	PickupDate       string  `json:"pickup_date"`
	PickupTime       string  `json:"pickup_time"`
	DeliveryLocation string  `json:"delivery_location"`
	DeliveryDate     string  `json:"delivery_date"`
	DeliveryTime     string  `json:"delivery_time"`
	GrossAmount      float64 `json:"gross_amount"`
	Status           string  `json:"status"`
	DriverID         *int64  `json:"driver_id"`
}

type SeedFile struct {
	Drivers []DriverSeed `json:"drivers"`
	Loads   []LoadSeed   `json:"loads"`
}

// Populate the database with driver and load data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed dispatch data: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed dispatch data: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed dispatch data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	driverStmt, err := tx.Prepare(`
	INSERT INTO drivers (id, name, truck_unit, trailer_unit, active, hours_today, hours_week)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		truck_unit = EXCLUDED.truck_unit,
		trailer_unit = EXCLUDED.trailer_unit,
		active = EXCLUDED.active,
		hours_today = EXCLUDED.hours_today,
		hours_week = EXCLUDED.hours_week;
	`)
	if err != nil {
		return fmt.Errorf("seed dispatch data: prepare driver insert: %w", err)
	}
	defer driverStmt.Close()

	for i, d := range data.Drivers {
		if d.ID <= 0 {
			return fmt.Errorf("seed dispatch data: invalid driver id at index %d: %d", i+1, d.ID)
		}
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return fmt.Errorf("seed dispatch data: driver at index %d: name cannot be empty", i+1)
		}
		active := true
		if d.Active != nil {
			active = *d.Active
		}
		if _, err := driverStmt.Exec(d.ID, name, d.TruckUnit, d.TrailerUnit, active, d.HoursToday, d.HoursWeek); err != nil {
			return fmt.Errorf("seed dispatch data: insert driver id=%d: %w", d.ID, err)
		}
	}

	loadStmt, err := tx.Prepare(`
	INSERT INTO loads (id, customer, pickup_location, pickup_date, pickup_time,
		delivery_location, delivery_date, delivery_time, gross_amount, status, driver_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE
	SET customer = EXCLUDED.customer,
		pickup_location = EXCLUDED.pickup_location,
		pickup_date = EXCLUDED.pickup_date,
		pickup_time = EXCLUDED.pickup_time,
		delivery_location = EXCLUDED.delivery_location,
		delivery_date = EXCLUDED.delivery_date,
		delivery_time = EXCLUDED.delivery_time,
		gross_amount = EXCLUDED.gross_amount,
		status = EXCLUDED.status,
		driver_id = EXCLUDED.driver_id;
	`)
	if err != nil {
		return fmt.Errorf("seed dispatch data: prepare load insert: %w", err)
	}
	defer loadStmt.Close()

	for i, l := range data.Loads {
		if l.ID <= 0 {
			return fmt.Errorf("seed dispatch data: invalid load id at index %d: %d", i+1, l.ID)
		}
		status := strings.TrimSpace(l.Status)
		if status == "" {
			status = "BOOKED"
		}

		pickupDate, err := parseSeedDate(l.PickupDate)
		if err != nil {
			return fmt.Errorf("seed dispatch data: load id=%d pickup_date: %w", l.ID, err)
		}
		deliveryDate, err := parseSeedDate(l.DeliveryDate)
		if err != nil {
			return fmt.Errorf("seed dispatch data: load id=%d delivery_date: %w", l.ID, err)
		}

		_, err = loadStmt.Exec(
			l.ID, l.Customer, l.PickupLocation, pickupDate, nullableString(l.PickupTime),
			l.DeliveryLocation, deliveryDate, nullableString(l.DeliveryTime),
			l.GrossAmount, status, l.DriverID,
		)
		if err != nil {
			return fmt.Errorf("seed dispatch data: insert load id=%d: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed dispatch data: commit tx: %w", err)
	}

	return nil
}

func parseSeedDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s, err)
	}
	return &t, nil
}

func nullableString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
