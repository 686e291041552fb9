package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"truck-trip-service/internal/platform/db"
)

// Column types that differ between backends.
type columnTypes struct {
	float string
}

var dialectTypes = map[db.Dialect]columnTypes{
	db.SQLite:   {float: "REAL"},
	db.Postgres: {float: "DOUBLE PRECISION"},
}

// InitSchema creates the trip, duty log, and provider cache tables.
func InitSchema(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	types, ok := dialectTypes[dialect]
	if !ok {
		return fmt.Errorf("init schema: unsupported dialect %q", dialect)
	}
	f := types.float

	createTripsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		current_lon %[1]s NOT NULL,
		current_lat %[1]s NOT NULL,
		pickup_lon %[1]s NOT NULL,
		pickup_lat %[1]s NOT NULL,
		dropoff_lon %[1]s NOT NULL,
		dropoff_lat %[1]s NOT NULL,
		current_cycle_used %[1]s NOT NULL DEFAULT 0,
		total_distance %[1]s,
		total_driving_time %[1]s,
		estimated_days INTEGER,
		route_json TEXT,
		fuel_stops_json TEXT,
		rest_stops_json TEXT,
		created_at TEXT NOT NULL
	);
	`, f)

	createDutyLogsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS duty_logs (
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		day_number INTEGER NOT NULL,
		log_date TEXT NOT NULL,
		log_data TEXT NOT NULL,
		total_on_duty %[1]s NOT NULL DEFAULT 0,
		total_driving %[1]s NOT NULL DEFAULT 0,
		total_off_duty %[1]s NOT NULL DEFAULT 0,
		PRIMARY KEY (trip_id, day_number)
	);
	`, f)

	createGeocodeCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon %[1]s NOT NULL,
		lat %[1]s NOT NULL
	);
	`, f)

	createRouteCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS route_cache (
		route_key TEXT PRIMARY KEY,
		distance_miles %[1]s NOT NULL,
		duration_hours %[1]s NOT NULL,
		path_json TEXT NOT NULL
	);
	`, f)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trips_created_at
	ON trips(created_at);
	`

	statements := []string{
		createTripsQuery,
		createDutyLogsQuery,
		createGeocodeCacheQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
