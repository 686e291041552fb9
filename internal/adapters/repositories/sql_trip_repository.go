package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"truck-trip-service/internal/domain"
	"truck-trip-service/internal/platform/db"
	"truck-trip-service/internal/platform/obs"
	"truck-trip-service/internal/ports"
)

// Fixed-width UTC timestamps so created_at sorts lexically.
const (
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
	dateLayout = "2006-01-02"
)

// SQL-backed implementation of the TripRepository port (SQLite or Postgres).
type SQLTripRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLTripRepository(conn *sql.DB, dialect db.Dialect) *SQLTripRepository {
	return &SQLTripRepository{DB: conn, Dialect: dialect}
}

type fuelStopRow struct {
	Mile float64 `json:"mile"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Type string  `json:"type"`
}

type restStopRow struct {
	Type            string  `json:"type"`
	AfterDriveHours float64 `json:"after_drive_hours"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
}

type slotRow struct {
	Slot   string `json:"slot"`
	Status string `json:"status"`
}

func (s *SQLTripRepository) CreateTrip(ctx context.Context, trip *domain.TripPlan) (err error) {
	defer obs.Time(ctx, "trips.CreateTrip")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}
	if trip == nil || trip.ID == "" {
		return errors.New("create trip: trip id must be non-empty")
	}

	query := `
	INSERT INTO trips (
		id,
		current_lon, current_lat,
		pickup_lon, pickup_lat,
		dropoff_lon, dropoff_lat,
		current_cycle_used,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = s.DB.ExecContext(ctx, s.Dialect.Rebind(query),
		trip.ID,
		trip.CurrentLocation.Lon, trip.CurrentLocation.Lat,
		trip.PickupLocation.Lon, trip.PickupLocation.Lat,
		trip.DropoffLocation.Lon, trip.DropoffLocation.Lat,
		trip.CycleHoursUsed,
		trip.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("create trip id=%s: %w", trip.ID, err)
	}

	return nil
}

func (s *SQLTripRepository) CompleteTrip(ctx context.Context, trip *domain.TripPlan) (err error) {
	defer obs.Time(ctx, "trips.CompleteTrip")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	route, fuel, rest, err := encodeTripExtras(trip)
	if err != nil {
		return fmt.Errorf("complete trip id=%s: %w", trip.ID, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("complete trip: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, s.Dialect.Rebind(`
	UPDATE trips
	SET total_distance = ?,
		total_driving_time = ?,
		estimated_days = ?,
		route_json = ?,
		fuel_stops_json = ?,
		rest_stops_json = ?
	WHERE id = ?;
	`),
		trip.TotalDistanceMiles,
		trip.TotalDrivingHours,
		trip.EstimatedDays,
		route, fuel, rest,
		trip.ID,
	)
	if err != nil {
		return fmt.Errorf("complete trip id=%s: update trip: %w", trip.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("complete trip id=%s: %w", trip.ID, ports.ErrTripNotFound)
	}

	if _, err := tx.ExecContext(ctx, s.Dialect.Rebind(`DELETE FROM duty_logs WHERE trip_id = ?;`), trip.ID); err != nil {
		return fmt.Errorf("complete trip id=%s: clear logs: %w", trip.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO duty_logs (
		trip_id,
		day_number,
		log_date,
		log_data,
		total_on_duty,
		total_driving,
		total_off_duty
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("complete trip: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, l := range trip.Logs {
		slots := make([]slotRow, 0, len(l.Slots))
		for _, sl := range l.Slots {
			slots = append(slots, slotRow{Slot: sl.Label, Status: string(sl.Status)})
		}
		data, err := json.Marshal(slots)
		if err != nil {
			return fmt.Errorf("complete trip: encode day %d: %w", l.DayNumber, err)
		}

		if _, err := stmt.ExecContext(ctx,
			trip.ID,
			l.DayNumber,
			l.Date.Format(dateLayout),
			string(data),
			l.TotalOnDutyHours,
			l.TotalDrivingHours,
			l.TotalOffDutyHours,
		); err != nil {
			return fmt.Errorf("complete trip id=%s: insert day %d: %w", trip.ID, l.DayNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("complete trip commit: %w", err)
	}

	return nil
}

func (s *SQLTripRepository) DeleteTrip(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "trips.DeleteTrip")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete trip: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.Dialect.Rebind(`DELETE FROM duty_logs WHERE trip_id = ?;`), id); err != nil {
		return fmt.Errorf("delete trip id=%s: delete logs: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, s.Dialect.Rebind(`DELETE FROM trips WHERE id = ?;`), id); err != nil {
		return fmt.Errorf("delete trip id=%s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete trip commit: %w", err)
	}
	return nil
}

const tripColumns = `
	id,
	current_lon, current_lat,
	pickup_lon, pickup_lat,
	dropoff_lon, dropoff_lat,
	current_cycle_used,
	total_distance,
	total_driving_time,
	estimated_days,
	route_json,
	fuel_stops_json,
	rest_stops_json,
	created_at
`

func (s *SQLTripRepository) GetTrip(ctx context.Context, id string) (_ *domain.TripPlan, err error) {
	defer obs.Time(ctx, "trips.GetTrip")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, s.Dialect.Rebind(`SELECT `+tripColumns+` FROM trips WHERE id = ?;`), id)
	trip, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get trip id=%s: %w", id, ports.ErrTripNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip id=%s: %w", id, err)
	}

	logs, err := s.listLogs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get trip id=%s: %w", id, err)
	}
	trip.Logs = logs

	return trip, nil
}

func (s *SQLTripRepository) ListTrips(ctx context.Context, limit int) (_ []*domain.TripPlan, err error) {
	defer obs.Time(ctx, "trips.ListTrips")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(`
	SELECT `+tripColumns+`
	FROM trips
	ORDER BY created_at DESC, id
	LIMIT ?;
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]*domain.TripPlan, 0, limit)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	return trips, nil
}

func (s *SQLTripRepository) listLogs(ctx context.Context, tripID string) ([]domain.DutyLog, error) {
	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(`
	SELECT day_number, log_date, log_data, total_on_duty, total_driving, total_off_duty
	FROM duty_logs
	WHERE trip_id = ?
	ORDER BY day_number;
	`), tripID)
	if err != nil {
		return nil, fmt.Errorf("list logs: query duty_logs table: %w", err)
	}
	defer rows.Close()

	logs := []domain.DutyLog{}
	for rows.Next() {
		var (
			l          domain.DutyLog
			date, data string
		)
		if err := rows.Scan(&l.DayNumber, &date, &data, &l.TotalOnDutyHours, &l.TotalDrivingHours, &l.TotalOffDutyHours); err != nil {
			return nil, fmt.Errorf("list logs: scan row: %w", err)
		}

		if l.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("list logs: day %d: parse date: %w", l.DayNumber, err)
		}

		var slots []slotRow
		if err := json.Unmarshal([]byte(data), &slots); err != nil {
			return nil, fmt.Errorf("list logs: day %d: decode slots: %w", l.DayNumber, err)
		}
		l.Slots = make([]domain.LogSlot, 0, len(slots))
		for _, sl := range slots {
			l.Slots = append(l.Slots, domain.LogSlot{Label: sl.Slot, Status: domain.DutyStatus(sl.Status)})
		}

		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list logs: row iteration: %w", err)
	}

	return logs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.TripPlan, error) {
	var (
		t                 domain.TripPlan
		distance, driving sql.NullFloat64
		days              sql.NullInt64
		route, fuel, rest sql.NullString
		createdAt         string
	)

	if err := row.Scan(
		&t.ID,
		&t.CurrentLocation.Lon, &t.CurrentLocation.Lat,
		&t.PickupLocation.Lon, &t.PickupLocation.Lat,
		&t.DropoffLocation.Lon, &t.DropoffLocation.Lat,
		&t.CycleHoursUsed,
		&distance,
		&driving,
		&days,
		&route,
		&fuel,
		&rest,
		&createdAt,
	); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	t.TotalDistanceMiles = distance.Float64
	t.TotalDrivingHours = driving.Float64
	t.EstimatedDays = int(days.Int64)

	if err := decodeTripExtras(&t, route.String, fuel.String, rest.String); err != nil {
		return nil, err
	}

	return &t, nil
}

func encodeTripExtras(trip *domain.TripPlan) (route, fuel, rest string, err error) {
	pairs := make([][2]float64, 0, len(trip.Route))
	for _, c := range trip.Route {
		pairs = append(pairs, c.LatLon())
	}

	fuelRows := make([]fuelStopRow, 0, len(trip.FuelStops))
	for _, f := range trip.FuelStops {
		fuelRows = append(fuelRows, fuelStopRow{Mile: f.MileMark, Lat: f.Location.Lat, Lon: f.Location.Lon, Type: f.Note})
	}

	restRows := make([]restStopRow, 0, len(trip.RestStops))
	for _, r := range trip.RestStops {
		restRows = append(restRows, restStopRow{Type: r.Note, AfterDriveHours: r.AfterDriveHours, Lat: r.Location.Lat, Lon: r.Location.Lon})
	}

	b, err := json.Marshal(pairs)
	if err != nil {
		return "", "", "", fmt.Errorf("encode route: %w", err)
	}
	route = string(b)

	if b, err = json.Marshal(fuelRows); err != nil {
		return "", "", "", fmt.Errorf("encode fuel stops: %w", err)
	}
	fuel = string(b)

	if b, err = json.Marshal(restRows); err != nil {
		return "", "", "", fmt.Errorf("encode rest stops: %w", err)
	}
	rest = string(b)

	return route, fuel, rest, nil
}

// decodeTripExtras fills route and stop fields; empty columns belong to trips
// that were never completed.
func decodeTripExtras(t *domain.TripPlan, route, fuel, rest string) error {
	if route != "" {
		var pairs [][2]float64
		if err := json.Unmarshal([]byte(route), &pairs); err != nil {
			return fmt.Errorf("decode route: %w", err)
		}
		t.Route = make([]domain.Coordinates, 0, len(pairs))
		for _, p := range pairs {
			t.Route = append(t.Route, domain.Coordinates{Lat: p[0], Lon: p[1]})
		}
	}

	if fuel != "" {
		var rows []fuelStopRow
		if err := json.Unmarshal([]byte(fuel), &rows); err != nil {
			return fmt.Errorf("decode fuel stops: %w", err)
		}
		t.FuelStops = make([]domain.FuelStop, 0, len(rows))
		for _, r := range rows {
			t.FuelStops = append(t.FuelStops, domain.FuelStop{
				MileMark: r.Mile,
				Location: domain.Coordinates{Lon: r.Lon, Lat: r.Lat},
				Note:     r.Type,
			})
		}
	}

	if rest != "" {
		var rows []restStopRow
		if err := json.Unmarshal([]byte(rest), &rows); err != nil {
			return fmt.Errorf("decode rest stops: %w", err)
		}
		t.RestStops = make([]domain.RestStop, 0, len(rows))
		for _, r := range rows {
			t.RestStops = append(t.RestStops, domain.RestStop{
				Note:            r.Type,
				AfterDriveHours: r.AfterDriveHours,
				Location:        domain.Coordinates{Lon: r.Lon, Lat: r.Lat},
			})
		}
	}

	return nil
}
