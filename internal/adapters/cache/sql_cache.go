package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"truck-trip-service/internal/domain"
	"truck-trip-service/internal/platform/db"
	"truck-trip-service/internal/platform/obs"
)

// SQLGeocodeCache is a SQL-backed cache mapping addresses to coordinates.
type SQLGeocodeCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLGeocodeCache(conn *sql.DB, dialect db.Dialect) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: conn, Dialect: dialect}
}

// Fetch cached coordinates for one address.
func (s *SQLGeocodeCache) Get(ctx context.Context, address string) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Coordinates{}, false, nil
	}

	var c domain.Coordinates
	err = s.DB.QueryRowContext(ctx, s.Dialect.Rebind(`
	SELECT lon, lat
	FROM geocode_cache
	WHERE address = ?;
	`), address).Scan(&c.Lon, &c.Lat)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return c, true, nil
}

// Store an address -> coordinate mapping in the cache.
func (s *SQLGeocodeCache) Put(ctx context.Context, address string, c domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New("insert geocode cache: empty address key")
	}

	_, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(`
	INSERT INTO geocode_cache (address, lon, lat)
	VALUES (?, ?, ?)
	ON CONFLICT (address) DO UPDATE
	SET lon = excluded.lon,
		lat = excluded.lat;
	`), address, c.Lon, c.Lat)
	if err != nil {
		return fmt.Errorf("insert geocode cache coord=%q: %w", address, err)
	}

	return nil
}

// SQLRouteCache is a SQL-backed cache of route legs keyed by their endpoints.
type SQLRouteCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLRouteCache(conn *sql.DB, dialect db.Dialect) *SQLRouteCache {
	return &SQLRouteCache{DB: conn, Dialect: dialect}
}

func (s *SQLRouteCache) Get(ctx context.Context, start, end domain.Coordinates) (_ domain.RouteLeg, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return domain.RouteLeg{}, false, errors.New("route cache: db is nil")
	}

	var (
		leg  domain.RouteLeg
		path string
	)
	err = s.DB.QueryRowContext(ctx, s.Dialect.Rebind(`
	SELECT distance_miles, duration_hours, path_json
	FROM route_cache
	WHERE route_key = ?;
	`), routeKey(start, end)).Scan(&leg.DistanceMiles, &leg.DurationHours, &path)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RouteLeg{}, false, nil
	}
	if err != nil {
		return domain.RouteLeg{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if leg.Path, err = decodePath([]byte(path)); err != nil {
		return domain.RouteLeg{}, false, fmt.Errorf("get route cache: %w", err)
	}

	return leg, true, nil
}

func (s *SQLRouteCache) Put(ctx context.Context, start, end domain.Coordinates, leg domain.RouteLeg) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	path, err := encodePath(leg.Path)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	key := routeKey(start, end)
	_, err = s.DB.ExecContext(ctx, s.Dialect.Rebind(`
	INSERT INTO route_cache (route_key, distance_miles, duration_hours, path_json)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (route_key) DO UPDATE
	SET distance_miles = excluded.distance_miles,
		duration_hours = excluded.duration_hours,
		path_json = excluded.path_json;
	`), key, leg.DistanceMiles, leg.DurationHours, string(path))
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}

// routeKey identifies a leg by its endpoints rounded to ~0.1m.
func routeKey(start, end domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f;%.6f,%.6f", start.Lon, start.Lat, end.Lon, end.Lat)
}

// Paths are stored as [[lon, lat], ...].
func encodePath(path []domain.Coordinates) ([]byte, error) {
	pairs := make([][]float64, 0, len(path))
	for _, c := range path {
		pairs = append(pairs, c.CoordsToList())
	}
	b, err := json.Marshal(pairs)
	if err != nil {
		return nil, fmt.Errorf("encode path: %w", err)
	}
	return b, nil
}

func decodePath(b []byte) ([]domain.Coordinates, error) {
	var pairs [][]float64
	if err := json.Unmarshal(b, &pairs); err != nil {
		return nil, fmt.Errorf("decode path: %w", err)
	}

	path := make([]domain.Coordinates, 0, len(pairs))
	for i, p := range pairs {
		if len(p) < 2 {
			return nil, fmt.Errorf("decode path: point %d has %d values", i, len(p))
		}
		path = append(path, domain.Coordinates{Lon: p[0], Lat: p[1]})
	}
	return path, nil
}
