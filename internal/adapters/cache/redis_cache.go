package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"truck-trip-service/internal/domain"
	"truck-trip-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const (
	geocodeKeyPrefix = "cache:geocode:"
	routeKeyPrefix   = "cache:route:"
)

type cachedCoordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type cachedLeg struct {
	DistanceMiles float64         `json:"distance_miles"`
	DurationHours float64         `json:"duration_hours"`
	Path          json.RawMessage `json:"path"`
}

// RedisGeocodeCache stores geocode results in Redis with a fixed TTL.
type RedisGeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// A zero ttl keeps entries until evicted.
func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{client: client, ttl: ttl}
}

func (s *RedisGeocodeCache) Get(ctx context.Context, address string) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "geocode.redis.Get")(&err)

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Coordinates{}, false, nil
	}

	data, err := s.client.Get(ctx, geocodeKeyPrefix+address).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: %w", err)
	}

	var c cachedCoordinates
	if err := json.Unmarshal(data, &c); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: decode %q: %w", address, err)
	}
	return domain.Coordinates{Lon: c.Lon, Lat: c.Lat}, true, nil
}

func (s *RedisGeocodeCache) Put(ctx context.Context, address string, c domain.Coordinates) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New("insert geocode cache: empty address key")
	}

	data, err := json.Marshal(cachedCoordinates{Lon: c.Lon, Lat: c.Lat})
	if err != nil {
		return fmt.Errorf("insert geocode cache: %w", err)
	}
	if err := s.client.Set(ctx, geocodeKeyPrefix+address, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("insert geocode cache coord=%q: %w", address, err)
	}
	return nil
}

// RedisRouteCache stores route legs in Redis with a fixed TTL.
type RedisRouteCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{client: client, ttl: ttl}
}

func (s *RedisRouteCache) Get(ctx context.Context, start, end domain.Coordinates) (_ domain.RouteLeg, _ bool, err error) {
	defer obs.Time(ctx, "route.redis.Get")(&err)

	key := routeKeyPrefix + routeKey(start, end)
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RouteLeg{}, false, nil
	}
	if err != nil {
		return domain.RouteLeg{}, false, fmt.Errorf("get route cache: %w", err)
	}

	var c cachedLeg
	if err := json.Unmarshal(data, &c); err != nil {
		return domain.RouteLeg{}, false, fmt.Errorf("get route cache: decode %q: %w", key, err)
	}
	path, err := decodePath(c.Path)
	if err != nil {
		return domain.RouteLeg{}, false, fmt.Errorf("get route cache: %w", err)
	}

	return domain.RouteLeg{DistanceMiles: c.DistanceMiles, DurationHours: c.DurationHours, Path: path}, true, nil
}

func (s *RedisRouteCache) Put(ctx context.Context, start, end domain.Coordinates, leg domain.RouteLeg) error {
	path, err := encodePath(leg.Path)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	data, err := json.Marshal(cachedLeg{
		DistanceMiles: leg.DistanceMiles,
		DurationHours: leg.DurationHours,
		Path:          path,
	})
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	key := routeKeyPrefix + routeKey(start, end)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}
	return nil
}
