package geo

import (
	"context"
	"log/slog"
	"truck-trip-service/internal/domain"
	"truck-trip-service/internal/logging"
	"truck-trip-service/internal/ports"
)

// CachedGeocoder checks a persistent cache before calling the wrapped geocoder.
// Cache failures are logged and never fail a lookup.
type CachedGeocoder struct {
	next  ports.Geocoder
	cache ports.GeocodeCache
}

func NewCachedGeocoder(next ports.Geocoder, cache ports.GeocodeCache) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	key := normalize(address)
	logger := logging.FromContext(ctx)

	if c, ok, err := g.cache.Get(ctx, key); err != nil {
		logging.LogError(logger, "geocode cache read failed", err, slog.String("address", key))
	} else if ok {
		return c, nil
	}

	c, err := g.next.Geocode(ctx, address)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if err := g.cache.Put(ctx, key, c); err != nil {
		logging.LogError(logger, "geocode cache write failed", err, slog.String("address", key))
	}
	return c, nil
}

// CachedRouter checks a persistent cache before calling the wrapped router.
type CachedRouter struct {
	next  ports.RouteProvider
	cache ports.RouteCache
}

func NewCachedRouter(next ports.RouteProvider, cache ports.RouteCache) *CachedRouter {
	return &CachedRouter{next: next, cache: cache}
}

func (r *CachedRouter) Route(ctx context.Context, start, end domain.Coordinates) (domain.RouteLeg, error) {
	logger := logging.FromContext(ctx)

	if leg, ok, err := r.cache.Get(ctx, start, end); err != nil {
		logging.LogError(logger, "route cache read failed", err)
	} else if ok {
		return leg, nil
	}

	leg, err := r.next.Route(ctx, start, end)
	if err != nil {
		return domain.RouteLeg{}, err
	}

	if err := r.cache.Put(ctx, start, end, leg); err != nil {
		logging.LogError(logger, "route cache write failed", err)
	}
	return leg, nil
}
