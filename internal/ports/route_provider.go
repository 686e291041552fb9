package ports

import (
	"context"
	"truck-trip-service/internal/domain"
)

// Contract for resolving a free-text address to coordinates.
type Geocoder interface {
	// Return the best match for address, or an error when it cannot be resolved.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Contract for retrieving the best driving route between two coordinates.
type RouteProvider interface {
	// Return distance, duration, and path of the best route from start to end.
	Route(ctx context.Context, start, end domain.Coordinates) (domain.RouteLeg, error)
}
