package ports

import (
	"context"
	"truck-trip-service/internal/domain"
)

// Cache from normalized address to coordinates.
// Get reports ok=false on a miss; errors are reserved for backend failures.
type GeocodeCache interface {
	Get(ctx context.Context, address string) (domain.Coordinates, bool, error)
	Put(ctx context.Context, address string, c domain.Coordinates) error
}

// Cache from (start, end) coordinates to a computed route leg.
type RouteCache interface {
	Get(ctx context.Context, start, end domain.Coordinates) (domain.RouteLeg, bool, error)
	Put(ctx context.Context, start, end domain.Coordinates, leg domain.RouteLeg) error
}
