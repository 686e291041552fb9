package ports

import (
	"context"
	"errors"
	"truck-trip-service/internal/domain"
)

// ErrTripNotFound is returned when a requested trip does not exist.
var ErrTripNotFound = errors.New("trip not found")

// Port: a boundary for persisting trips and their duty logs.
type TripRepository interface {
	// Persist the trip header (locations, cycle usage, creation time).
	CreateTrip(ctx context.Context, trip *domain.TripPlan) error
	// Store route totals and replace the trip's duty logs atomically.
	CompleteTrip(ctx context.Context, trip *domain.TripPlan) error
	// Remove a trip and every log sheet it owns.
	DeleteTrip(ctx context.Context, id string) error
	// Retrieve a trip with its logs ordered by day number.
	GetTrip(ctx context.Context, id string) (*domain.TripPlan, error)
	// Retrieve trip headers, newest first.
	ListTrips(ctx context.Context, limit int) ([]*domain.TripPlan, error)
}
