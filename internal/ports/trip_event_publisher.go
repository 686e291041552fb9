package ports

import (
	"context"
	"truck-trip-service/internal/domain"
)

// Port: a boundary for announcing planning outcomes to other systems.
type TripEventPublisher interface {
	TripPlanned(ctx context.Context, trip *domain.TripPlan) error
	TripRejected(ctx context.Context, tripID string, reason string) error
}
