package events

import (
	"context"
	"truck-trip-service/internal/domain"
)

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) TripPlanned(context.Context, *domain.TripPlan) error { return nil }

func (NoopPublisher) TripRejected(context.Context, string, string) error { return nil }
