package events

import (
	"time"
	"truck-trip-service/internal/domain"
)

// Routing keys on the trips exchange.
const (
	RoutingKeyPlanned  = "trip.planned"
	RoutingKeyRejected = "trip.rejected"
)

type TripPlannedEvent struct {
	TripID             string    `json:"trip_id"`
	EstimatedDays      int       `json:"estimated_days"`
	TotalDistanceMiles float64   `json:"total_distance"`
	TotalDrivingHours  float64   `json:"total_driving_time"`
	FuelStops          int       `json:"fuel_stops"`
	OccurredAt         time.Time `json:"occurred_at"`
}

type TripRejectedEvent struct {
	TripID     string    `json:"trip_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewTripPlannedEvent(trip *domain.TripPlan, at time.Time) TripPlannedEvent {
	return TripPlannedEvent{
		TripID:             trip.ID,
		EstimatedDays:      trip.EstimatedDays,
		TotalDistanceMiles: trip.TotalDistanceMiles,
		TotalDrivingHours:  trip.TotalDrivingHours,
		FuelStops:          len(trip.FuelStops),
		OccurredAt:         at.UTC(),
	}
}

func NewTripRejectedEvent(tripID, reason string, at time.Time) TripRejectedEvent {
	return TripRejectedEvent{TripID: tripID, Reason: reason, OccurredAt: at.UTC()}
}
