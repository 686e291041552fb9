package services

import (
	"errors"
	"truck-trip-service/internal/domain"
)

// AggregateRoute combines the current->pickup and pickup->dropoff legs into trip totals.
//
// The pickup point closes leg1 and opens leg2, so leg2's first point is dropped
// from the concatenated path. Estimated on-duty time adds a fixed handling
// allowance for pickup and dropoff.
func AggregateRoute(leg1, leg2 domain.RouteLeg) (domain.RouteSummary, error) {
	if len(leg1.Path) == 0 {
		return domain.RouteSummary{}, errors.New("aggregate route: current->pickup leg has an empty path")
	}
	if len(leg2.Path) == 0 {
		return domain.RouteSummary{}, errors.New("aggregate route: pickup->dropoff leg has an empty path")
	}

	path := make([]domain.Coordinates, 0, len(leg1.Path)+len(leg2.Path)-1)
	path = append(path, leg1.Path...)
	path = append(path, leg2.Path[1:]...)

	driving := leg1.DurationHours + leg2.DurationHours

	return domain.RouteSummary{
		TotalDistanceMiles: leg1.DistanceMiles + leg2.DistanceMiles,
		TotalDrivingHours:  driving,
		TotalOnDutyHours:   driving + domain.HandlingHoursPerStop*domain.HandlingStops,
		Path:               path,
		DropoffLeg:         leg2,
	}, nil
}
