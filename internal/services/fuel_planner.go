package services

import (
	"math"
	"truck-trip-service/internal/domain"
)

// PlanFuelStops places one fuel stop per full fuel interval of total distance.
//
// Stops are interpolated along the pickup->dropoff leg only. The position of
// each stop is derived from its mile mark relative to the dropoff leg's own
// distance, and the same fraction doubles as the blend weight between the two
// neighbouring path points. Stops past the end of the leg clamp to its last point.
func PlanFuelStops(dropoffDistance float64, dropoffPath []domain.Coordinates, totalDistance float64) []domain.FuelStop {
	if totalDistance <= domain.FuelIntervalMiles || len(dropoffPath) == 0 {
		return []domain.FuelStop{}
	}

	count := int(math.Floor(totalDistance / domain.FuelIntervalMiles))
	stops := make([]domain.FuelStop, 0, count)

	for i := 1; i <= count; i++ {
		mile := float64(i) * domain.FuelIntervalMiles

		fraction := 1.0
		if dropoffDistance > 0 {
			fraction = math.Min(1.0, mile/dropoffDistance)
		}

		idx := int(fraction * float64(len(dropoffPath)))

		var loc domain.Coordinates
		if idx < len(dropoffPath)-1 {
			loc = dropoffPath[idx].Lerp(dropoffPath[idx+1], fraction)
		} else {
			loc = dropoffPath[len(dropoffPath)-1]
		}

		stops = append(stops, domain.FuelStop{
			MileMark: mile,
			Location: loc,
			Note:     domain.FuelStopNote,
		})
	}

	return stops
}
