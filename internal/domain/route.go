package domain

// Unit conversions used when normalizing router responses.
const (
	MilesPerMeter  = 0.000621371
	SecondsPerHour = 3600.0
)

// Represents the result of one routing call between two points.
// Path is ordered from start to end and is never empty for a valid leg.
type RouteLeg struct {
	DistanceMiles float64
	DurationHours float64
	Path          []Coordinates
}

// Build a RouteLeg from raw router metrics expressed in meters and seconds.
func NewRouteLeg(meters, seconds float64, path []Coordinates) RouteLeg {
	return RouteLeg{
		DistanceMiles: meters * MilesPerMeter,
		DurationHours: seconds / SecondsPerHour,
		Path:          path,
	}
}

// Represents the aggregate of the current->pickup and pickup->dropoff legs.
// DropoffLeg is kept whole because fuel stops are interpolated along it alone.
type RouteSummary struct {
	TotalDistanceMiles float64
	TotalDrivingHours  float64
	TotalOnDutyHours   float64
	Path               []Coordinates
	DropoffLeg         RouteLeg
}
