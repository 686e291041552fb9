package domain

// Hours-of-Service limits and planning constants.
// These are modeling constants, not user-configurable settings.
const (
	CycleLimitHours      = 70.0
	CycleLimitDays       = 8
	MaxDailyDrivingHours = 11.0
	OnDutyWindowHours    = 14.0
	RequiredRestHours    = 10.0

	FuelIntervalMiles = 1000.0
	FuelStopHours     = 0.5

	// One hour each for pickup and dropoff handling.
	HandlingHoursPerStop = 1.0
	HandlingStops        = 2

	// Driving starts this many hours into each simulated day.
	DriveStartHour = 6
	HoursPerDay    = 24
)
