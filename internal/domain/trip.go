package domain

import "time"

const (
	FuelStopNote = "Fuel Stop (30 min on-duty not driving)"
	RestStopNote = "Mandatory 10hr Rest"
)

// Represents a planned refuelling event along the dropoff leg.
type FuelStop struct {
	MileMark float64
	Location Coordinates
	Note     string
}

// Represents a simplified rest marker placed on the route.
type RestStop struct {
	Note            string
	AfterDriveHours float64
	Location        Coordinates
}

// TripPlan is the in-memory aggregate produced by the planning pipeline.
// It exclusively owns its Logs; log sheets are never shared between plans.
type TripPlan struct {
	ID                 string
	CurrentLocation    Coordinates
	PickupLocation     Coordinates
	DropoffLocation    Coordinates
	CycleHoursUsed     float64
	TotalDistanceMiles float64
	TotalDrivingHours  float64
	EstimatedDays      int
	Route              []Coordinates
	FuelStops          []FuelStop
	RestStops          []RestStop
	Logs               []DutyLog
	CreatedAt          time.Time
}
