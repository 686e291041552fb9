package dto

import (
	"bytes"
	"encoding/json"
	"time"
	"truck-trip-service/internal/domain"
)

type LocationRequest struct {
	Address string `json:"address"`
}

type CalculateTripRequest struct {
	CurrentLocation  LocationRequest `json:"current_location"`
	PickupLocation   LocationRequest `json:"pickup_location"`
	DropoffLocation  LocationRequest `json:"dropoff_location"`
	CurrentCycleUsed *float64        `json:"current_cycle_used"`
}

type PointResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LogData encodes slots as a JSON object keyed by slot label, in slot order.
type LogData []domain.LogSlot

func (d LogData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(s.Label)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(string(s.Status))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type LogSheetResponse struct {
	Trip         string  `json:"trip"`
	DayNumber    int     `json:"day_number"`
	Date         string  `json:"date"`
	LogData      LogData `json:"log_data"`
	TotalOnDuty  float64 `json:"total_on_duty"`
	TotalDriving float64 `json:"total_driving"`
	TotalOffDuty float64 `json:"total_off_duty"`
}

type TripResponse struct {
	ID               string             `json:"id"`
	CurrentLocation  PointResponse      `json:"current_location"`
	PickupLocation   PointResponse      `json:"pickup_location"`
	DropoffLocation  PointResponse      `json:"dropoff_location"`
	CurrentCycleUsed float64            `json:"current_cycle_used"`
	TotalDistance    float64            `json:"total_distance"`
	TotalDrivingTime float64            `json:"total_driving_time"`
	Logs             []LogSheetResponse `json:"logs"`
	CreatedAt        time.Time          `json:"created_at"`
}

type FuelStopResponse struct {
	Mile float64 `json:"mile"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Type string  `json:"type"`
}

type RestStopResponse struct {
	Type            string  `json:"type"`
	AfterDriveHours float64 `json:"after_drive_hours"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
}

type CalculateTripResponse struct {
	Trip          TripResponse       `json:"trip"`
	RouteCoords   [][2]float64       `json:"route_coords"`
	FuelStops     []FuelStopResponse `json:"fuel_stops"`
	RestStops     []RestStopResponse `json:"rest_stops"`
	EstimatedDays int                `json:"estimated_days"`
}

type TripSummaryResponse struct {
	ID               string    `json:"id"`
	TotalDistance    float64   `json:"total_distance"`
	TotalDrivingTime float64   `json:"total_driving_time"`
	EstimatedDays    int       `json:"estimated_days"`
	CreatedAt        time.Time `json:"created_at"`
}

type ListTripsResponse struct {
	Trips []TripSummaryResponse `json:"trips"`
}

func point(c domain.Coordinates) PointResponse {
	return PointResponse{Lat: c.Lat, Lon: c.Lon}
}

func NewTripResponse(t *domain.TripPlan) TripResponse {
	logs := make([]LogSheetResponse, 0, len(t.Logs))
	for _, l := range t.Logs {
		logs = append(logs, LogSheetResponse{
			Trip:         t.ID,
			DayNumber:    l.DayNumber,
			Date:         l.Date.Format("2006-01-02"),
			LogData:      LogData(l.Slots),
			TotalOnDuty:  l.TotalOnDutyHours,
			TotalDriving: l.TotalDrivingHours,
			TotalOffDuty: l.TotalOffDutyHours,
		})
	}

	return TripResponse{
		ID:               t.ID,
		CurrentLocation:  point(t.CurrentLocation),
		PickupLocation:   point(t.PickupLocation),
		DropoffLocation:  point(t.DropoffLocation),
		CurrentCycleUsed: t.CycleHoursUsed,
		TotalDistance:    t.TotalDistanceMiles,
		TotalDrivingTime: t.TotalDrivingHours,
		Logs:             logs,
		CreatedAt:        t.CreatedAt,
	}
}

// NewCalculateTripResponse renders a trip plan; route coordinates are [lat, lon].
func NewCalculateTripResponse(t *domain.TripPlan) CalculateTripResponse {
	route := make([][2]float64, 0, len(t.Route))
	for _, c := range t.Route {
		route = append(route, c.LatLon())
	}

	fuel := make([]FuelStopResponse, 0, len(t.FuelStops))
	for _, f := range t.FuelStops {
		fuel = append(fuel, FuelStopResponse{Mile: f.MileMark, Lat: f.Location.Lat, Lon: f.Location.Lon, Type: f.Note})
	}

	rest := make([]RestStopResponse, 0, len(t.RestStops))
	for _, r := range t.RestStops {
		rest = append(rest, RestStopResponse{
			Type:            r.Note,
			AfterDriveHours: r.AfterDriveHours,
			Lat:             r.Location.Lat,
			Lon:             r.Location.Lon,
		})
	}

	return CalculateTripResponse{
		Trip:          NewTripResponse(t),
		RouteCoords:   route,
		FuelStops:     fuel,
		RestStops:     rest,
		EstimatedDays: t.EstimatedDays,
	}
}

func NewTripSummaryResponse(t *domain.TripPlan) TripSummaryResponse {
	return TripSummaryResponse{
		ID:               t.ID,
		TotalDistance:    t.TotalDistanceMiles,
		TotalDrivingTime: t.TotalDrivingHours,
		EstimatedDays:    t.EstimatedDays,
		CreatedAt:        t.CreatedAt,
	}
}
