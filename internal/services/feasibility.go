package services

import (
	"math"
	"truck-trip-service/internal/domain"
)

const maxCycleDays = domain.CycleLimitDays

// EstimateDays returns the number of driving days needed at the daily driving cap.
func EstimateDays(totalDrivingHours float64) int {
	days := int(math.Ceil(totalDrivingHours / domain.MaxDailyDrivingHours))
	if days < 1 {
		return 1
	}
	return days
}

// CheckFeasibility decides whether a trip fits the 70-hour/8-day cycle.
//
// It returns the estimated number of days on success, or a *LimitExceededError
// when the estimated on-duty hours exceed the remaining cycle or the trip needs
// more than eight days.
func CheckFeasibility(totalOnDutyHours float64, fuelStopCount int, cycleHoursUsed float64, totalDrivingHours float64) (int, error) {
	remaining := domain.CycleLimitHours - cycleHoursUsed
	days := EstimateDays(totalDrivingHours)
	estimated := totalOnDutyHours + float64(fuelStopCount)*domain.FuelStopHours

	if estimated > remaining || days > maxCycleDays {
		return 0, &LimitExceededError{
			EstimatedHours: estimated,
			RemainingCycle: remaining,
			EstimatedDays:  days,
		}
	}

	return days, nil
}
