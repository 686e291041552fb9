package services

import (
	"fmt"
	"math"
	"time"
	"truck-trip-service/internal/domain"
)

// Remaining drive time below this is treated as exhausted.
const driveEpsilon = 1e-9

// DutyLogInput is the frozen input of one log simulation.
type DutyLogInput struct {
	StartAt           time.Time
	TotalDrivingHours float64
	EstimatedDays     int
	FuelStopCount     int
}

// GenerateDutyLogs simulates consecutive days from StartAt and returns one log per day.
//
// Each day drives up to the daily cap, starting DriveStartHour hours into the
// day, and carries one hour of handling plus the fuel stops attributed to it
// as on-duty time. The simulation ends once drive time is exhausted and at
// least EstimatedDays logs exist; it never runs more than EstimatedDays+1 days.
// Identical inputs always produce identical logs.
func GenerateDutyLogs(in DutyLogInput) ([]domain.DutyLog, error) {
	if math.IsNaN(in.TotalDrivingHours) || math.IsInf(in.TotalDrivingHours, 0) {
		return nil, fmt.Errorf("generate duty logs: total driving hours must be finite: %w", ErrInvalidInput)
	}
	if in.EstimatedDays < 1 {
		return nil, fmt.Errorf("generate duty logs: estimated days must be at least 1, got %d: %w", in.EstimatedDays, ErrInvalidInput)
	}
	if in.FuelStopCount < 0 {
		return nil, fmt.Errorf("generate duty logs: fuel stop count must not be negative: %w", ErrInvalidInput)
	}

	maxDays := in.EstimatedDays + 1
	remaining := in.TotalDrivingHours
	dayStart := in.StartAt

	logs := make([]domain.DutyLog, 0, in.EstimatedDays)

	for day := 1; remaining > driveEpsilon || day <= in.EstimatedDays; day++ {
		if day > maxDays {
			return nil, fmt.Errorf(
				"generate duty logs: %.2f driving hours left after %d days: %w",
				remaining, maxDays, ErrSimulationStalled,
			)
		}

		dailyDrive := 0.0
		if remaining > driveEpsilon {
			dailyDrive = math.Min(domain.MaxDailyDrivingHours, remaining)
		}
		if dailyDrive <= 0 && remaining > driveEpsilon {
			return nil, fmt.Errorf("generate duty logs: day %d schedules no driving: %w", day, ErrSimulationStalled)
		}

		fuel := fuelStopsForDay(day, in.EstimatedDays, in.FuelStopCount)
		onDuty := dailyDrive + domain.HandlingHoursPerStop + domain.FuelStopHours*float64(fuel)
		if onDuty > domain.HoursPerDay {
			return nil, fmt.Errorf(
				"generate duty logs: day %d needs %.1f on-duty hours: %w",
				day, onDuty, ErrLimitExceeded,
			)
		}

		logs = append(logs, buildDutyLog(day, dayStart, dailyDrive, onDuty))

		remaining -= dailyDrive
		dayStart = dayStart.Add(domain.HoursPerDay * time.Hour)
	}

	return logs, nil
}

// fuelStopsForDay spreads stops evenly over the estimated days.
// The remainder goes to the earliest days; days past the estimate get none.
func fuelStopsForDay(day, days, stops int) int {
	if days < 1 || day > days {
		return 0
	}

	n := stops / days
	if day <= stops%days {
		n++
	}
	return n
}

func buildDutyLog(day int, dayStart time.Time, dailyDrive, onDuty float64) domain.DutyLog {
	slots := make([]domain.LogSlot, 0, domain.HoursPerDay)
	budget := onDuty - dailyDrive

	for h := 0; h < domain.HoursPerDay; h++ {
		start := dayStart.Add(time.Duration(h) * time.Hour)
		end := start.Add(time.Hour)

		var status domain.DutyStatus
		offset := float64(h)
		switch {
		case offset >= domain.DriveStartHour && offset < domain.DriveStartHour+dailyDrive:
			status = domain.StatusDriving
		case budget > 0:
			status = domain.StatusOnDutyNotDriving
			budget--
		default:
			status = domain.StatusOffDuty
		}

		slots = append(slots, domain.LogSlot{
			Label:  start.Format("15:04") + "-" + end.Format("15:04"),
			Status: status,
		})
	}

	// Simplified rest enforcement: only the last two hours are relabelled.
	if onDuty > domain.OnDutyWindowHours {
		for h := 22; h < domain.HoursPerDay; h++ {
			slots[h].Status = domain.StatusSleeperBerth
		}
	}

	y, m, d := dayStart.Date()

	return domain.DutyLog{
		DayNumber:         day,
		Date:              time.Date(y, m, d, 0, 0, 0, 0, dayStart.Location()),
		Slots:             slots,
		TotalDrivingHours: dailyDrive,
		TotalOnDutyHours:  onDuty - dailyDrive,
		TotalOffDutyHours: domain.HoursPerDay - onDuty,
	}
}
