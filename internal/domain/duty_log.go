package domain

import "time"

// Duty status recorded for a single one-hour slot of a log sheet.
type DutyStatus string

const (
	StatusDriving          DutyStatus = "Driving"
	StatusOnDutyNotDriving DutyStatus = "On-Duty Not Driving"
	StatusOffDuty          DutyStatus = "Off-Duty"
	StatusSleeperBerth     DutyStatus = "Sleeper Berth (10hr Off-Duty)"
)

// One hour of a log sheet, labelled "HH:MM-HH:MM".
type LogSlot struct {
	Label  string
	Status DutyStatus
}

// Represents one simulated day of a trip.
//
// Slots holds exactly 24 contiguous one-hour entries in chronological order.
// TotalOnDutyHours counts on-duty time that is not driving, so the three
// totals always sum to 24.
type DutyLog struct {
	DayNumber         int
	Date              time.Time
	Slots             []LogSlot
	TotalDrivingHours float64
	TotalOnDutyHours  float64
	TotalOffDutyHours float64
}

// SlotMap returns the slots keyed by their time-range label.
func (l DutyLog) SlotMap() map[string]DutyStatus {
	m := make(map[string]DutyStatus, len(l.Slots))
	for _, s := range l.Slots {
		m[s.Label] = s.Status
	}
	return m
}

// Count the slots holding the given status.
func (l DutyLog) CountStatus(status DutyStatus) int {
	n := 0
	for _, s := range l.Slots {
		if s.Status == status {
			n++
		}
	}
	return n
}
