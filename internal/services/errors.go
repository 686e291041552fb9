package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a planning request fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidAddress is returned when an address cannot be geocoded.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrRoutingFailure is returned when no route exists or the router is unreachable.
	ErrRoutingFailure = errors.New("routing failed")

	// ErrLimitExceeded is returned when a trip does not fit the duty cycle.
	ErrLimitExceeded = errors.New("trip exceeds limits")

	// ErrSimulationStalled is returned when log generation stops making progress.
	ErrSimulationStalled = errors.New("duty log simulation stalled")
)

// LimitExceededError carries the figures behind a feasibility rejection.
type LimitExceededError struct {
	EstimatedHours float64
	RemainingCycle float64
	EstimatedDays  int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf(
		"Trip exceeds limits: %.1fhrs > %.1f remaining, or %d > %d days",
		e.EstimatedHours, e.RemainingCycle, e.EstimatedDays, maxCycleDays,
	)
}

func (e *LimitExceededError) Unwrap() error { return ErrLimitExceeded }
