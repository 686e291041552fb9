package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateDays(t *testing.T) {
	cases := []struct {
		hours float64
		want  int
	}{
		{0, 1},
		{-3, 1},
		{5, 1},
		{11, 1},
		{11.01, 2},
		{22, 2},
		{88, 8},
		{89, 9},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, EstimateDays(c.hours), "hours=%v", c.hours)
	}
}

func TestCheckFeasibilityAccepts(t *testing.T) {
	days, err := CheckFeasibility(22, 1, 20, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, days)
}

func TestCheckFeasibilityRejectsOverCycle(t *testing.T) {
	// 5h driving + 2h handling = 7h against 2h remaining.
	_, err := CheckFeasibility(7, 0, 68, 5)
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrLimitExceeded))

	var limitErr *LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 7.0, limitErr.EstimatedHours)
	assert.Equal(t, 2.0, limitErr.RemainingCycle)
	assert.Equal(t, 1, limitErr.EstimatedDays)
	assert.Equal(t, "Trip exceeds limits: 7.0hrs > 2.0 remaining, or 1 > 8 days", err.Error())
}

func TestCheckFeasibilityCountsFuelStops(t *testing.T) {
	// 60h on duty fits exactly in 60h remaining; one fuel stop tips it over.
	_, err := CheckFeasibility(60, 0, 10, 40)
	assert.NoError(t, err)

	_, err = CheckFeasibility(60, 1, 10, 40)
	assert.ErrorIs(t, err, ErrLimitExceeded)
}

func TestCheckFeasibilityRejectsTooManyDays(t *testing.T) {
	_, err := CheckFeasibility(10, 0, 0, 89)

	var limitErr *LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 9, limitErr.EstimatedDays)
}
