package services

import (
	"testing"
	"truck-trip-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateRoute(t *testing.T) {
	a := domain.Coordinates{Lon: 0, Lat: 0}
	b := domain.Coordinates{Lon: 1, Lat: 1}
	c := domain.Coordinates{Lon: 2, Lat: 2}
	d := domain.Coordinates{Lon: 3, Lat: 3}

	leg1 := domain.RouteLeg{DistanceMiles: 100, DurationHours: 2, Path: []domain.Coordinates{a, b}}
	leg2 := domain.RouteLeg{DistanceMiles: 250, DurationHours: 4.5, Path: []domain.Coordinates{b, c, d}}

	s, err := AggregateRoute(leg1, leg2)
	require.NoError(t, err)

	assert.Equal(t, 350.0, s.TotalDistanceMiles)
	assert.Equal(t, 6.5, s.TotalDrivingHours)
	assert.Equal(t, 8.5, s.TotalOnDutyHours)
	assert.Equal(t, []domain.Coordinates{a, b, c, d}, s.Path)
	assert.Equal(t, leg2, s.DropoffLeg)
}

func TestAggregateRouteDropsFirstPointEvenWhenDifferent(t *testing.T) {
	a := domain.Coordinates{Lon: 0, Lat: 0}
	b := domain.Coordinates{Lon: 1, Lat: 1}
	x := domain.Coordinates{Lon: 9, Lat: 9}

	s, err := AggregateRoute(
		domain.RouteLeg{Path: []domain.Coordinates{a, b}},
		domain.RouteLeg{Path: []domain.Coordinates{x}},
	)
	require.NoError(t, err)
	assert.Equal(t, []domain.Coordinates{a, b}, s.Path)
}

func TestAggregateRouteRejectsEmptyPath(t *testing.T) {
	p := []domain.Coordinates{{Lon: 1, Lat: 1}}

	_, err := AggregateRoute(domain.RouteLeg{}, domain.RouteLeg{Path: p})
	assert.Error(t, err)

	_, err = AggregateRoute(domain.RouteLeg{Path: p}, domain.RouteLeg{})
	assert.Error(t, err)
}
