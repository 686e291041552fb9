package repositories

import (
	"context"
	"testing"
	"time"
	"truck-trip-service/internal/domain"
	"truck-trip-service/internal/platform/db"
	"truck-trip-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.TripRepository = (*SQLTripRepository)(nil)

func newTestRepo(t *testing.T) *SQLTripRepository {
	t.Helper()

	conn, dialect, err := db.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, InitSchema(context.Background(), conn, dialect))
	return NewSQLTripRepository(conn, dialect)
}

func sampleTrip(id string, createdAt time.Time) *domain.TripPlan {
	return &domain.TripPlan{
		ID:              id,
		CurrentLocation: domain.Coordinates{Lon: -87.6, Lat: 41.9},
		PickupLocation:  domain.Coordinates{Lon: -86.2, Lat: 39.8},
		DropoffLocation: domain.Coordinates{Lon: -84.4, Lat: 33.7},
		CycleHoursUsed:  12.5,
		CreatedAt:       createdAt,
	}
}

func completeSample(trip *domain.TripPlan) {
	trip.TotalDistanceMiles = 720
	trip.TotalDrivingHours = 12
	trip.EstimatedDays = 2
	trip.Route = []domain.Coordinates{trip.CurrentLocation, trip.PickupLocation, trip.DropoffLocation}
	trip.FuelStops = []domain.FuelStop{}
	trip.RestStops = []domain.RestStop{{
		Note:            domain.RestStopNote,
		AfterDriveHours: domain.MaxDailyDrivingHours,
		Location:        trip.DropoffLocation,
	}}

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 2; i++ {
		slots := make([]domain.LogSlot, 0, domain.HoursPerDay)
		for h := 0; h < domain.HoursPerDay; h++ {
			slots = append(slots, domain.LogSlot{Label: "slot", Status: domain.StatusOffDuty})
		}
		slots[6].Status = domain.StatusDriving

		trip.Logs = append(trip.Logs, domain.DutyLog{
			DayNumber:         i,
			Date:              day.AddDate(0, 0, i-1),
			Slots:             slots,
			TotalDrivingHours: 1,
			TotalOnDutyHours:  1,
			TotalOffDutyHours: 22,
		})
	}
}

func TestTripRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	trip := sampleTrip("trip-1", created)
	require.NoError(t, repo.CreateTrip(ctx, trip))

	completeSample(trip)
	require.NoError(t, repo.CompleteTrip(ctx, trip))

	got, err := repo.GetTrip(ctx, "trip-1")
	require.NoError(t, err)

	assert.Equal(t, trip.ID, got.ID)
	assert.Equal(t, trip.CurrentLocation, got.CurrentLocation)
	assert.Equal(t, trip.DropoffLocation, got.DropoffLocation)
	assert.Equal(t, 12.5, got.CycleHoursUsed)
	assert.Equal(t, 720.0, got.TotalDistanceMiles)
	assert.Equal(t, 2, got.EstimatedDays)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Equal(t, trip.Route, got.Route)
	assert.Equal(t, trip.RestStops, got.RestStops)
	assert.Empty(t, got.FuelStops)

	require.Len(t, got.Logs, 2)
	assert.Equal(t, 1, got.Logs[0].DayNumber)
	assert.Equal(t, 2, got.Logs[1].DayNumber)
	assert.Equal(t, trip.Logs[1].Date, got.Logs[1].Date)
	assert.Equal(t, trip.Logs[0].Slots, got.Logs[0].Slots)
}

func TestCompleteTripReplacesLogs(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	trip := sampleTrip("trip-1", time.Now())
	require.NoError(t, repo.CreateTrip(ctx, trip))
	completeSample(trip)
	require.NoError(t, repo.CompleteTrip(ctx, trip))

	trip.Logs = trip.Logs[:1]
	require.NoError(t, repo.CompleteTrip(ctx, trip))

	got, err := repo.GetTrip(ctx, "trip-1")
	require.NoError(t, err)
	assert.Len(t, got.Logs, 1)
}

func TestCompleteUnknownTrip(t *testing.T) {
	repo := newTestRepo(t)

	trip := sampleTrip("ghost", time.Now())
	completeSample(trip)

	err := repo.CompleteTrip(context.Background(), trip)
	assert.ErrorIs(t, err, ports.ErrTripNotFound)
}

func TestDeleteTripRemovesLogs(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	trip := sampleTrip("trip-1", time.Now())
	require.NoError(t, repo.CreateTrip(ctx, trip))
	completeSample(trip)
	require.NoError(t, repo.CompleteTrip(ctx, trip))

	require.NoError(t, repo.DeleteTrip(ctx, "trip-1"))

	_, err := repo.GetTrip(ctx, "trip-1")
	assert.ErrorIs(t, err, ports.ErrTripNotFound)

	var n int
	require.NoError(t, repo.DB.QueryRow(`SELECT COUNT(*) FROM duty_logs;`).Scan(&n))
	assert.Zero(t, n)
}

func TestGetTripNotFound(t *testing.T) {
	_, err := newTestRepo(t).GetTrip(context.Background(), "missing")
	assert.ErrorIs(t, err, ports.ErrTripNotFound)
}

func TestIncompleteTripHasNoExtras(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.CreateTrip(ctx, sampleTrip("pending", time.Now())))

	got, err := repo.GetTrip(ctx, "pending")
	require.NoError(t, err)
	assert.Nil(t, got.Route)
	assert.Empty(t, got.Logs)
	assert.Zero(t, got.EstimatedDays)
}

func TestListTripsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.CreateTrip(ctx, sampleTrip(id, base.Add(time.Duration(i)*time.Hour))))
	}

	trips, err := repo.ListTrips(ctx, 2)
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, "c", trips[0].ID)
	assert.Equal(t, "b", trips[1].ID)
}

func TestCreateTripRequiresID(t *testing.T) {
	err := newTestRepo(t).CreateTrip(context.Background(), sampleTrip("", time.Now()))
	assert.Error(t, err)
}
