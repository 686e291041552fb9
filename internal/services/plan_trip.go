package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"truck-trip-service/internal/domain"
	"truck-trip-service/internal/logging"
	"truck-trip-service/internal/platform/obs"
	"truck-trip-service/internal/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type PlanTripRequest struct {
	CurrentAddress string
	PickupAddress  string
	DropoffAddress string
	CycleHoursUsed float64
}

// TripPlanner runs the geocode -> route -> fuel -> feasibility -> logs pipeline.
// Collaborators are injected so tests can substitute in-memory doubles.
type TripPlanner struct {
	Geocoder ports.Geocoder
	Router   ports.RouteProvider
	Repo     ports.TripRepository
	Events   ports.TripEventPublisher

	Now   func() time.Time
	NewID func() string
}

func NewTripPlanner(
	geocoder ports.Geocoder,
	router ports.RouteProvider,
	repo ports.TripRepository,
	events ports.TripEventPublisher,
) *TripPlanner {
	return &TripPlanner{
		Geocoder: geocoder,
		Router:   router,
		Repo:     repo,
		Events:   events,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// Validate checks addresses are present and cycle usage is within the cycle limit.
func (r PlanTripRequest) Validate() error {
	var errs []error
	for _, f := range []struct{ name, value string }{
		{"current_location", r.CurrentAddress},
		{"pickup_location", r.PickupAddress},
		{"dropoff_location", r.DropoffAddress},
	} {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("%s address is required", f.name))
		}
	}

	c := r.CycleHoursUsed
	if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 || c > domain.CycleLimitHours {
		errs = append(errs, fmt.Errorf("current_cycle_used must be between 0 and %.0f", domain.CycleLimitHours))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// PlanTrip builds and persists a complete trip plan.
//
// Geocoding failures abort before any trip record exists. Any later failure
// deletes the trip record so no partial trip persists.
func (p *TripPlanner) PlanTrip(ctx context.Context, req PlanTripRequest) (_ *domain.TripPlan, err error) {
	defer obs.Time(ctx, "services.PlanTrip")(&err)

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	points, err := p.geocodeAll(ctx, req.CurrentAddress, req.PickupAddress, req.DropoffAddress)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	trip := &domain.TripPlan{
		ID:              p.NewID(),
		CurrentLocation: points[0],
		PickupLocation:  points[1],
		DropoffLocation: points[2],
		CycleHoursUsed:  req.CycleHoursUsed,
		CreatedAt:       p.Now(),
	}

	if err := p.Repo.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("plan trip: create trip: %w", err)
	}

	if err := p.complete(ctx, trip); err != nil {
		p.discard(ctx, trip.ID)

		var limitErr *LimitExceededError
		if errors.As(err, &limitErr) {
			p.publishRejected(ctx, trip.ID, limitErr.Error())
		}
		return nil, fmt.Errorf("plan trip %s: %w", trip.ID, err)
	}

	if p.Events != nil {
		if err := p.Events.TripPlanned(ctx, trip); err != nil {
			logging.LogError(logging.FromContext(ctx), "publish trip planned failed", err, slog.String("trip_id", trip.ID))
		}
	}

	return trip, nil
}

func (p *TripPlanner) complete(ctx context.Context, trip *domain.TripPlan) error {
	legs, err := p.routeAll(ctx, trip.CurrentLocation, trip.PickupLocation, trip.DropoffLocation)
	if err != nil {
		return err
	}

	summary, err := AggregateRoute(legs[0], legs[1])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRoutingFailure, err)
	}

	dropoff := summary.DropoffLeg
	fuelStops := PlanFuelStops(dropoff.DistanceMiles, dropoff.Path, summary.TotalDistanceMiles)

	days, err := CheckFeasibility(summary.TotalOnDutyHours, len(fuelStops), trip.CycleHoursUsed, summary.TotalDrivingHours)
	if err != nil {
		return err
	}

	logs, err := GenerateDutyLogs(DutyLogInput{
		StartAt:           trip.CreatedAt,
		TotalDrivingHours: summary.TotalDrivingHours,
		EstimatedDays:     days,
		FuelStopCount:     len(fuelStops),
	})
	if err != nil {
		return err
	}

	trip.TotalDistanceMiles = summary.TotalDistanceMiles
	trip.TotalDrivingHours = summary.TotalDrivingHours
	trip.EstimatedDays = days
	trip.Route = summary.Path
	trip.FuelStops = fuelStops
	trip.RestStops = []domain.RestStop{{
		Note:            domain.RestStopNote,
		AfterDriveHours: domain.MaxDailyDrivingHours,
		Location:        dropoff.Path[len(dropoff.Path)-1],
	}}
	trip.Logs = logs

	if err := p.Repo.CompleteTrip(ctx, trip); err != nil {
		return fmt.Errorf("complete trip: %w", err)
	}

	return nil
}

// geocodeAll resolves addresses concurrently; results keep the argument order.
func (p *TripPlanner) geocodeAll(ctx context.Context, addresses ...string) ([]domain.Coordinates, error) {
	out := make([]domain.Coordinates, len(addresses))

	g, gctx := errgroup.WithContext(ctx)
	for i, addr := range addresses {
		i, addr := i, addr
		g.Go(func() error {
			c, err := p.Geocoder.Geocode(gctx, addr)
			if err != nil {
				return fmt.Errorf("geocode %q: %w: %w", addr, ErrInvalidAddress, err)
			}
			out[i] = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// routeAll fetches consecutive legs between points concurrently, in order.
func (p *TripPlanner) routeAll(ctx context.Context, points ...domain.Coordinates) ([]domain.RouteLeg, error) {
	legs := make([]domain.RouteLeg, len(points)-1)

	g, gctx := errgroup.WithContext(ctx)
	for i := range legs {
		i := i
		g.Go(func() error {
			leg, err := p.Router.Route(gctx, points[i], points[i+1])
			if err != nil {
				return fmt.Errorf("route leg %d: %w: %w", i+1, ErrRoutingFailure, err)
			}
			legs[i] = leg
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return legs, nil
}

// discard removes a partially planned trip. It runs even if ctx was cancelled.
func (p *TripPlanner) discard(ctx context.Context, id string) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := p.Repo.DeleteTrip(cctx, id); err != nil {
		logging.LogError(logging.FromContext(ctx), "discard trip failed", err, slog.String("trip_id", id))
	}
}

func (p *TripPlanner) publishRejected(ctx context.Context, id, reason string) {
	if p.Events == nil {
		return
	}
	if err := p.Events.TripRejected(ctx, id, reason); err != nil {
		logging.LogError(logging.FromContext(ctx), "publish trip rejected failed", err, slog.String("trip_id", id))
	}
}
