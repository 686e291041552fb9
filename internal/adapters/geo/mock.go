package geo

import (
	"context"
	"fmt"
	"sync"
	"truck-trip-service/internal/domain"
)

// MockGeocoder resolves addresses from a fixed table.
type MockGeocoder struct {
	mu    sync.Mutex
	m     map[string]domain.Coordinates
	Calls int
}

func NewMockGeocoder(points map[string]domain.Coordinates) *MockGeocoder {
	m := make(map[string]domain.Coordinates, len(points))
	for k, v := range points {
		m[normalize(k)] = v
	}
	return &MockGeocoder{m: m}
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls++

	c, ok := g.m[normalize(address)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("missing address %q: %w", address, ErrNoResult)
	}
	return c, nil
}

type MockLeg struct {
	From, To domain.Coordinates
	Leg      domain.RouteLeg
}

// MockRouter answers routes from a fixed table keyed by endpoints.
type MockRouter struct {
	mu    sync.Mutex
	m     map[[2]domain.Coordinates]domain.RouteLeg
	Calls int
}

func NewMockRouter(legs []MockLeg) *MockRouter {
	m := make(map[[2]domain.Coordinates]domain.RouteLeg, len(legs))
	for _, l := range legs {
		m[[2]domain.Coordinates{l.From, l.To}] = l.Leg
	}
	return &MockRouter{m: m}
}

func (r *MockRouter) Route(ctx context.Context, start, end domain.Coordinates) (domain.RouteLeg, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++

	leg, ok := r.m[[2]domain.Coordinates{start, end}]
	if !ok {
		return domain.RouteLeg{}, fmt.Errorf("missing leg %v -> %v: %w", start, end, ErrNoResult)
	}
	return leg, nil
}
