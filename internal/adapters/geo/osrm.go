package geo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"truck-trip-service/internal/domain"
	"truck-trip-service/internal/platform/obs"
)

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// OSRMRouter implements ports.RouteProvider using the OSRM route service.
// Only the best route is requested; alternatives are disabled.
type OSRMRouter struct {
	client  *httpClient
	baseURL string
	profile string
}

func NewOSRMRouter(baseURL string, opts ...ClientOption) *OSRMRouter {
	return &OSRMRouter{
		client:  newHTTPClient(nil, opts...),
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
	}
}

func (o *OSRMRouter) Route(ctx context.Context, start, end domain.Coordinates) (_ domain.RouteLeg, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%f,%f;%f,%f",
		o.baseURL, o.profile, start.Lon, start.Lat, end.Lon, end.Lat,
	)

	var decoded osrmResponse
	err = o.client.getJSON(ctx, func() (*http.Request, error) {
		req, err := o.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("overview", "full")
		q.Set("alternatives", "false")
		q.Set("geometries", "geojson")
		req.URL.RawQuery = q.Encode()
		return req, nil
	}, &decoded)
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("osrm route: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return domain.RouteLeg{}, fmt.Errorf("osrm route: code=%s %s: %w", decoded.Code, decoded.Message, ErrNoResult)
	}

	route := decoded.Routes[0]
	path, err := lonLatPath(route.Geometry.Coordinates)
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("osrm route: %w", err)
	}

	return domain.NewRouteLeg(route.Distance, route.Duration, path), nil
}

// lonLatPath converts GeoJSON [lon, lat] positions to coordinates.
func lonLatPath(positions [][]float64) ([]domain.Coordinates, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("route geometry is empty: %w", ErrNoResult)
	}

	path := make([]domain.Coordinates, 0, len(positions))
	for i, p := range positions {
		if len(p) < 2 {
			return nil, fmt.Errorf("invalid coordinate format at position %d", i)
		}
		path = append(path, domain.Coordinates{Lon: p[0], Lat: p[1]})
	}
	return path, nil
}
