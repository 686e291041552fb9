package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"truck-trip-service/internal/domain"
	"truck-trip-service/internal/platform/obs"
)

type directionsResponse struct {
	Features []struct {
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSRouter implements ports.RouteProvider using the OpenRouteService directions
// endpoint with the heavy-goods-vehicle profile.
type ORSRouter struct {
	client  *httpClient
	baseURL string
	profile string
}

func NewORSRouter(apiKey, baseURL string, opts ...ClientOption) (*ORSRouter, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSRouter{
		client:  newHTTPClient(map[string]string{"Authorization": apiKey}, opts...),
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving-hgv",
	}, nil
}

func (o *ORSRouter) Route(ctx context.Context, start, end domain.Coordinates) (_ domain.RouteLeg, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	var decoded directionsResponse
	err = o.client.getJSON(ctx, func() (*http.Request, error) {
		req, err := o.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("start", fmt.Sprintf("%f,%f", start.Lon, start.Lat))
		q.Set("end", fmt.Sprintf("%f,%f", end.Lon, end.Lat))
		req.URL.RawQuery = q.Encode()
		return req, nil
	}, &decoded)
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("ors route: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.RouteLeg{}, fmt.Errorf("ors route: %w", ErrNoResult)
	}

	f := decoded.Features[0]
	path, err := lonLatPath(f.Geometry.Coordinates)
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("ors route: %w", err)
	}

	return domain.NewRouteLeg(f.Properties.Summary.Distance, f.Properties.Summary.Duration, path), nil
}
