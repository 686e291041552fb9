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

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSGeocoder implements ports.Geocoder using OpenRouteService (/geocode/search).
type ORSGeocoder struct {
	client  *httpClient
	baseURL string
	country string
}

func NewORSGeocoder(apiKey, baseURL string, opts ...ClientOption) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSGeocoder{
		client:  newHTTPClient(map[string]string{"Authorization": apiKey}, opts...),
		baseURL: strings.TrimRight(baseURL, "/"),
		country: "US",
	}, nil
}

func (o *ORSGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("ors geocode: address must be non-empty")
	}

	endpoint := o.baseURL + "/geocode/search"

	var decoded geocodeResponse
	err = o.client.getJSON(ctx, func() (*http.Request, error) {
		req, err := o.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("boundary.country", o.country)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	}, &decoded)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w", norm, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w", norm, ErrNoResult)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: invalid coordinate format", norm)
	}

	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}
