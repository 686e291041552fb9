package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"truck-trip-service/internal/domain"
	"truck-trip-service/internal/platform/obs"
)

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NominatimGeocoder implements ports.Geocoder using the OpenStreetMap Nominatim search API.
// Nominatim's usage policy requires an identifying User-Agent.
type NominatimGeocoder struct {
	client  *httpClient
	baseURL string
}

func NewNominatimGeocoder(baseURL, userAgent string, opts ...ClientOption) (*NominatimGeocoder, error) {
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("nominatim geocoder: user agent is empty")
	}

	return &NominatimGeocoder{
		client:  newHTTPClient(map[string]string{"User-Agent": userAgent}, opts...),
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (n *NominatimGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("nominatim geocode: address must be non-empty")
	}

	endpoint := n.baseURL + "/search"

	var places []nominatimPlace
	err = n.client.getJSON(ctx, func() (*http.Request, error) {
		req, err := n.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("q", norm)
		q.Set("format", "json")
		q.Set("limit", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	}, &places)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: %w", norm, err)
	}

	if len(places) == 0 {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: %w", norm, ErrNoResult)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: parse lat: %w", norm, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: parse lon: %w", norm, err)
	}

	return domain.Coordinates{Lon: lon, Lat: lat}, nil
}
