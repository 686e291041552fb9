package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"truck-trip-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimGeocode(t *testing.T) {
	var gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `[{"lat":"40.7128","lon":"-74.0060","display_name":"New York"}]`)
	}))
	defer srv.Close()

	g, err := NewNominatimGeocoder(srv.URL, "truck_trip_app")
	require.NoError(t, err)

	c, err := g.Geocode(context.Background(), "  New   York, NY ")
	require.NoError(t, err)

	assert.Equal(t, "truck_trip_app", gotUA)
	assert.Equal(t, "New York, NY", gotQuery)
	assert.InDelta(t, 40.7128, c.Lat, 1e-9)
	assert.InDelta(t, -74.0060, c.Lon, 1e-9)
}

func TestNominatimGeocodeNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	g, err := NewNominatimGeocoder(srv.URL, "truck_trip_app")
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestNominatimRequiresUserAgent(t *testing.T) {
	_, err := NewNominatimGeocoder("http://example", " ")
	assert.Error(t, err)
}

func TestOSRMRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/route/v1/driving/-74.006000,40.712800;-87.629800,41.878100", r.URL.Path)
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "false", r.URL.Query().Get("alternatives"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
		fmt.Fprint(w, `{"code":"Ok","routes":[{"distance":1609340,"duration":36000,
			"geometry":{"coordinates":[[-74.006,40.7128],[-80.0,41.0],[-87.6298,41.8781]]}}]}`)
	}))
	defer srv.Close()

	r := NewOSRMRouter(srv.URL)
	leg, err := r.Route(context.Background(),
		domain.Coordinates{Lon: -74.006, Lat: 40.7128},
		domain.Coordinates{Lon: -87.6298, Lat: 41.8781},
	)
	require.NoError(t, err)

	assert.InDelta(t, 1000.0, leg.DistanceMiles, 0.01)
	assert.InDelta(t, 10.0, leg.DurationHours, 1e-9)
	require.Len(t, leg.Path, 3)
	assert.Equal(t, domain.Coordinates{Lon: -80.0, Lat: 41.0}, leg.Path[1])
}

func TestOSRMRouteNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"NoRoute","message":"Impossible route between points","routes":[]}`)
	}))
	defer srv.Close()

	_, err := NewOSRMRouter(srv.URL).Route(context.Background(), domain.Coordinates{}, domain.Coordinates{Lon: 1})
	assert.ErrorIs(t, err, ErrNoResult)
	assert.Contains(t, err.Error(), "NoRoute")
}

func TestOSRMRouteServiceError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewOSRMRouter(srv.URL).Route(context.Background(), domain.Coordinates{}, domain.Coordinates{Lon: 1})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.Equal(t, "upstream down", se.Body)
	assert.Equal(t, int32(1), calls.Load(), "no retries by default")
}

func TestRetryTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `[{"lat":"1.5","lon":"2.5"}]`)
	}))
	defer srv.Close()

	g, err := NewNominatimGeocoder(srv.URL, "ua", WithMaxAttempts(4))
	require.NoError(t, err)
	g.client.backoff = time.Millisecond

	c, err := g.Geocode(context.Background(), "somewhere")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lon: 2.5, Lat: 1.5}, c)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetrySkipsClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	g, err := NewNominatimGeocoder(srv.URL, "ua", WithMaxAttempts(4))
	require.NoError(t, err)
	g.client.backoff = time.Millisecond

	_, err = g.Geocode(context.Background(), "somewhere")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTimeoutIsHardFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	g, err := NewNominatimGeocoder(srv.URL, "ua", WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "slow")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoResult))
}

func TestORSGeocodeAndRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/geocode/search":
			assert.Equal(t, "Phoenix, AZ", r.URL.Query().Get("text"))
			assert.Equal(t, "US", r.URL.Query().Get("boundary.country"))
			fmt.Fprint(w, `{"features":[{"geometry":{"coordinates":[-112.07,33.45]}}]}`)
		case "/v2/directions/driving-hgv":
			assert.Equal(t, "-112.070000,33.450000", r.URL.Query().Get("start"))
			fmt.Fprint(w, `{"features":[{"properties":{"summary":{"distance":160934,"duration":7200}},
				"geometry":{"coordinates":[[-112.07,33.45],[-111.9,33.4]]}}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	g, err := NewORSGeocoder("secret", srv.URL)
	require.NoError(t, err)
	c, err := g.Geocode(context.Background(), "Phoenix, AZ")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lon: -112.07, Lat: 33.45}, c)

	r, err := NewORSRouter("secret", srv.URL)
	require.NoError(t, err)
	leg, err := r.Route(context.Background(), c, domain.Coordinates{Lon: -111.9, Lat: 33.4})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, leg.DistanceMiles, 0.01)
	assert.InDelta(t, 2.0, leg.DurationHours, 1e-9)
	assert.Len(t, leg.Path, 2)
}

func TestORSRequiresAPIKey(t *testing.T) {
	_, err := NewORSGeocoder("", "http://example")
	assert.Error(t, err)
	_, err = NewORSRouter("", "http://example")
	assert.Error(t, err)
}
