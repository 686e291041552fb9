package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Providers ProviderConfig
	Cache     CacheConfig
	Events    EventsConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig selects the SQL backend.
type DatabaseConfig struct {
	Driver string // sqlite | postgres
	Path   string
	URL    string
}

// ProviderConfig holds geocoding and routing provider settings.
type ProviderConfig struct {
	Geocoder         string // nominatim | ors
	Router           string // osrm | ors
	NominatimBaseURL string
	OSRMBaseURL      string
	ORSBaseURL       string
	ORSAPIKey        string
	UserAgent        string
	Timeout          time.Duration
	MaxAttempts      int
}

// CacheConfig holds geocode/route cache settings.
type CacheConfig struct {
	Backend       string // none | sql | redis
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// EventsConfig holds trip event publishing settings. An empty URL disables publishing.
type EventsConfig struct {
	AMQPURL  string
	Exchange string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         Get("PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(Get("DB_DRIVER", "sqlite")),
			Path:   Get("DB_PATH", "data/app.db"),
			URL:    os.Getenv("DATABASE_URL"),
		},
		Providers: ProviderConfig{
			Geocoder:         strings.ToLower(Get("GEOCODER", "nominatim")),
			Router:           strings.ToLower(Get("ROUTER", "osrm")),
			NominatimBaseURL: Get("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
			OSRMBaseURL:      Get("OSRM_BASE_URL", "http://router.project-osrm.org"),
			ORSBaseURL:       Get("ORS_BASE_URL", "https://api.openrouteservice.org"),
			ORSAPIKey:        os.Getenv("ORS_API_KEY"),
			UserAgent:        Get("USER_AGENT", "truck_trip_app"),
			Timeout:          getDuration("HTTP_TIMEOUT", 10*time.Second),
			MaxAttempts:      getInt("HTTP_MAX_ATTEMPTS", 1),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(Get("CACHE_BACKEND", "sql")),
			TTL:           getDuration("CACHE_TTL", 24*time.Hour),
			RedisAddr:     Get("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getInt("REDIS_DB", 0),
		},
		Events: EventsConfig{
			AMQPURL:  os.Getenv("AMQP_URL"),
			Exchange: Get("AMQP_EXCHANGE", "trips"),
		},
		Log: LogConfig{
			Level:  Get("LOG_LEVEL", "info"),
			Format: Get("LOG_FORMAT", "text"),
		},
	}
}

// Validate reports unknown enum values and missing required settings.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "sqlite":
		if strings.TrimSpace(c.Database.Path) == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite"))
		}
	case "postgres":
		if strings.TrimSpace(c.Database.URL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of sqlite, postgres", c.Database.Driver))
	}

	if c.Providers.Geocoder != "nominatim" && c.Providers.Geocoder != "ors" {
		errs = append(errs, fmt.Errorf("GEOCODER %q is not one of nominatim, ors", c.Providers.Geocoder))
	}
	if c.Providers.Router != "osrm" && c.Providers.Router != "ors" {
		errs = append(errs, fmt.Errorf("ROUTER %q is not one of osrm, ors", c.Providers.Router))
	}
	if (c.Providers.Geocoder == "ors" || c.Providers.Router == "ors") && strings.TrimSpace(c.Providers.ORSAPIKey) == "" {
		errs = append(errs, errors.New("ORS_API_KEY is required when an ors provider is selected"))
	}
	if c.Providers.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("HTTP_MAX_ATTEMPTS must be at least 1, got %d", c.Providers.MaxAttempts))
	}

	switch c.Cache.Backend {
	case "none", "sql", "redis":
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND %q is not one of none, sql, redis", c.Cache.Backend))
	}

	return errors.Join(errs...)
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
