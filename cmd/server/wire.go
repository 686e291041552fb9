package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"truck-trip-service/internal/adapters/cache"
	"truck-trip-service/internal/adapters/events"
	"truck-trip-service/internal/adapters/geo"
	"truck-trip-service/internal/config"
	"truck-trip-service/internal/logging"
	"truck-trip-service/internal/platform/db"
	"truck-trip-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// newProviders builds the configured geocoder and router, wrapped in the
// configured cache. The returned func releases cache connections.
func newProviders(
	ctx context.Context,
	cfg *config.Config,
	conn *sql.DB,
	dialect db.Dialect,
) (ports.Geocoder, ports.RouteProvider, func(), error) {
	p := cfg.Providers
	opts := []geo.ClientOption{
		geo.WithTimeout(p.Timeout),
		geo.WithMaxAttempts(p.MaxAttempts),
	}

	var (
		geocoder ports.Geocoder
		router   ports.RouteProvider
		err      error
	)

	switch p.Geocoder {
	case "ors":
		geocoder, err = geo.NewORSGeocoder(p.ORSAPIKey, p.ORSBaseURL, opts...)
	default:
		geocoder, err = geo.NewNominatimGeocoder(p.NominatimBaseURL, p.UserAgent, opts...)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build geocoder: %w", err)
	}

	switch p.Router {
	case "ors":
		router, err = geo.NewORSRouter(p.ORSAPIKey, p.ORSBaseURL, opts...)
	default:
		router = geo.NewOSRMRouter(p.OSRMBaseURL, opts...)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build router: %w", err)
	}

	switch cfg.Cache.Backend {
	case "sql":
		geocoder = geo.NewCachedGeocoder(geocoder, cache.NewSQLGeocodeCache(conn, dialect))
		router = geo.NewCachedRouter(router, cache.NewSQLRouteCache(conn, dialect))
		return geocoder, router, func() {}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}

		geocoder = geo.NewCachedGeocoder(geocoder, cache.NewRedisGeocodeCache(client, cfg.Cache.TTL))
		router = geo.NewCachedRouter(router, cache.NewRedisRouteCache(client, cfg.Cache.TTL))
		return geocoder, router, func() { _ = client.Close() }, nil

	default:
		return geocoder, router, func() {}, nil
	}
}

// newEventPublisher connects to AMQP when configured, otherwise returns a no-op publisher.
func newEventPublisher(cfg *config.Config, logger *slog.Logger) (ports.TripEventPublisher, func(), error) {
	if cfg.Events.AMQPURL == "" {
		return events.NoopPublisher{}, func() {}, nil
	}

	pub, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("publishing trip events", slog.String("exchange", cfg.Events.Exchange))

	return pub, func() {
		if err := pub.Close(); err != nil {
			logging.LogError(logger, "close amqp publisher", err)
		}
	}, nil
}
