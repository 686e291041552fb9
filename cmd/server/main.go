package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"truck-trip-service/internal/adapters/repositories"
	"truck-trip-service/internal/api"
	"truck-trip-service/internal/config"
	"truck-trip-service/internal/logging"
	"truck-trip-service/internal/platform/db"
	"truck-trip-service/internal/services"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (SQL, providers, caches, events) behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := logging.NewLogger(os.Stdout, logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	slog.SetDefault(logger)

	if envErr != nil {
		logger.Info("no .env file found (using environment variables)")
	}

	if err := run(cfg, logger); err != nil {
		logging.LogError(logger, "server exited", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn := cfg.Database.Path
	if cfg.Database.Driver == string(db.Postgres) {
		dsn = cfg.Database.URL
	}

	conn, dialect, err := db.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Schema is created on startup for local runs; dbtool -init does the same for deployments.
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return err
	}

	geocoder, router, closeCache, err := newProviders(ctx, cfg, conn, dialect)
	if err != nil {
		return err
	}
	defer closeCache()

	events, closeEvents, err := newEventPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closeEvents()

	repo := repositories.NewSQLTripRepository(conn, dialect)
	planner := services.NewTripPlanner(geocoder, router, repo, events)

	handler := api.NewRouter(api.Deps{
		Planner: planner,
		Repo:    repo,
		DB:      conn,
		Logger:  logger,
	})

	// Write timeout covers two geocode rounds and two route calls on a cold cache.
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			slog.String("addr", srv.Addr),
			slog.String("db_driver", cfg.Database.Driver),
			slog.String("geocoder", cfg.Providers.Geocoder),
			slog.String("router", cfg.Providers.Router),
			slog.String("cache", cfg.Cache.Backend),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
