package api

import (
	"log/slog"
	"net/http"
	"truck-trip-service/internal/api/handlers"
	"truck-trip-service/internal/ports"

	"github.com/julienschmidt/httprouter"
)

// Deps are the collaborators the HTTP surface needs. DB may be nil.
type Deps struct {
	Planner handlers.TripPlanner
	Repo    ports.TripRepository
	DB      handlers.Pinger
	Logger  *slog.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	router := httprouter.New()
	router.MethodNotAllowed = http.HandlerFunc(handlers.MethodNotAllowed)
	router.NotFound = http.HandlerFunc(handlers.NotFound)

	tripHandler := &handlers.TripHandler{Planner: deps.Planner, Repo: deps.Repo}

	router.Handler(http.MethodGet, "/health", &handlers.Health{DB: deps.DB})
	router.HandlerFunc(http.MethodPost, "/api/trips/calculate/", tripHandler.Calculate)
	router.HandlerFunc(http.MethodGet, "/api/trips", tripHandler.List)
	router.HandlerFunc(http.MethodGet, "/api/trips/:id", tripHandler.Get)

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return requestIDMiddleware(logger, loggingMiddleware(router))
}
