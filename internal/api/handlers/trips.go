package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"truck-trip-service/internal/api/dto"
	"truck-trip-service/internal/domain"
	"truck-trip-service/internal/logging"
	"truck-trip-service/internal/ports"
	"truck-trip-service/internal/services"

	"github.com/julienschmidt/httprouter"
)

// TripPlanner is the planning operation the handler drives.
type TripPlanner interface {
	PlanTrip(ctx context.Context, req services.PlanTripRequest) (*domain.TripPlan, error)
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// TripHandler exposes trip calculation and read-back endpoints.
type TripHandler struct {
	Planner TripPlanner
	Repo    ports.TripRepository
}

// Calculate plans a trip from three addresses and the cycle hours already used.
func (h *TripHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req dto.CalculateTripRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.CurrentCycleUsed == nil {
		writeError(w, r, http.StatusBadRequest, "current_cycle_used is required")
		return
	}

	trip, err := h.Planner.PlanTrip(r.Context(), services.PlanTripRequest{
		CurrentAddress: req.CurrentLocation.Address,
		PickupAddress:  req.PickupLocation.Address,
		DropoffAddress: req.DropoffLocation.Address,
		CycleHoursUsed: *req.CurrentCycleUsed,
	})
	if err != nil {
		h.writePlanError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.NewCalculateTripResponse(trip))
}

// writePlanError maps planning errors to client (400) or server (500) responses.
func (h *TripHandler) writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	var limitErr *services.LimitExceededError

	switch {
	case errors.As(err, &limitErr):
		writeError(w, r, http.StatusBadRequest, limitErr.Error())
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidAddress),
		errors.Is(err, services.ErrRoutingFailure),
		errors.Is(err, services.ErrLimitExceeded):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		logging.LogError(logging.FromContext(r.Context()), "plan trip failed", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	trip, err := h.Repo.GetTrip(r.Context(), id)
	if errors.Is(err, ports.ErrTripNotFound) {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "get trip failed", err, slog.String("trip_id", id))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewCalculateTripResponse(trip))
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxListLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxListLimit))
			return
		}
		limit = n
	}

	trips, err := h.Repo.ListTrips(r.Context(), limit)
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "list trips failed", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListTripsResponse{Trips: make([]dto.TripSummaryResponse, 0, len(trips))}
	for _, t := range trips {
		res.Trips = append(res.Trips, dto.NewTripSummaryResponse(t))
	}

	writeJSON(w, r, http.StatusOK, res)
}
