package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"citylift/internal/domain"
	"citylift/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// CreateRideRequest is the HTTP request body for creating a ride.
type CreateRideRequest struct {
	UserID        string           `json:"user_id"`
	VehicleID     string           `json:"vehicle_id"`
	StartLocation string           `json:"start_location"`
	EndLocation   string           `json:"end_location"`
	Fare          *decimal.Decimal `json:"fare"`
}

// UpdateRideStatusRequest is the HTTP request body for changing ride status.
type UpdateRideStatusRequest struct {
	Status string `json:"status"`
}

// CreateRide handles POST /v1/rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.UserID != "" && !actingFor(session, req.UserID) {
		respondError(c, errForbidden)
		return
	}

	var fare decimal.Decimal
	if req.Fare != nil {
		fare = *req.Fare
	}

	ride, err := h.rideService.CreateRide(c.Request.Context(), service.CreateRideRequest{
		UserID:        req.UserID,
		VehicleID:     req.VehicleID,
		StartLocation: req.StartLocation,
		EndLocation:   req.EndLocation,
		Fare:          fare,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// GetAll handles GET /v1/rides
func (h *RideHandler) GetAll(c *gin.Context) {
	rides, err := h.rideService.ListRides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// GetMine handles GET /v1/rides/my
func (h *RideHandler) GetMine(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	rides, err := h.rideService.ListMyRides(c.Request.Context(), service.ListMyRidesRequest{
		UserID: session.UserID,
		Role:   session.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// UpdateStatus handles PUT /v1/rides/:id/status
func (h *RideHandler) UpdateStatus(c *gin.Context) {
	var req UpdateRideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ride, err := h.rideService.SetStatus(c.Request.Context(), c.Param("id"), domain.RideStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}
