package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"citylift/internal/service"
)

// DriverHandler handles HTTP requests for driver activation and discovery.
type DriverHandler struct {
	activationService *service.ActivationService
	matchingService   *service.MatchingService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(activationService *service.ActivationService, matchingService *service.MatchingService) *DriverHandler {
	return &DriverHandler{
		activationService: activationService,
		matchingService:   matchingService,
	}
}

// ActivateRequest is the HTTP request body for activating a driver.
type ActivateRequest struct {
	VehicleID string   `json:"vehicle_id"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Activate handles POST /v1/drivers/activate
func (h *DriverHandler) Activate(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	activation, err := h.activationService.Activate(c.Request.Context(), service.ActivateRequest{
		DriverID:  session.UserID,
		VehicleID: req.VehicleID,
		Lat:       req.Latitude,
		Lng:       req.Longitude,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toActivationResponse(activation))
}

// GetActivation handles GET /v1/drivers/activate
func (h *DriverHandler) GetActivation(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	activation, err := h.activationService.GetActivation(c.Request.Context(), session.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toActivationResponse(activation))
}

// Deactivate handles DELETE /v1/drivers/activate
func (h *DriverHandler) Deactivate(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	if err := h.activationService.Deactivate(c.Request.Context(), session.UserID); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, MessageResponse{Message: "driver deactivated"})
}

// Nearby handles GET /v1/drivers/nearby?latitude=&longitude=&radius=
func (h *DriverHandler) Nearby(c *gin.Context) {
	lat, err := optionalFloatQuery(c, "latitude")
	if err != nil {
		respondError(c, service.ErrInvalidLocation)
		return
	}
	lng, err := optionalFloatQuery(c, "longitude")
	if err != nil {
		respondError(c, service.ErrInvalidLocation)
		return
	}
	radius, err := optionalFloatQuery(c, "radius")
	if err != nil {
		respondError(c, service.ErrInvalidRadius)
		return
	}

	req := service.FindNearbyRequest{Lat: lat, Lng: lng}
	if radius != nil {
		req.RadiusKm = *radius
	}

	results, err := h.matchingService.FindNearby(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toNearbyResponses(results))
}

// optionalFloatQuery returns nil when the parameter is absent or empty.
func optionalFloatQuery(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
