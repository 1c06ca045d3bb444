package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"citylift/internal/domain"
	"citylift/internal/service"
)

// VehicleHandler handles HTTP requests for vehicles.
type VehicleHandler struct {
	vehicleService *service.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicleService *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// VehicleRequest is the HTTP request body for creating or updating a vehicle.
type VehicleRequest struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	PlateNumber string `json:"plate_number"`
	Status      string `json:"status"`
}

// AssignVehicleRequest is the HTTP request body for assigning a vehicle.
type AssignVehicleRequest struct {
	UserID string `json:"user_id"`
}

// Create handles POST /v1/vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	vehicle, err := h.vehicleService.Create(c.Request.Context(), service.CreateVehicleRequest{
		Type:        domain.VehicleType(req.Type),
		Name:        req.Name,
		PlateNumber: req.PlateNumber,
		Status:      domain.VehicleStatus(req.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toVehicleResponse(vehicle))
}

// List handles GET /v1/vehicles
func (h *VehicleHandler) List(c *gin.Context) {
	vehicles, err := h.vehicleService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toVehicleResponses(vehicles))
}

// Get handles GET /v1/vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	vehicle, err := h.vehicleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toVehicleResponse(vehicle))
}

// GetAssigned handles GET /v1/vehicles/assigned/:driverId
func (h *VehicleHandler) GetAssigned(c *gin.Context) {
	vehicle, err := h.vehicleService.GetAssignedTo(c.Request.Context(), c.Param("driverId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toVehicleResponse(vehicle))
}

// Update handles PUT /v1/vehicles/:id
func (h *VehicleHandler) Update(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	vehicle, err := h.vehicleService.Update(c.Request.Context(), service.UpdateVehicleRequest{
		ID:          c.Param("id"),
		Type:        domain.VehicleType(req.Type),
		Name:        req.Name,
		PlateNumber: req.PlateNumber,
		Status:      domain.VehicleStatus(req.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toVehicleResponse(vehicle))
}

// Assign handles PUT /v1/vehicles/:id/assign
func (h *VehicleHandler) Assign(c *gin.Context) {
	var req AssignVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	vehicle, err := h.vehicleService.Assign(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toVehicleResponse(vehicle))
}

// Delete handles DELETE /v1/vehicles/:id
func (h *VehicleHandler) Delete(c *gin.Context) {
	if err := h.vehicleService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, MessageResponse{Message: "vehicle deleted"})
}
