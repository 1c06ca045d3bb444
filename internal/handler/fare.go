package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"citylift/internal/service"
)

// FareHandler handles HTTP requests for fare estimates.
type FareHandler struct {
	fareService *service.FareService
}

// NewFareHandler creates a new FareHandler.
func NewFareHandler(fareService *service.FareService) *FareHandler {
	return &FareHandler{fareService: fareService}
}

// EstimateRequest is the HTTP request body for a fare estimate. Either
// distance_km or both locations must be supplied.
type EstimateRequest struct {
	Category      string   `json:"category"`
	DistanceKm    *float64 `json:"distance_km"`
	StartLocation string   `json:"start_location"`
	EndLocation   string   `json:"end_location"`
}

// EstimateResponse is the HTTP response for a fare estimate.
type EstimateResponse struct {
	Category   string  `json:"category"`
	DistanceKm float64 `json:"distance_km"`
	EtaMinutes int     `json:"eta_minutes"`
	Fare       float64 `json:"fare"`
}

// Estimate handles POST /v1/fares/estimate
func (h *FareHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	quote, err := h.fareService.Quote(c.Request.Context(), service.QuoteRequest{
		Category:      req.Category,
		DistanceKm:    req.DistanceKm,
		StartLocation: req.StartLocation,
		EndLocation:   req.EndLocation,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, EstimateResponse{
		Category:   quote.Category,
		DistanceKm: quote.DistanceKm,
		EtaMinutes: quote.EtaMinutes,
		Fare:       quote.Fare.InexactFloat64(),
	})
}
