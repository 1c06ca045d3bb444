package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"citylift/internal/domain"
	"citylift/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest is the HTTP request body for recording a payment.
type RecordPaymentRequest struct {
	UserID string           `json:"user_id"`
	RideID string           `json:"ride_id"`
	Amount *decimal.Decimal `json:"amount"`
	Method string           `json:"method"` // MOBILE_MONEY, BANK_CARD
}

// RecordPayment handles POST /v1/payments
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.UserID != "" && !actingFor(session, req.UserID) {
		respondError(c, errForbidden)
		return
	}

	var amount decimal.Decimal
	if req.Amount != nil {
		amount = *req.Amount
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), service.RecordPaymentRequest{
		UserID: req.UserID,
		RideID: req.RideID,
		Amount: amount,
		Method: domain.PaymentMethod(req.Method),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPaymentResponse(payment))
}

// ListByUser handles GET /v1/payments/user/:userId
func (h *PaymentHandler) ListByUser(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	userID := c.Param("userId")
	if !actingFor(session, userID) {
		respondError(c, errForbidden)
		return
	}

	payments, err := h.paymentService.ListPaymentsByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponses(payments))
}

// ListByRide handles GET /v1/payments/ride/:rideId
func (h *PaymentHandler) ListByRide(c *gin.Context) {
	payments, err := h.paymentService.ListPaymentsByRide(c.Request.Context(), c.Param("rideId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponses(payments))
}
