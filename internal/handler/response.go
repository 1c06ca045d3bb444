package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"citylift/internal/auth"
	"citylift/internal/domain"
	"citylift/internal/middleware"
	"citylift/internal/repository"
	"citylift/internal/service"
)

// errForbidden is returned when a caller acts on another user's records.
var errForbidden = errors.New("forbidden")

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse represents a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// badRequest reports a body or query that could not be parsed.
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrLocationNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrMissingCoordinates),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidRadius),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrInvalidVehicleID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidRideStatus),
		errors.Is(err, service.ErrInvalidFare),
		errors.Is(err, service.ErrInvalidPaymentAmount),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidVehicleType),
		errors.Is(err, service.ErrInvalidVehicleStatus),
		errors.Is(err, service.ErrTargetNotDriver):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrVehicleUnavailable),
		errors.Is(err, service.ErrActivationInProgress):
		return http.StatusConflict

	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, errForbidden):
		return http.StatusForbidden

	// Service unavailable
	case errors.Is(err, service.ErrGeocoderUnavailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// currentSession returns the caller's session or writes 401.
func currentSession(c *gin.Context) (auth.Session, bool) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		respondError(c, auth.ErrMissingToken)
		return auth.Session{}, false
	}
	return session, true
}

// actingFor reports whether session may act on userID's records.
func actingFor(session auth.Session, userID string) bool {
	return session.Role == domain.UserRoleAdmin || session.UserID == userID
}
