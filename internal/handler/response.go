package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking/internal/repository"
	"booking/internal/service"
)

// ErrorResponse represents a failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// successEnvelope wraps response data the way the storefront expects.
type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Success: false, Error: err.Error()})
}

// respondData sends a success envelope with the given status code.
func respondData(c *gin.Context, code int, data any) {
	c.JSON(code, successEnvelope{Success: true, Data: data})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidPickup),
		errors.Is(err, service.ErrInvalidDropoff),
		errors.Is(err, service.ErrInvalidPassengerCount),
		errors.Is(err, service.ErrInvalidLuggageCount),
		errors.Is(err, service.ErrInvalidVehicleClass),
		errors.Is(err, service.ErrInvalidScheduledAt),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidCustomerName),
		errors.Is(err, service.ErrInvalidCustomerEmail),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidPaymentID),
		errors.Is(err, service.ErrInvalidBookingStatus):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrDuplicatePayment),
		errors.Is(err, service.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrNoCapturablePayment):
		return http.StatusConflict

	// Auth errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrTokenInvalid):
		return http.StatusUnauthorized

	// Dependency failures
	case errors.Is(err, service.ErrDistanceUnavailable),
		errors.Is(err, service.ErrGateway):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
