package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rental/internal/domain"
	"rental/internal/pricing"
	"rental/internal/repository"
	"rental/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps domain/service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, pricing.ErrInvalidDate),
		errors.Is(err, pricing.ErrInvalidRange),
		errors.Is(err, pricing.ErrInvalidRate),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidCarID),
		errors.Is(err, service.ErrInvalidUserEmail),
		errors.Is(err, service.ErrInvalidOwnerEmail),
		errors.Is(err, service.ErrInvalidCarModel),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidActor),
		errors.Is(err, service.ErrInvalidPaymentID),
		errors.Is(err, service.ErrInvalidUserName),
		errors.Is(err, service.ErrInvalidUserRole):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrMissingPaymentProof),
		errors.Is(err, repository.ErrStatusConflict),
		errors.Is(err, service.ErrCarUnavailable),
		errors.Is(err, service.ErrCarBusy),
		errors.Is(err, service.ErrBookingBusy),
		errors.Is(err, service.ErrCarNotListed),
		errors.Is(err, service.ErrBookingNotPending),
		errors.Is(err, service.ErrRentalNotElapsed),
		errors.Is(err, service.ErrNotConfirmed):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrActorNotAllowed):
		return http.StatusForbidden

	// Upstream payment processor unreachable
	case errors.Is(err, service.ErrGatewayUnavailable):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
