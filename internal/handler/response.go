package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/irkartik/driver-service/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Validation failures keep their per-field shape.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, verr.Fields)
		return
	}

	c.JSON(mapErrorToHTTPStatus(err), ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrDriverNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrVehicleTypeRequired):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
