package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"ctchen222/movie-catalog/internal/api/response"
	"ctchen222/movie-catalog/internal/api/service"

	"github.com/gin-gonic/gin"
)

// writeError maps a service error to its HTTP status. Unknown errors become a
// 500 whose cause is only logged.
func writeError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.ValidationErrorResponse(c, validationErr.Violations)
	case errors.Is(err, service.ErrConflict):
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		response.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		response.ErrorResponse(c, http.StatusForbidden, err.Error())
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			"http.route", c.FullPath(),
			"error", err,
		)
		response.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
	}
}
