// Package controller holds the HTTP error mapping shared by the user and
// admin controllers.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qdimov/quizdesk/internal/apperr"
	"github.com/qdimov/quizdesk/internal/dto"
)

// Respond translates a service error into the HTTP response. Navigation
// out-of-range is a redirect to the dashboard, never an error page.
func Respond(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrOutOfRange):
		ctx.Redirect(http.StatusSeeOther, "/api/v1/dashboard")
	case errors.Is(err, apperr.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrPermissionDenied):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrInvalidState):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrResource):
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error", Details: []string{err.Error()}})
	}
}
