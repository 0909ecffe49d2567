package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"homecare-app-server/internal/booking"
	"homecare-app-server/internal/middleware"
	"homecare-app-server/internal/utils"
)

// respondError writes the response for an error returned by the booking
// engine or a store. Anything that is not a booking.Error is logged and
// answered with a generic 500.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var be *booking.Error
	if errors.As(err, &be) {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			utils.NotFound(c, be.Message)
		case errors.Is(err, booking.ErrBadRequest):
			utils.BadRequest(c, be.Message)
		case errors.Is(err, booking.ErrUnauthorized):
			utils.Unauthorized(c, be.Message)
		case errors.Is(err, booking.ErrForbidden):
			utils.Forbidden(c, be.Message)
		default:
			utils.BadRequest(c, be.Message)
		}
		return
	}

	log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	utils.InternalServerError(c, "Internal server error")
}

// parseID reads the :id path parameter. Ids that cannot name a record are
// answered with 404.
func parseID(c *gin.Context, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.NotFound(c, what+" not found.")
		return 0, false
	}
	return uint(id), true
}

// callerOf returns the authenticated caller. Routes without AuthMiddleware
// yield an unauthenticated caller, which the engine rejects with 401.
func callerOf(c *gin.Context) booking.Caller {
	caller, _ := middleware.CallerFromContext(c)
	return caller
}

// bindJSON binds the request body and answers 400 on malformed JSON.
// Field validation is left to the caller.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}
