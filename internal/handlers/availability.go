package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"homecare-app-server/internal/booking"
	"homecare-app-server/internal/utils"
)

// AvailabilityHandler handles availability slot requests.
type AvailabilityHandler struct {
	Engine *booking.Engine
	Log    zerolog.Logger
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(engine *booking.Engine, logger zerolog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine, Log: logger}
}

// ListAvailability returns the slots visible to the caller.
func (h *AvailabilityHandler) ListAvailability(c *gin.Context) {
	slots, err := h.Engine.ListAvailability(c.Request.Context(), callerOf(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Availability retrieved successfully", slots)
}

// GetAvailability returns a single slot.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	id, ok := parseID(c, "Availability")
	if !ok {
		return
	}
	slot, err := h.Engine.GetAvailability(c.Request.Context(), id, callerOf(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Availability retrieved successfully", slot)
}

// CreateAvailability adds a slot owned by the caller.
func (h *AvailabilityHandler) CreateAvailability(c *gin.Context) {
	var req booking.AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	slot, err := h.Engine.CreateAvailability(c.Request.Context(), &req, callerOf(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Created(c, "Availability created successfully", slot)
}

// UpdateAvailability changes the date, times or notes of a slot.
func (h *AvailabilityHandler) UpdateAvailability(c *gin.Context) {
	id, ok := parseID(c, "Availability")
	if !ok {
		return
	}
	var req booking.AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Engine.UpdateAvailability(c.Request.Context(), id, &req, callerOf(c)); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.NoContent(c)
}

// DeleteAvailability removes a slot and the appointment booked on it.
func (h *AvailabilityHandler) DeleteAvailability(c *gin.Context) {
	id, ok := parseID(c, "Availability")
	if !ok {
		return
	}
	if err := h.Engine.DeleteAvailability(c.Request.Context(), id, callerOf(c)); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.NoContent(c)
}
