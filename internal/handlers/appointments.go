package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"homecare-app-server/internal/booking"
	"homecare-app-server/internal/utils"
)

// AppointmentHandler handles appointment-related requests.
type AppointmentHandler struct {
	Engine *booking.Engine
	Log    zerolog.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(engine *booking.Engine, logger zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{Engine: engine, Log: logger}
}

// ListAppointments returns the appointments visible to the caller, newest first.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	appts, err := h.Engine.ListAppointments(c.Request.Context(), callerOf(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Appointments retrieved successfully", appts)
}

// GetAppointmentByID returns one appointment the caller may see.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	id, ok := parseID(c, "Appointment")
	if !ok {
		return
	}
	appt, err := h.Engine.GetAppointment(c.Request.Context(), id, callerOf(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Appointment retrieved successfully", appt)
}

// CreateAppointment books a slot.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req booking.AppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	appt, err := h.Engine.CreateAppointment(c.Request.Context(), &req, callerOf(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Created(c, "Appointment created successfully", appt)
}

// UpdateAppointment moves, rewrites or re-statuses an appointment.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	id, ok := parseID(c, "Appointment")
	if !ok {
		return
	}
	var req booking.AppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Engine.UpdateAppointment(c.Request.Context(), id, &req, callerOf(c)); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.NoContent(c)
}

// DeleteAppointment cancels a booking by removing it; the slot becomes free.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	id, ok := parseID(c, "Appointment")
	if !ok {
		return
	}
	if err := h.Engine.DeleteAppointment(c.Request.Context(), id, callerOf(c)); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.NoContent(c)
}
