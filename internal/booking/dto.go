package booking

import (
	"homecare-app-server/internal/models"
)

// AvailabilityRequest is the body of slot create and update calls.
// PersonnelID is accepted for compatibility and ignored: slots always
// belong to the caller.
type AvailabilityRequest struct {
	PersonnelID string  `json:"personnelId"`
	Date        string  `json:"date" validate:"required"`
	StartTime   string  `json:"startTime" validate:"required"`
	EndTime     string  `json:"endTime" validate:"required"`
	Notes       *string `json:"notes"`
}

// AvailabilityResponse is the client view of a slot.
type AvailabilityResponse struct {
	ID            uint    `json:"id"`
	PersonnelID   string  `json:"personnelId"`
	PersonnelName string  `json:"personnelName"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Notes         *string `json:"notes"`
	AppointmentID *uint   `json:"appointmentId"`
	IsBooked      bool    `json:"isBooked"`
}

// AppointmentRequest is the body of appointment create and update calls.
// ClientID and Status are only honoured for Personnel and Admin callers.
type AppointmentRequest struct {
	AvailabilityID  uint   `json:"availabilityId"`
	ClientID        string `json:"clientId"`
	TaskDescription string `json:"taskDescription" validate:"required,max=200"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	Status          string `json:"status"`
}

// AppointmentResponse merges an appointment with its slot's date and personnel.
type AppointmentResponse struct {
	ID              uint   `json:"id"`
	AvailabilityID  uint   `json:"availabilityId"`
	ClientID        string `json:"clientId"`
	ClientName      string `json:"clientName"`
	PersonnelID     string `json:"personnelId"`
	PersonnelName   string `json:"personnelName"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	TaskDescription string `json:"taskDescription"`
	Status          string `json:"status"`
}

func toAvailabilityResponse(slot *models.Availability) AvailabilityResponse {
	resp := AvailabilityResponse{
		ID:            slot.ID,
		PersonnelID:   slot.PersonnelID,
		Date:          FormatDate(slot.Date),
		StartTime:     slot.StartTime.String(),
		EndTime:       slot.EndTime.String(),
		Notes:         slot.Notes,
		AppointmentID: slot.BoundAppointmentID(),
		IsBooked:      slot.IsBound(),
	}
	if slot.Personnel != nil {
		resp.PersonnelName = slot.Personnel.FullName
	}
	return resp
}

func toAppointmentResponse(appt *models.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:              appt.ID,
		AvailabilityID:  appt.AvailabilityID,
		ClientID:        appt.ClientID,
		StartTime:       appt.StartTime.String(),
		EndTime:         appt.EndTime.String(),
		TaskDescription: appt.TaskDescription,
		Status:          string(appt.Status),
	}
	if appt.Client != nil {
		resp.ClientName = appt.Client.FullName
	}
	if slot := appt.Availability; slot != nil {
		resp.PersonnelID = slot.PersonnelID
		resp.Date = FormatDate(slot.Date)
		if slot.Personnel != nil {
			resp.PersonnelName = slot.Personnel.FullName
		}
	}
	return resp
}
