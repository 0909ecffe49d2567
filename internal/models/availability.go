package models

import (
	"time"

	"gorm.io/datatypes"
)

// Availability is a window of time a personnel member offers for booking.
type Availability struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PersonnelID string         `gorm:"size:36;not null;index" json:"personnelId"`
	Date        datatypes.Date `gorm:"not null;index" json:"date"`
	StartTime   datatypes.Time `gorm:"not null" json:"startTime"`
	EndTime     datatypes.Time `gorm:"not null" json:"endTime"`
	Notes       *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	// Relations
	Personnel   *User        `gorm:"foreignKey:PersonnelID" json:"-"`
	Appointment *Appointment `gorm:"foreignKey:AvailabilityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsBound reports whether an appointment currently references the slot.
// It relies on Appointment having been preloaded.
func (a *Availability) IsBound() bool {
	return a.Appointment != nil && a.Appointment.ID != 0
}

// BoundAppointmentID returns the id of the bound appointment, or nil when the slot is free.
func (a *Availability) BoundAppointmentID() *uint {
	if !a.IsBound() {
		return nil
	}
	id := a.Appointment.ID
	return &id
}
