package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "Booked"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// ErrAvailabilityBooked is returned by stores when the one-appointment-per-slot
// constraint rejects a write.
var ErrAvailabilityBooked = errors.New("availability already has an appointment")

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusBooked, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is a booking of one availability slot for one client.
type Appointment struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	AvailabilityID  uint              `gorm:"not null;uniqueIndex" json:"availabilityId"`
	ClientID        string            `gorm:"size:36;not null;index" json:"clientId"`
	TaskDescription string            `gorm:"size:200;not null" json:"taskDescription"`
	StartTime       datatypes.Time    `gorm:"not null" json:"startTime"`
	EndTime         datatypes.Time    `gorm:"not null" json:"endTime"`
	Status          AppointmentStatus `gorm:"size:20;not null;default:'Booked'" json:"status"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`

	// Relations
	Client       *User         `gorm:"foreignKey:ClientID" json:"-"`
	Availability *Availability `gorm:"foreignKey:AvailabilityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
