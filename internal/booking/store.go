package booking

import (
	"context"

	"homecare-app-server/internal/models"
)

// AvailabilityStore persists slots. Find returns nil, nil for unknown ids.
// Loaded slots carry their Personnel and bound Appointment.
type AvailabilityStore interface {
	ListAvailabilities(ctx context.Context) ([]models.Availability, error)
	FindAvailability(ctx context.Context, id uint) (*models.Availability, error)
	CreateAvailability(ctx context.Context, slot *models.Availability) error
	SaveAvailability(ctx context.Context, slot *models.Availability) error
	// DeleteAvailability also deletes the appointment bound to the slot.
	DeleteAvailability(ctx context.Context, id uint) error
}

// AppointmentStore persists appointments. Find returns nil, nil for unknown
// ids. Loaded appointments carry their Client and Availability (with its
// Personnel). Create and Save return models.ErrAvailabilityBooked when the
// slot already has another appointment.
type AppointmentStore interface {
	// ListAppointments orders by slot date, then appointment start, newest first.
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	FindAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	SaveAppointment(ctx context.Context, appt *models.Appointment) error
	DeleteAppointment(ctx context.Context, id uint) error
}

// UserFinder resolves user records. Unknown ids yield nil, nil.
type UserFinder interface {
	FindUser(ctx context.Context, id string) (*models.User, error)
}

// Store is everything the Engine needs from persistence.
type Store interface {
	AvailabilityStore
	AppointmentStore
	UserFinder
	// WithinTransaction runs fn with a Store whose writes commit together.
	WithinTransaction(ctx context.Context, fn func(Store) error) error
}
