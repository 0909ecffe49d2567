package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"homecare-app-server/internal/models"
)

// ListAppointments returns every appointment, most recent slot first.
func (s *Store) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.WithContext(ctx).
		Joins("JOIN availabilities ON availabilities.id = appointments.availability_id").
		Preload("Client").
		Preload("Availability.Personnel").
		Order("availabilities.date DESC").
		Order("appointments.start_time DESC").
		Find(&appts).Error
	return appts, err
}

// FindAppointment returns nil, nil when no appointment has the given id.
func (s *Store) FindAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Availability.Personnel").
		First(&appt, id).Error
	if missing, err := notFound(err); missing || err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *Store) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	return translateBooking(s.db.WithContext(ctx).Omit(clause.Associations).Create(appt).Error)
}

func (s *Store) SaveAppointment(ctx context.Context, appt *models.Appointment) error {
	return translateBooking(s.db.WithContext(ctx).Omit(clause.Associations).Save(appt).Error)
}

func (s *Store) DeleteAppointment(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Appointment{}, id).Error
}

// translateBooking maps a unique violation on appointments.availability_id
// to models.ErrAvailabilityBooked.
func translateBooking(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrAvailabilityBooked
	}
	return err
}
