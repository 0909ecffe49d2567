package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"homecare-app-server/internal/models"
)

func (s *Store) ListAvailabilities(ctx context.Context) ([]models.Availability, error) {
	var slots []models.Availability
	err := s.db.WithContext(ctx).
		Preload("Personnel").
		Preload("Appointment").
		Order("date ASC").
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

// FindAvailability returns nil, nil when no slot has the given id.
func (s *Store) FindAvailability(ctx context.Context, id uint) (*models.Availability, error) {
	var slot models.Availability
	err := s.db.WithContext(ctx).
		Preload("Personnel").
		Preload("Appointment").
		First(&slot, id).Error
	if missing, err := notFound(err); missing || err != nil {
		return nil, err
	}
	return &slot, nil
}

func (s *Store) CreateAvailability(ctx context.Context, slot *models.Availability) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(slot).Error
}

func (s *Store) SaveAvailability(ctx context.Context, slot *models.Availability) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(slot).Error
}

// DeleteAvailability removes the slot together with any appointment booked on it.
func (s *Store) DeleteAvailability(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("availability_id = ?", id).Delete(&models.Appointment{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Availability{}, id).Error
}
