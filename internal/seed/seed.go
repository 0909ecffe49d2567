// Package seed fills an empty database with a small development data set.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"homecare-app-server/internal/models"
)

// Password is shared by every seeded account.
const Password = "Pass123!"

type account struct {
	email string
	name  string
	roles []models.Role
}

var accounts = []account{
	{"admin@homecare.local", "Admin Alice", []models.Role{models.RoleAdmin, models.RolePersonnel}},
	{"nurse@homecare.local", "Nurse Nora", []models.Role{models.RolePersonnel}},
	{"patient@homecare.local", "Patient Peter", []models.Role{models.RolePatient}},
}

type slot struct {
	dayOffset  int
	start, end [2]int
	notes      string
}

var slots = []slot{
	{0, [2]int{9, 0}, [2]int{10, 0}, "Morning visit"},
	{0, [2]int{11, 0}, [2]int{12, 0}, "Check-up"},
	{1, [2]int{9, 30}, [2]int{10, 30}, "Follow-up"},
	{2, [2]int{13, 0}, [2]int{14, 0}, "Home visit"},
}

// bookings maps a slot index to the task booked on it by the seeded patient.
var bookings = []struct {
	slot int
	task string
}{
	{0, "Medication reminder"},
	{2, "Routine check"},
}

// Run seeds db unless it already holds users. It reports whether anything
// was written. now anchors the slot dates.
func Run(ctx context.Context, db *gorm.DB, now time.Time, logger zerolog.Logger) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		logger.Info().Int64("users", count).Msg("database already seeded")
		return false, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make([]*models.User, 0, len(accounts))
		for _, a := range accounts {
			u := &models.User{Email: a.email, FullName: a.name}
			if err := u.SetPassword(Password); err != nil {
				return err
			}
			for _, r := range a.roles {
				u.Roles = append(u.Roles, models.UserRole{Role: r})
			}
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("create user %s: %w", a.email, err)
			}
			users = append(users, u)
		}
		nurse, patient := users[1], users[2]

		y, m, d := now.Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

		created := make([]*models.Availability, 0, len(slots))
		for _, s := range slots {
			notes := s.notes
			a := &models.Availability{
				PersonnelID: nurse.ID,
				Date:        datatypes.Date(today.AddDate(0, 0, s.dayOffset)),
				StartTime:   datatypes.NewTime(s.start[0], s.start[1], 0, 0),
				EndTime:     datatypes.NewTime(s.end[0], s.end[1], 0, 0),
				Notes:       &notes,
			}
			if err := tx.Create(a).Error; err != nil {
				return fmt.Errorf("create availability: %w", err)
			}
			created = append(created, a)
		}

		for _, b := range bookings {
			a := created[b.slot]
			appt := &models.Appointment{
				AvailabilityID:  a.ID,
				ClientID:        patient.ID,
				TaskDescription: b.task,
				StartTime:       a.StartTime,
				EndTime:         a.EndTime,
				Status:          models.StatusBooked,
			}
			if err := tx.Create(appt).Error; err != nil {
				return fmt.Errorf("create appointment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	logger.Info().
		Int("users", len(accounts)).
		Int("availabilities", len(slots)).
		Int("appointments", len(bookings)).
		Msg("database seeded")
	return true, nil
}
