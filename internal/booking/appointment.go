package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"homecare-app-server/internal/models"
)

var appointmentRoles = []models.Role{models.RolePersonnel, models.RolePatient, models.RoleAdmin}

// ListAppointments returns the appointments visible to caller, most recent
// slot first. Patients see their own, personnel those on their slots.
func (e *Engine) ListAppointments(ctx context.Context, caller Caller) (_ []AppointmentResponse, err error) {
	defer func() { err = e.observe("list appointments", caller, err) }()

	if err := requireCaller(caller, appointmentRoles...); err != nil {
		return nil, err
	}
	appts, err := e.store.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	scope := appointmentScopeFor(caller)
	out := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		if scope.includes(&appts[i]) {
			out = append(out, toAppointmentResponse(&appts[i]))
		}
	}
	return out, nil
}

// GetAppointment returns one appointment the caller is a party to.
func (e *Engine) GetAppointment(ctx context.Context, id uint, caller Caller) (_ *AppointmentResponse, err error) {
	defer func() { err = e.observe("get appointment", caller, err) }()

	if err := requireCaller(caller, appointmentRoles...); err != nil {
		return nil, err
	}
	appt, err := e.findAppointment(ctx, e.store, id)
	if err != nil {
		return nil, err
	}
	if decision, reason := Authorize(caller, ReadAppointment, ownersOf(appt)); decision == Deny {
		return nil, forbidden("%s", reason)
	}
	resp := toAppointmentResponse(appt)
	return &resp, nil
}

// CreateAppointment books a free slot. Patients always book for themselves
// with status Booked; personnel and admins name the client.
func (e *Engine) CreateAppointment(ctx context.Context, req *AppointmentRequest, caller Caller) (_ *AppointmentResponse, err error) {
	defer func() { err = e.observe("create appointment", caller, err) }()

	if err := requireCaller(caller, appointmentRoles...); err != nil {
		return nil, err
	}
	if err := e.check(req); err != nil {
		return nil, err
	}

	var created *models.Appointment
	err = e.store.WithinTransaction(ctx, func(tx Store) error {
		slot, err := tx.FindAvailability(ctx, req.AvailabilityID)
		if err != nil {
			return fmt.Errorf("find availability %d: %w", req.AvailabilityID, err)
		}
		if slot == nil {
			return badRequest(msgSlotMissing)
		}
		if slot.IsBound() {
			return badRequest(msgSlotBooked)
		}

		start, end, err := parseWindow(req.StartTime, req.EndTime)
		if err != nil {
			return err
		}

		appt := models.Appointment{
			AvailabilityID:  slot.ID,
			TaskDescription: req.TaskDescription,
			StartTime:       start,
			EndTime:         end,
			Status:          models.StatusBooked,
		}
		if caller.IsPatient() {
			appt.ClientID = caller.ID
		} else {
			clientID := strings.TrimSpace(req.ClientID)
			if clientID == "" {
				return badRequest(msgClientRequired)
			}
			if err := e.requireUser(ctx, tx, clientID); err != nil {
				return err
			}
			appt.ClientID = clientID
			if req.Status != "" {
				status, err := parseStatus(req.Status)
				if err != nil {
					return err
				}
				appt.Status = status
			}
		}

		if err := tx.CreateAppointment(ctx, &appt); err != nil {
			if errors.Is(err, models.ErrAvailabilityBooked) {
				return badRequest(msgSlotBooked)
			}
			return fmt.Errorf("create appointment: %w", err)
		}
		created, err = e.findAppointment(ctx, tx, appt.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("caller_id", caller.ID).
		Uint("appointment_id", created.ID).
		Uint("availability_id", created.AvailabilityID).
		Str("client_id", created.ClientID).
		Msg("appointment created")
	resp := toAppointmentResponse(created)
	return &resp, nil
}

// UpdateAppointment rewrites an appointment, possibly moving it to another
// free slot. Patients may only touch their own and cannot change the status
// away from Booked.
func (e *Engine) UpdateAppointment(ctx context.Context, id uint, req *AppointmentRequest, caller Caller) (err error) {
	defer func() { err = e.observe("update appointment", caller, err) }()

	if err := requireCaller(caller, appointmentRoles...); err != nil {
		return err
	}
	if err := e.check(req); err != nil {
		return err
	}

	err = e.store.WithinTransaction(ctx, func(tx Store) error {
		appt, err := e.findAppointment(ctx, tx, id)
		if err != nil {
			return err
		}

		start, end, err := parseWindow(req.StartTime, req.EndTime)
		if err != nil {
			return err
		}

		slot, err := tx.FindAvailability(ctx, req.AvailabilityID)
		if err != nil {
			return fmt.Errorf("find availability %d: %w", req.AvailabilityID, err)
		}
		if slot == nil {
			return badRequest(msgSlotMissing)
		}
		if slot.IsBound() && slot.Appointment.ID != appt.ID {
			return badRequest(msgSlotBooked)
		}

		if caller.IsPatient() {
			if decision, reason := Authorize(caller, WriteAppointment, ownersOf(appt)); decision == Deny {
				return forbidden("%s", reason)
			}
			appt.Status = models.StatusBooked
		} else {
			if clientID := strings.TrimSpace(req.ClientID); clientID != "" {
				if err := e.requireUser(ctx, tx, clientID); err != nil {
					return err
				}
				appt.ClientID = clientID
			}
			if req.Status != "" {
				status, err := parseStatus(req.Status)
				if err != nil {
					return err
				}
				appt.Status = status
			}
		}

		appt.AvailabilityID = slot.ID
		appt.TaskDescription = req.TaskDescription
		appt.StartTime = start
		appt.EndTime = end
		if err := tx.SaveAppointment(ctx, appt); err != nil {
			if errors.Is(err, models.ErrAvailabilityBooked) {
				return badRequest(msgSlotBooked)
			}
			return fmt.Errorf("save appointment %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.log.Info().Str("caller_id", caller.ID).Uint("appointment_id", id).Msg("appointment updated")
	return nil
}

// DeleteAppointment removes an appointment and frees its slot.
func (e *Engine) DeleteAppointment(ctx context.Context, id uint, caller Caller) (err error) {
	defer func() { err = e.observe("delete appointment", caller, err) }()

	if err := requireCaller(caller, appointmentRoles...); err != nil {
		return err
	}

	err = e.store.WithinTransaction(ctx, func(tx Store) error {
		appt, err := e.findAppointment(ctx, tx, id)
		if err != nil {
			return err
		}
		if decision, reason := Authorize(caller, WriteAppointment, ownersOf(appt)); decision == Deny {
			return forbidden("%s", reason)
		}
		if err := tx.DeleteAppointment(ctx, id); err != nil {
			return fmt.Errorf("delete appointment %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.log.Info().Str("caller_id", caller.ID).Uint("appointment_id", id).Msg("appointment deleted")
	return nil
}

func (e *Engine) findAppointment(ctx context.Context, s AppointmentStore, id uint) (*models.Appointment, error) {
	appt, err := s.FindAppointment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find appointment %d: %w", id, err)
	}
	if appt == nil {
		return nil, notFound("Appointment %d not found.", id)
	}
	return appt, nil
}

func (e *Engine) requireUser(ctx context.Context, s UserFinder, id string) error {
	user, err := s.FindUser(ctx, id)
	if err != nil {
		return fmt.Errorf("find user %s: %w", id, err)
	}
	if user == nil {
		return badRequest(msgClientMissing)
	}
	return nil
}

func ownersOf(appt *models.Appointment) Owners {
	return Owners{PersonnelID: slotOwner(appt), ClientID: appt.ClientID}
}

// parseWindow parses an appointment's start and end and requires start < end.
func parseWindow(startText, endText string) (datatypes.Time, datatypes.Time, error) {
	start, err := ParseClock(startText)
	if err != nil {
		return 0, 0, badRequest(msgBadTime)
	}
	end, err := ParseClock(endText)
	if err != nil {
		return 0, 0, badRequest(msgBadTime)
	}
	if start >= end {
		return 0, 0, badRequest(msgTimeOrder)
	}
	return start, end, nil
}

func parseStatus(s string) (models.AppointmentStatus, error) {
	status := models.AppointmentStatus(strings.TrimSpace(s))
	if !status.Valid() {
		return "", badRequest(msgInvalidStatus)
	}
	return status, nil
}
