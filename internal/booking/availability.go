package booking

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"homecare-app-server/internal/models"
)

var slotWriters = []models.Role{models.RolePersonnel, models.RoleAdmin}

// ListAvailability returns the slots visible to caller. Admins see every
// slot, personnel their own and patients the free ones.
func (e *Engine) ListAvailability(ctx context.Context, caller Caller) (_ []AvailabilityResponse, err error) {
	defer func() { err = e.observe("list availability", caller, err) }()

	if !caller.Authenticated() {
		return nil, unauthorized(msgNoIdentity)
	}
	slots, err := e.store.ListAvailabilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}

	scope := availabilityScopeFor(caller)
	out := make([]AvailabilityResponse, 0, len(slots))
	for i := range slots {
		if scope.includes(&slots[i]) {
			out = append(out, toAvailabilityResponse(&slots[i]))
		}
	}
	return out, nil
}

// GetAvailability returns one slot. Any authenticated caller may read any slot.
func (e *Engine) GetAvailability(ctx context.Context, id uint, caller Caller) (_ *AvailabilityResponse, err error) {
	defer func() { err = e.observe("get availability", caller, err) }()

	if !caller.Authenticated() {
		return nil, unauthorized(msgNoIdentity)
	}
	slot, err := e.store.FindAvailability(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find availability %d: %w", id, err)
	}
	if slot == nil {
		return nil, notFound("Availability %d not found.", id)
	}
	resp := toAvailabilityResponse(slot)
	return &resp, nil
}

// CreateAvailability adds a slot owned by the caller, whatever personnelId
// the request carries.
func (e *Engine) CreateAvailability(ctx context.Context, req *AvailabilityRequest, caller Caller) (_ *AvailabilityResponse, err error) {
	defer func() { err = e.observe("create availability", caller, err) }()

	if err := requireCaller(caller, slotWriters...); err != nil {
		return nil, err
	}
	date, start, end, err := e.parseSlot(req)
	if err != nil {
		return nil, err
	}

	var created models.Availability
	err = e.store.WithinTransaction(ctx, func(tx Store) error {
		owner, err := tx.FindUser(ctx, caller.ID)
		if err != nil {
			return fmt.Errorf("find user %s: %w", caller.ID, err)
		}
		if owner == nil {
			return badRequest("No user found with id %s.", caller.ID)
		}

		created = models.Availability{
			PersonnelID: owner.ID,
			Date:        date,
			StartTime:   start,
			EndTime:     end,
			Notes:       req.Notes,
		}
		if err := tx.CreateAvailability(ctx, &created); err != nil {
			return fmt.Errorf("create availability: %w", err)
		}
		created.Personnel = owner
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("caller_id", caller.ID).
		Uint("availability_id", created.ID).
		Msg("availability created")
	resp := toAvailabilityResponse(&created)
	return &resp, nil
}

// UpdateAvailability rewrites the date, times and notes of a slot. Only the
// owning personnel or an admin may do so. Owner and booking are untouched.
func (e *Engine) UpdateAvailability(ctx context.Context, id uint, req *AvailabilityRequest, caller Caller) (err error) {
	defer func() { err = e.observe("update availability", caller, err) }()

	if err := requireRole(caller, slotWriters...); err != nil {
		return err
	}
	date, start, end, err := e.parseSlot(req)
	if err != nil {
		return err
	}

	err = e.store.WithinTransaction(ctx, func(tx Store) error {
		slot, err := e.ownedSlot(ctx, tx, id, caller)
		if err != nil {
			return err
		}
		slot.Date = date
		slot.StartTime = start
		slot.EndTime = end
		slot.Notes = req.Notes
		if err := tx.SaveAvailability(ctx, slot); err != nil {
			return fmt.Errorf("save availability %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.log.Info().Str("caller_id", caller.ID).Uint("availability_id", id).Msg("availability updated")
	return nil
}

// DeleteAvailability removes a slot and the appointment booked on it, if any.
func (e *Engine) DeleteAvailability(ctx context.Context, id uint, caller Caller) (err error) {
	defer func() { err = e.observe("delete availability", caller, err) }()

	if err := requireRole(caller, slotWriters...); err != nil {
		return err
	}

	var cascaded *uint
	err = e.store.WithinTransaction(ctx, func(tx Store) error {
		slot, err := e.ownedSlot(ctx, tx, id, caller)
		if err != nil {
			return err
		}
		cascaded = slot.BoundAppointmentID()
		if err := tx.DeleteAvailability(ctx, id); err != nil {
			return fmt.Errorf("delete availability %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	evt := e.log.Info().Str("caller_id", caller.ID).Uint("availability_id", id)
	if cascaded != nil {
		evt = evt.Uint("appointment_id", *cascaded)
	}
	evt.Msg("availability deleted")
	return nil
}

// ownedSlot loads a slot and checks the caller may change it. A missing
// slot is reported before a missing caller id.
func (e *Engine) ownedSlot(ctx context.Context, tx Store, id uint, caller Caller) (*models.Availability, error) {
	slot, err := tx.FindAvailability(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find availability %d: %w", id, err)
	}
	if slot == nil {
		return nil, notFound("Availability %d not found.", id)
	}
	if !caller.Authenticated() {
		return nil, unauthorized(msgNoIdentity)
	}
	if decision, reason := Authorize(caller, WriteAvailability, Owners{PersonnelID: slot.PersonnelID}); decision == Deny {
		return nil, forbidden("%s", reason)
	}
	return slot, nil
}

// parseSlot validates a slot request. Start before end is not required for slots.
func (e *Engine) parseSlot(req *AvailabilityRequest) (datatypes.Date, datatypes.Time, datatypes.Time, error) {
	if err := e.check(req); err != nil {
		return datatypes.Date{}, 0, 0, err
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return datatypes.Date{}, 0, 0, badRequest("Invalid date format. Use YYYY-MM-DD.")
	}
	start, err := ParseClock(req.StartTime)
	if err != nil {
		return datatypes.Date{}, 0, 0, badRequest(msgBadTime)
	}
	end, err := ParseClock(req.EndTime)
	if err != nil {
		return datatypes.Date{}, 0, 0, badRequest(msgBadTime)
	}
	return date, start, end, nil
}
