package booking

import (
	"homecare-app-server/internal/models"
)

// Action is something a caller wants to do to a slot or an appointment.
type Action int

const (
	ReadAvailability Action = iota
	WriteAvailability
	ReadAppointment
	WriteAppointment
)

// Decision is the outcome of Authorize.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// Owners identifies who a resource belongs to. PersonnelID is the slot
// owner, ClientID the patient an appointment is for.
type Owners struct {
	PersonnelID string
	ClientID    string
}

// Authorize decides whether caller may perform action on a resource owned by
// owners. On Deny the returned reason can be shown to the client.
//
// Role gates (for example "Personnel or Admin may write slots") are checked
// before this, Authorize only covers ownership.
func Authorize(caller Caller, action Action, owners Owners) (Decision, string) {
	switch action {
	case ReadAvailability:
		return Allow, ""

	case WriteAvailability:
		if caller.IsAdmin() || owners.PersonnelID == caller.ID {
			return Allow, ""
		}
		return Deny, msgNotSlotOwner

	case ReadAppointment:
		if caller.IsAdmin() {
			return Allow, ""
		}
		if caller.IsPatient() && owners.ClientID != caller.ID {
			return Deny, msgNotClient
		}
		if caller.IsPersonnel() && owners.PersonnelID != caller.ID {
			return Deny, msgNotSlotPersonnel
		}
		return Allow, ""

	case WriteAppointment:
		// The patient rule applies even when the caller also holds another role.
		if caller.IsPatient() && owners.ClientID != caller.ID {
			return Deny, msgNotClient
		}
		return Allow, ""
	}
	return Deny, msgRoleRequired
}

// availabilityScope is the List filter for slots, resolved once per request.
type availabilityScope struct {
	ownerID  string // only slots of this personnel, when set
	freeOnly bool   // only slots without an appointment
}

// The personnel and patient filters are independent: a caller holding both
// roles sees only their own free slots.
func availabilityScopeFor(c Caller) availabilityScope {
	var s availabilityScope
	if c.IsPersonnel() && !c.IsAdmin() {
		s.ownerID = c.ID
	}
	if c.IsPatient() {
		s.freeOnly = true
	}
	return s
}

func (s availabilityScope) includes(slot *models.Availability) bool {
	if s.ownerID != "" && slot.PersonnelID != s.ownerID {
		return false
	}
	if s.freeOnly && slot.IsBound() {
		return false
	}
	return true
}

// appointmentScope is the List filter for appointments. Patient takes
// precedence over Personnel.
type appointmentScope struct {
	clientID    string
	personnelID string
}

func appointmentScopeFor(c Caller) appointmentScope {
	var s appointmentScope
	if c.IsAdmin() {
		return s
	}
	if c.IsPatient() {
		s.clientID = c.ID
	} else if c.IsPersonnel() {
		s.personnelID = c.ID
	}
	return s
}

func (s appointmentScope) includes(appt *models.Appointment) bool {
	if s.clientID != "" && appt.ClientID != s.clientID {
		return false
	}
	if s.personnelID != "" && slotOwner(appt) != s.personnelID {
		return false
	}
	return true
}

// slotOwner returns the personnel id of the slot an appointment is booked on.
func slotOwner(appt *models.Appointment) string {
	if appt.Availability == nil {
		return ""
	}
	return appt.Availability.PersonnelID
}
