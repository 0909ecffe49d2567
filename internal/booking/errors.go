package booking

import (
	"errors"
	"fmt"
)

// Error kinds. Test with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error is a rejected request. Message is safe to show to the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func notFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func badRequest(format string, args ...any) error {
	return &Error{Kind: ErrBadRequest, Message: fmt.Sprintf(format, args...)}
}

func unauthorized(format string, args ...any) error {
	return &Error{Kind: ErrUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

const (
	msgNoIdentity       = "Could not read user id from token."
	msgSlotMissing      = "Selected availability does not exist."
	msgSlotBooked       = "This time slot is already booked."
	msgBadTime          = "Invalid time format. Use HH:mm."
	msgTimeOrder        = "End time must be after start time."
	msgClientRequired   = "ClientId is required for Personnel/Admin."
	msgClientMissing    = "Selected client does not exist."
	msgRoleRequired     = "You do not have permission to access this resource."
	msgInvalidStatus    = "Status must be one of Booked, Completed or Cancelled."
	msgNotSlotOwner     = "You can only change your own availability."
	msgNotClient        = "You can only access your own appointments."
	msgNotSlotPersonnel = "You can only access appointments on your own availability."
)
