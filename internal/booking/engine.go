// Package booking holds the rules for availability slots and the
// appointments booked on them: who may see and change what, and the
// checks that keep each slot booked at most once.
package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"homecare-app-server/internal/models"
)

// Engine runs slot and appointment operations for a caller.
type Engine struct {
	store    Store
	validate *validator.Validate
	log      zerolog.Logger
}

// NewEngine creates an Engine. A nil validate gets a fresh validator.
func NewEngine(store Store, validate *validator.Validate, logger zerolog.Logger) *Engine {
	if validate == nil {
		validate = validator.New()
	}
	return &Engine{
		store:    store,
		validate: validate,
		log:      logger.With().Str("component", "booking").Logger(),
	}
}

// observe logs the outcome of a failed operation and returns err unchanged.
func (e *Engine) observe(op string, caller Caller, err error) error {
	if err == nil {
		return nil
	}
	var rejected *Error
	if errors.As(err, &rejected) {
		e.log.Warn().
			Str("op", op).
			Str("caller_id", caller.ID).
			Str("reason", rejected.Message).
			Msg("request rejected")
		return err
	}
	e.log.Error().
		Err(err).
		Str("op", op).
		Str("caller_id", caller.ID).
		Msg("store failure")
	return err
}

// requireCaller rejects callers without an id or without one of roles.
func requireCaller(caller Caller, roles ...models.Role) error {
	if !caller.Authenticated() {
		return unauthorized(msgNoIdentity)
	}
	return requireRole(caller, roles...)
}

// requireRole rejects callers holding none of roles. The caller id is not
// checked.
func requireRole(caller Caller, roles ...models.Role) error {
	if !caller.HasAny(roles...) {
		return forbidden(msgRoleRequired)
	}
	return nil
}

func (e *Engine) check(req any) error {
	err := e.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return badRequest("Validation failed: %s", strings.Join(msgs, ", "))
}
