package services

import "errors"

// Sentinel errors the handlers map onto HTTP statuses.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTaskNotFound       = errors.New("task not found")
	ErrNotTaskOwner       = errors.New("not allowed to modify this task")
)

// ValidationError marks malformed or missing input. Handlers map it to 400.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

func validationError(msg string) error { return ValidationError{Msg: msg} }
