package services

import "errors"

// Error kinds. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("not authorized")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrVersionConflict    = errors.New("version conflict")
)

// Error carries a client-facing message alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func validationError(message string) *Error {
	return newError(ErrValidation, message)
}

var (
	errMedicineNotFound  = newError(ErrNotFound, "Medicine not found")
	errBadCredentials    = newError(ErrInvalidCredentials, "Invalid email or password")
	errNotAuthorized     = newError(ErrUnauthorized, "Not authorized")
	errEmailTaken        = newError(ErrConflict, "Email is already registered")
	errMedicineOutOfDate = newError(ErrVersionConflict, "Medicine was modified by another session, reload and retry")
)
