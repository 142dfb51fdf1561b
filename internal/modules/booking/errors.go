package booking

import "errors"

var (
	ErrNotFound                = errors.New("not_found")
	ErrConflict                = errors.New("booking_conflict")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatusTransition = errors.New("invalid_status_transition")
	ErrSpaceUnavailable        = errors.New("space_unavailable")
)

// ValidationError aggregates per-field problems so the handler can
// return them all at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation error" }

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) add(field, msg string) {
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
