package catalog

import "errors"

var (
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidSpaceType = errors.New("invalid space type")
	ErrInvalidPriceUnit = errors.New("invalid price unit")
)

// ValidationError carries per-field failures up to the handler.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }
