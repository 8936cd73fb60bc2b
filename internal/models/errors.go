package models

import "errors"

// Business error categories. Repositories and services wrap these with
// fmt.Errorf("%w: ...") so handlers can map them to HTTP status codes.
var (
	ErrValidation        = errors.New("validation failed")
	ErrCapacityExhausted = errors.New("no production slots remaining")
	ErrCapacityUndefined = errors.New("no capacity configured for date")
	ErrInvalidAmount     = errors.New("invalid payment amount")
	ErrNotFound          = errors.New("not found")
)
