package service

import "errors"

// Service errors. Handlers map them to HTTP statuses; wrapped messages after
// the colon are safe to show to callers.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("not authenticated")
	ErrForbidden          = errors.New("admin access required")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrServiceUnavailable = errors.New("service unavailable")
)
