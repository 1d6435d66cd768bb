package domain

import "errors"

// Expected, recoverable outcomes. Handlers map these to HTTP statuses with
// errors.Is; anything else is treated as an internal failure.
var (
	ErrValidation           = errors.New("invalid input")
	ErrInvalidRange         = errors.New("departure must be after arrival")
	ErrNotFound             = errors.New("not found")
	ErrInactiveListing      = errors.New("listing is not active")
	ErrAvailabilityConflict = errors.New("dates are not available")
	ErrForbidden            = errors.New("access denied")
	ErrFailedTransition     = errors.New("illegal status transition")
	ErrPrerequisiteNotMet   = errors.New("completed booking required")
	ErrDuplicate            = errors.New("already exists")
)
