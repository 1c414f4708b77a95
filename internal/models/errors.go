package models

import "errors"

var (
	ErrNotFound      = errors.New("complaint not found")
	ErrInvalidID     = errors.New("invalid id")
	ErrValidation    = errors.New("validation error")
	ErrBadDate       = errors.New("invalid date format")
	ErrDateRange     = errors.New("startDate must be before endDate")
	ErrInvalidCursor = errors.New("invalid lastSeenId")
	ErrBadCategory   = errors.New("invalid category")
	ErrBadStatus     = errors.New("invalid status")
	ErrForbidden     = errors.New("unauthorized access")
	ErrUnavailable   = errors.New("store operation timed out")
)
