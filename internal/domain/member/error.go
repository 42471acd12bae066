package member

import "errors"

var (
	ErrNotFound         = errors.New("member not found")
	ErrNameRequired     = errors.New("member name is required")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidDate      = errors.New("invalid date")
	ErrForbidden        = errors.New("member belongs to another owner")
	ErrIDMismatch       = errors.New("member id mismatch")
)
