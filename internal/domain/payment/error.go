package payment

import "errors"

var (
	ErrNotFound       = errors.New("payment not found")
	ErrMemberNotFound = errors.New("payment member not found")
	ErrInvalidAmount  = errors.New("payment amount must be positive")
)
