package avatar

import "errors"

var (
	ErrNotFound     = errors.New("object not found")
	ErrForbiddenKey = errors.New("object key outside of owner namespace")
	ErrInvalidKey   = errors.New("invalid object key")
	ErrTooLarge     = errors.New("object too large")
	ErrEmpty        = errors.New("object is empty")
	ErrInvalidToken = errors.New("invalid or expired signed url token")
)
