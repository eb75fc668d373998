package apperr

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrOutOfRange = errors.New("date out of range")
)
