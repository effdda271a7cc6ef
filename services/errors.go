package services

import "errors"

var (
	ErrModNotFound       = errors.New("mod not found")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrUnsupportedFormat = errors.New("unsupported download format")
	ErrDependencyCycle   = errors.New("dependency cycle detected")
)
