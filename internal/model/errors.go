package model

import "errors"

var (
	// ErrUnsupportedOperation is returned for add/subtract/multiply on whole intervals.
	ErrUnsupportedOperation = errors.New("model: unsupported operation")
	// ErrUnknownCategory is returned when a selector names no sub-record.
	ErrUnknownCategory = errors.New("model: unknown category")
	// ErrUnknownField is returned when a selector names no field of its category.
	ErrUnknownField = errors.New("model: unknown field")
)
