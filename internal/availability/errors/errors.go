package errors

import "errors"

var (
	ErrInvalidServiceID = errors.New("service_id query parameter is required")

	ErrOverlap = errors.New("availability block overlaps an existing block")
)
