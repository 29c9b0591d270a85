package errors

import "errors"

var (
	ErrInvalidProvider = errors.New("webhook provider must be 1-32 characters of a-z, 0-9, '-' or '_'")

	ErrMissingBody = errors.New("webhook body was not captured")
)
