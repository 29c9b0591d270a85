package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrTimeConflict = errors.New("booking time conflicts with existing booking")

	ErrServiceBusy = errors.New("another booking for this service is being created")

	ErrInvalidStatusTransition = errors.New("booking status transition not allowed")
)
