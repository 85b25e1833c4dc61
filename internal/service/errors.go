package service

import "errors"

// Common service errors
var (
	// ErrRequestNotFound is returned when no request has the given id
	ErrRequestNotFound = errors.New("request not found")

	// ErrUnknownStatus is returned when a status id does not exist
	ErrUnknownStatus = errors.New("unknown status")

	// ErrNoDefaultCustomer is returned when there is no customer to file a request under
	ErrNoDefaultCustomer = errors.New("no customer available for new requests")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
