package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicatePhone is returned when a write would violate the phone
	// uniqueness constraint.
	ErrDuplicatePhone = errors.New("phone already in use")

	// ErrDuplicatePlate is returned when a write would violate the vehicle
	// plate uniqueness constraint.
	ErrDuplicatePlate = errors.New("vehicle plate already in use")
)
