package service

import "errors"

var (
	// ErrDriverNotFound is returned when the requested driver does not exist.
	ErrDriverNotFound = errors.New("driver not found")

	// ErrInvalidDriverID is returned when a driver ID is not a positive integer.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrVehicleTypeRequired is returned when the by-vehicle-type listing is
	// called without a vehicle_type parameter.
	ErrVehicleTypeRequired = errors.New("vehicle_type parameter is required")
)
