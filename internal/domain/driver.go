package domain

import (
	"strings"
	"time"
)

// VehicleType represents the kind of vehicle a driver operates.
type VehicleType string

const (
	VehicleTypeBike      VehicleType = "Bike"
	VehicleTypeAuto      VehicleType = "Auto"
	VehicleTypeHatchback VehicleType = "Hatchback"
	VehicleTypeSedan     VehicleType = "Sedan"
	VehicleTypeSUV       VehicleType = "SUV"
)

// VehicleTypes lists every accepted vehicle type.
var VehicleTypes = []VehicleType{
	VehicleTypeBike,
	VehicleTypeAuto,
	VehicleTypeHatchback,
	VehicleTypeSedan,
	VehicleTypeSUV,
}

// ParseVehicleType matches a string against the known vehicle types,
// case-insensitively. The boolean reports whether the match succeeded.
func ParseVehicleType(s string) (VehicleType, bool) {
	for _, vt := range VehicleTypes {
		if strings.EqualFold(s, string(vt)) {
			return vt, true
		}
	}
	return "", false
}

// Driver represents a driver in the system.
type Driver struct {
	ID           int64
	Name         string
	Phone        string
	VehicleType  VehicleType
	VehiclePlate string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StatusLabel returns the human-readable status derived from IsActive.
func (d *Driver) StatusLabel() string {
	if d.IsActive {
		return "Active"
	}
	return "Inactive"
}

// NormalizePlate converts a vehicle plate to its stored form: trimmed and
// uppercased. Plates are compared case-insensitively by always persisting
// this form.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// Stats is the aggregate view over all drivers.
type Stats struct {
	TotalDrivers    int
	ActiveDrivers   int
	InactiveDrivers int

	// VehicleTypeDistribution counts all drivers per vehicle type;
	// ActiveVehicleTypeDistribution counts only active ones.
	VehicleTypeDistribution       map[string]int
	ActiveVehicleTypeDistribution map[string]int
}
