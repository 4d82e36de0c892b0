package repository

import (
	"context"

	"github.com/irkartik/driver-service/internal/domain"
)

// ListFilter narrows and orders a driver listing. Zero values mean
// "no restriction".
type ListFilter struct {
	// IsActive filters on the active flag when non-nil.
	IsActive *bool

	// VehicleType filters on an exact vehicle type when non-empty.
	VehicleType domain.VehicleType

	// Search matches a substring of name, phone, or vehicle plate,
	// case-insensitively.
	Search string

	// OrderBy is one of "driver_id", "name", "created_at", "vehicle_type".
	// Empty means driver_id. Descending reverses the order.
	OrderBy    string
	Descending bool

	// Limit and Offset paginate the result. Limit <= 0 means no limit.
	Limit  int
	Offset int
}

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver, assigning ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id int64) (*domain.Driver, error)

	// List retrieves drivers matching the filter, along with the total
	// number of matches ignoring Limit/Offset.
	List(ctx context.Context, filter ListFilter) ([]*domain.Driver, int, error)

	// Update rewrites all mutable fields of an existing driver and
	// refreshes its UpdatedAt.
	Update(ctx context.Context, driver *domain.Driver) error

	// SetActive updates the is_active flag of a driver and refreshes its
	// UpdatedAt.
	SetActive(ctx context.Context, id int64, active bool) error

	// Delete permanently removes a driver.
	Delete(ctx context.Context, id int64) error

	// PhoneExists reports whether another driver already uses the phone.
	// excludeID is skipped in the check; pass 0 for creates.
	PhoneExists(ctx context.Context, phone string, excludeID int64) (bool, error)

	// PlateExists reports whether another driver already uses the
	// (normalized) vehicle plate, with the same exclusion rule.
	PlateExists(ctx context.Context, plate string, excludeID int64) (bool, error)

	// Stats computes the aggregate counts over all drivers.
	Stats(ctx context.Context) (*domain.Stats, error)

	// Upsert inserts the driver under its explicit ID, or updates the
	// existing row. It reports whether a new row was created.
	Upsert(ctx context.Context, driver *domain.Driver) (bool, error)

	// DeleteAll removes every driver and returns the number removed.
	DeleteAll(ctx context.Context) (int64, error)

	// SyncIDSequence realigns the driver_id sequence with MAX(driver_id),
	// needed after inserting rows with explicit identifiers.
	SyncIDSequence(ctx context.Context) error
}
