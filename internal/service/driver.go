package service

import (
	"context"
	"errors"
	"strings"

	"github.com/irkartik/driver-service/internal/domain"
	"github.com/irkartik/driver-service/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// DriverService handles driver operations.
type DriverService struct {
	repo repository.DriverRepository
}

// NewDriverService creates a new DriverService.
func NewDriverService(repo repository.DriverRepository) *DriverService {
	return &DriverService{repo: repo}
}

// DriverInput is the write payload for create and update operations. Nil
// fields were absent from the request; on partial updates they retain the
// prior value.
type DriverInput struct {
	Name         *string
	Phone        *string
	VehicleType  *string
	VehiclePlate *string
	IsActive     *bool
}

// ListQuery narrows, orders and paginates a driver listing.
type ListQuery struct {
	IsActive    *bool
	VehicleType string
	Search      string

	// Ordering is a field name from {driver_id, name, created_at,
	// vehicle_type}, optionally prefixed with "-" for descending. Empty
	// means "-driver_id".
	Ordering string

	Page     int
	PageSize int
}

// DriverPage is one page of a driver listing.
type DriverPage struct {
	Count    int
	Page     int
	PageSize int
	Drivers  []*domain.Driver
}

// Create validates the payload and persists a new driver. All field checks
// run before any write; a nil IsActive defaults to active.
func (s *DriverService) Create(ctx context.Context, in DriverInput) (*domain.Driver, error) {
	verr := &ValidationError{}
	requireFields(verr, in)

	driver := &domain.Driver{IsActive: true}
	if err := s.applyInput(ctx, verr, driver, in, 0); err != nil {
		return nil, err
	}
	if !verr.ok() {
		return nil, verr
	}

	if err := s.repo.Create(ctx, driver); err != nil {
		return nil, mapDuplicateError(err)
	}
	return driver, nil
}

// Get retrieves one driver by ID.
func (s *DriverService) Get(ctx context.Context, id int64) (*domain.Driver, error) {
	if id <= 0 {
		return nil, ErrInvalidDriverID
	}
	driver, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return driver, nil
}

// List retrieves a page of drivers.
func (s *DriverService) List(ctx context.Context, q ListQuery) (*DriverPage, error) {
	filter := repository.ListFilter{
		IsActive: q.IsActive,
		Search:   strings.TrimSpace(q.Search),
	}

	if q.VehicleType != "" {
		vt, ok := domain.ParseVehicleType(q.VehicleType)
		if !ok {
			// Unknown type matches nothing, same as filtering on a
			// choice no row can hold.
			return emptyPage(q), nil
		}
		filter.VehicleType = vt
	}

	filter.OrderBy, filter.Descending = parseOrdering(q.Ordering)

	page, pageSize := normalizePage(q)
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	drivers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &DriverPage{
		Count:    total,
		Page:     page,
		PageSize: pageSize,
		Drivers:  drivers,
	}, nil
}

// ListByStatus retrieves a page of drivers restricted to one is_active
// value, still honoring the rest of the query.
func (s *DriverService) ListByStatus(ctx context.Context, active bool, q ListQuery) (*DriverPage, error) {
	q.IsActive = &active
	return s.List(ctx, q)
}

// ListByVehicleType retrieves a page of drivers of one vehicle type,
// matched case-insensitively. An empty vehicleType is an error.
func (s *DriverService) ListByVehicleType(ctx context.Context, vehicleType string, q ListQuery) (*DriverPage, error) {
	if strings.TrimSpace(vehicleType) == "" {
		return nil, ErrVehicleTypeRequired
	}
	q.VehicleType = vehicleType
	return s.List(ctx, q)
}

// Update rewrites a driver. With partial=false all writable fields must be
// present; with partial=true absent fields retain their prior values.
func (s *DriverService) Update(ctx context.Context, id int64, in DriverInput, partial bool) (*domain.Driver, error) {
	driver, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if !partial {
		requireFields(verr, in)
	}
	if err := s.applyInput(ctx, verr, driver, in, id); err != nil {
		return nil, err
	}
	if !verr.ok() {
		return nil, verr
	}

	if err := s.repo.Update(ctx, driver); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, mapDuplicateError(err)
	}
	return driver, nil
}

// Delete permanently removes a driver.
func (s *DriverService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrDriverNotFound
	}
	return err
}

// ToggleStatus flips a driver's is_active flag and returns the updated
// driver.
func (s *DriverService) ToggleStatus(ctx context.Context, id int64) (*domain.Driver, error) {
	driver, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.SetStatus(ctx, id, !driver.IsActive)
}

// SetStatus sets a driver's is_active flag and returns the updated driver.
func (s *DriverService) SetStatus(ctx context.Context, id int64, active bool) (*domain.Driver, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Stats computes the aggregate counts over all drivers.
func (s *DriverService) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.repo.Stats(ctx)
}

// requireFields records a missing-field error for every writable field
// absent from a full write.
func requireFields(verr *ValidationError, in DriverInput) {
	if in.Name == nil {
		verr.add("name", msgFieldRequired)
	}
	if in.Phone == nil {
		verr.add("phone", msgFieldRequired)
	}
	if in.VehicleType == nil {
		verr.add("vehicle_type", msgFieldRequired)
	}
	if in.VehiclePlate == nil {
		verr.add("vehicle_plate", msgFieldRequired)
	}
}

// applyInput validates every provided field and copies it onto the driver.
// excludeID is the driver being updated (0 for creates) and is skipped in
// uniqueness checks. A non-nil error is an infrastructure failure, not a
// validation failure.
func (s *DriverService) applyInput(ctx context.Context, verr *ValidationError, driver *domain.Driver, in DriverInput, excludeID int64) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		switch {
		case name == "":
			verr.add("name", msgFieldRequired)
		case len(name) > 100:
			verr.add("name", msgNameTooLong)
		default:
			driver.Name = name
		}
	}

	if in.Phone != nil {
		phone := *in.Phone
		switch {
		case !isDigits(phone):
			verr.add("phone", msgPhoneDigitsOnly)
		case len(phone) != 10:
			verr.add("phone", msgPhoneLength)
		default:
			taken, err := s.repo.PhoneExists(ctx, phone, excludeID)
			if err != nil {
				return err
			}
			if taken {
				verr.add("phone", msgPhoneTaken)
			} else {
				driver.Phone = phone
			}
		}
	}

	if in.VehicleType != nil {
		vt, ok := domain.ParseVehicleType(*in.VehicleType)
		if !ok {
			verr.add("vehicle_type", msgInvalidType)
		} else {
			driver.VehicleType = vt
		}
	}

	if in.VehiclePlate != nil {
		plate := domain.NormalizePlate(*in.VehiclePlate)
		switch {
		case plate == "":
			verr.add("vehicle_plate", msgPlateEmpty)
		case len(plate) > 20:
			verr.add("vehicle_plate", msgPlateTooLong)
		default:
			taken, err := s.repo.PlateExists(ctx, plate, excludeID)
			if err != nil {
				return err
			}
			if taken {
				verr.add("vehicle_plate", msgPlateTaken)
			} else {
				driver.VehiclePlate = plate
			}
		}
	}

	if in.IsActive != nil {
		driver.IsActive = *in.IsActive
	}
	return nil
}

// mapDuplicateError converts a lost uniqueness race at the database into the
// same per-field error the pre-check would have produced.
func mapDuplicateError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicatePhone):
		return &ValidationError{Fields: FieldErrors{"phone": {msgPhoneTaken}}}
	case errors.Is(err, repository.ErrDuplicatePlate):
		return &ValidationError{Fields: FieldErrors{"vehicle_plate": {msgPlateTaken}}}
	}
	return err
}

// parseOrdering resolves a DRF-style ordering parameter ("-created_at")
// into a column and direction, defaulting to driver_id descending.
func parseOrdering(ordering string) (string, bool) {
	ordering = strings.TrimSpace(ordering)
	if ordering == "" {
		return "driver_id", true
	}
	descending := false
	if strings.HasPrefix(ordering, "-") {
		descending = true
		ordering = ordering[1:]
	}
	switch ordering {
	case "driver_id", "name", "created_at", "vehicle_type":
		return ordering, descending
	}
	return "driver_id", true
}

func normalizePage(q ListQuery) (page, pageSize int) {
	page = q.Page
	if page < 1 {
		page = 1
	}
	pageSize = q.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func emptyPage(q ListQuery) *DriverPage {
	page, pageSize := normalizePage(q)
	return &DriverPage{Count: 0, Page: page, PageSize: pageSize}
}
