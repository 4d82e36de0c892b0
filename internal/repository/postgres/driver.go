package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/irkartik/driver-service/internal/domain"
	"github.com/irkartik/driver-service/internal/repository"
)

const driverColumns = "driver_id, name, phone, vehicle_type, vehicle_plate, is_active, created_at, updated_at"

// orderColumns whitelists the columns a listing may be ordered by.
var orderColumns = map[string]string{
	"driver_id":    "driver_id",
	"name":         "name",
	"created_at":   "created_at",
	"vehicle_type": "vehicle_type",
}

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// Create adds a new driver, assigning ID and timestamps from the database.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `INSERT INTO drivers (name, phone, vehicle_type, vehicle_plate, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING driver_id, created_at, updated_at`

	err := r.q.QueryRowContext(ctx, query,
		driver.Name, driver.Phone, driver.VehicleType, driver.VehiclePlate, driver.IsActive,
	).Scan(&driver.ID, &driver.CreatedAt, &driver.UpdatedAt)
	return mapConstraintError(err)
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id int64) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE driver_id = $1`

	var driver domain.Driver
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&driver.ID,
		&driver.Name,
		&driver.Phone,
		&driver.VehicleType,
		&driver.VehiclePlate,
		&driver.IsActive,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &driver, nil
}

// List retrieves drivers matching the filter plus the total match count.
func (r *DriverRepository) List(ctx context.Context, filter repository.ListFilter) ([]*domain.Driver, int, error) {
	where, args := buildWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM drivers` + where
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + driverColumns + ` FROM drivers` + where + orderClause(filter)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		var driver domain.Driver
		if err := rows.Scan(
			&driver.ID,
			&driver.Name,
			&driver.Phone,
			&driver.VehicleType,
			&driver.VehiclePlate,
			&driver.IsActive,
			&driver.CreatedAt,
			&driver.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		drivers = append(drivers, &driver)
	}
	return drivers, total, rows.Err()
}

// buildWhere translates a ListFilter into a WHERE clause and its arguments.
func buildWhere(filter repository.ListFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.VehicleType != "" {
		args = append(args, string(filter.VehicleType))
		conds = append(conds, fmt.Sprintf("vehicle_type = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR phone ILIKE $%d OR vehicle_plate ILIKE $%d)", n, n, n))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause returns the ORDER BY clause for the filter. Unknown columns
// fall back to driver_id; ties always break on driver_id DESC so pages are
// stable.
func orderClause(filter repository.ListFilter) string {
	col, ok := orderColumns[filter.OrderBy]
	if !ok {
		col = "driver_id"
	}
	dir := "ASC"
	if filter.Descending {
		dir = "DESC"
	}
	if col == "driver_id" {
		return fmt.Sprintf(" ORDER BY driver_id %s", dir)
	}
	return fmt.Sprintf(" ORDER BY %s %s, driver_id DESC", col, dir)
}

// Update rewrites all mutable fields of an existing driver.
func (r *DriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	query := `UPDATE drivers
		SET name = $1, phone = $2, vehicle_type = $3, vehicle_plate = $4, is_active = $5, updated_at = now()
		WHERE driver_id = $6
		RETURNING created_at, updated_at`

	err := r.q.QueryRowContext(ctx, query,
		driver.Name, driver.Phone, driver.VehicleType, driver.VehiclePlate, driver.IsActive, driver.ID,
	).Scan(&driver.CreatedAt, &driver.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		return mapConstraintError(err)
	}
	return nil
}

// SetActive updates the is_active flag of a driver.
func (r *DriverRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE drivers SET is_active = $1, updated_at = now() WHERE driver_id = $2`

	result, err := r.q.ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete permanently removes a driver.
func (r *DriverRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM drivers WHERE driver_id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// PhoneExists reports whether another driver already uses the phone.
func (r *DriverRepository) PhoneExists(ctx context.Context, phone string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM drivers WHERE phone = $1 AND driver_id <> $2)`

	var exists bool
	err := r.q.QueryRowContext(ctx, query, phone, excludeID).Scan(&exists)
	return exists, err
}

// PlateExists reports whether another driver already uses the vehicle plate.
// The plate must already be normalized.
func (r *DriverRepository) PlateExists(ctx context.Context, plate string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM drivers WHERE vehicle_plate = $1 AND driver_id <> $2)`

	var exists bool
	err := r.q.QueryRowContext(ctx, query, plate, excludeID).Scan(&exists)
	return exists, err
}

// Stats computes the aggregate counts over all drivers.
func (r *DriverRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{
		VehicleTypeDistribution:       make(map[string]int),
		ActiveVehicleTypeDistribution: make(map[string]int),
	}

	totals := `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM drivers`
	if err := r.q.QueryRowContext(ctx, totals).Scan(&stats.TotalDrivers, &stats.ActiveDrivers); err != nil {
		return nil, err
	}
	stats.InactiveDrivers = stats.TotalDrivers - stats.ActiveDrivers

	if err := r.scanTypeCounts(ctx,
		`SELECT vehicle_type, COUNT(*) FROM drivers GROUP BY vehicle_type`,
		stats.VehicleTypeDistribution); err != nil {
		return nil, err
	}
	if err := r.scanTypeCounts(ctx,
		`SELECT vehicle_type, COUNT(*) FROM drivers WHERE is_active GROUP BY vehicle_type`,
		stats.ActiveVehicleTypeDistribution); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *DriverRepository) scanTypeCounts(ctx context.Context, query string, dest map[string]int) error {
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var vehicleType string
		var count int
		if err := rows.Scan(&vehicleType, &count); err != nil {
			return err
		}
		dest[vehicleType] = count
	}
	return rows.Err()
}

// Upsert inserts the driver under its explicit ID, or updates the existing
// row. Used by the bulk importer, which owns driver_id assignment.
func (r *DriverRepository) Upsert(ctx context.Context, driver *domain.Driver) (bool, error) {
	query := `INSERT INTO drivers (driver_id, name, phone, vehicle_type, vehicle_plate, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (driver_id) DO UPDATE
		SET name = EXCLUDED.name,
		    phone = EXCLUDED.phone,
		    vehicle_type = EXCLUDED.vehicle_type,
		    vehicle_plate = EXCLUDED.vehicle_plate,
		    is_active = EXCLUDED.is_active,
		    updated_at = now()
		RETURNING (xmax = 0), created_at, updated_at`

	var created bool
	err := r.q.QueryRowContext(ctx, query,
		driver.ID, driver.Name, driver.Phone, driver.VehicleType, driver.VehiclePlate, driver.IsActive,
	).Scan(&created, &driver.CreatedAt, &driver.UpdatedAt)
	if err != nil {
		return false, mapConstraintError(err)
	}
	return created, nil
}

// DeleteAll removes every driver and returns the number removed.
func (r *DriverRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM drivers`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// SyncIDSequence realigns the driver_id sequence after explicit-ID inserts,
// so the next generated identifier lands above MAX(driver_id).
func (r *DriverRepository) SyncIDSequence(ctx context.Context) error {
	query := `SELECT setval(pg_get_serial_sequence('drivers', 'driver_id'),
		COALESCE(MAX(driver_id), 0) + 1, false) FROM drivers`
	_, err := r.q.ExecContext(ctx, query)
	return err
}

// mapConstraintError translates unique-constraint violations into the
// repository sentinels so a race lost at the database surfaces the same way
// a failed pre-check does.
func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if err == nil || !errors.As(err, &pqErr) {
		return err
	}
	if pqErr.Code != "23505" {
		return err
	}
	switch pqErr.Constraint {
	case "drivers_phone_key":
		return repository.ErrDuplicatePhone
	case "drivers_vehicle_plate_key":
		return repository.ErrDuplicatePlate
	}
	return err
}
