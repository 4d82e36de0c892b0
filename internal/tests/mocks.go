package tests

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/irkartik/driver-service/internal/domain"
	"github.com/irkartik/driver-service/internal/repository"
)

// MockDriverRepository is an in-memory implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[int64]*domain.Driver
	nextID  int64

	// Counters for verification
	CreateCallCount    int32
	UpdateCallCount    int32
	SetActiveCallCount int32
	UpsertCallCount    int32
	DeleteAllCallCount int32

	// Error injection
	CreateError error
	UpdateError error
	DeleteError error
	StatsError  error
	UpsertError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{drivers: make(map[int64]*domain.Driver)}
}

// AddDriver seeds a driver, assigning an ID when it has none.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if driver.ID == 0 {
		m.nextID++
		driver.ID = m.nextID
	} else if driver.ID > m.nextID {
		m.nextID = driver.ID
	}
	now := time.Now()
	if driver.CreatedAt.IsZero() {
		driver.CreatedAt = now
		driver.UpdatedAt = now
	}
	m.drivers[driver.ID] = driver
}

// GetDriver returns the stored driver for test assertions.
func (m *MockDriverRepository) GetDriver(id int64) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

// Len returns the number of stored drivers.
func (m *MockDriverRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.drivers)
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.drivers {
		if d.Phone == driver.Phone {
			return repository.ErrDuplicatePhone
		}
		if d.VehiclePlate == driver.VehiclePlate {
			return repository.ErrDuplicatePlate
		}
	}

	m.nextID++
	driver.ID = m.nextID
	now := time.Now()
	driver.CreatedAt = now
	driver.UpdatedAt = now
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id int64) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) List(ctx context.Context, filter repository.ListFilter) ([]*domain.Driver, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*domain.Driver
	for _, d := range m.drivers {
		if filter.IsActive != nil && d.IsActive != *filter.IsActive {
			continue
		}
		if filter.VehicleType != "" && d.VehicleType != filter.VehicleType {
			continue
		}
		if filter.Search != "" && !matchesSearch(d, filter.Search) {
			continue
		}
		copy := *d
		matched = append(matched, &copy)
	}

	sortDrivers(matched, filter.OrderBy, filter.Descending)
	total := len(matched)

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func matchesSearch(d *domain.Driver, search string) bool {
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(d.Name), s) ||
		strings.Contains(strings.ToLower(d.Phone), s) ||
		strings.Contains(strings.ToLower(d.VehiclePlate), s)
}

func sortDrivers(drivers []*domain.Driver, orderBy string, descending bool) {
	sort.Slice(drivers, func(i, j int) bool {
		a, b := drivers[i], drivers[j]
		if descending {
			a, b = b, a
		}
		switch orderBy {
		case "name":
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case "created_at":
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		case "vehicle_type":
			if a.VehicleType != b.VehicleType {
				return a.VehicleType < b.VehicleType
			}
		}
		return a.ID < b.ID
	})
}

func (m *MockDriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.drivers[driver.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, d := range m.drivers {
		if d.ID == driver.ID {
			continue
		}
		if d.Phone == driver.Phone {
			return repository.ErrDuplicatePhone
		}
		if d.VehiclePlate == driver.VehiclePlate {
			return repository.ErrDuplicatePlate
		}
	}

	driver.CreatedAt = existing.CreatedAt
	driver.UpdatedAt = touch(existing.UpdatedAt)
	stored := *driver
	m.drivers[driver.ID] = &stored
	return nil
}

func (m *MockDriverRepository) SetActive(ctx context.Context, id int64, active bool) error {
	atomic.AddInt32(&m.SetActiveCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.IsActive = active
	driver.UpdatedAt = touch(driver.UpdatedAt)
	return nil
}

func (m *MockDriverRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.drivers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.drivers, id)
	return nil
}

func (m *MockDriverRepository) PhoneExists(ctx context.Context, phone string, excludeID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drivers {
		if d.ID != excludeID && d.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockDriverRepository) PlateExists(ctx context.Context, plate string, excludeID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drivers {
		if d.ID != excludeID && d.VehiclePlate == plate {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockDriverRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	if m.StatsError != nil {
		return nil, m.StatsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &domain.Stats{
		VehicleTypeDistribution:       make(map[string]int),
		ActiveVehicleTypeDistribution: make(map[string]int),
	}
	for _, d := range m.drivers {
		stats.TotalDrivers++
		stats.VehicleTypeDistribution[string(d.VehicleType)]++
		if d.IsActive {
			stats.ActiveDrivers++
			stats.ActiveVehicleTypeDistribution[string(d.VehicleType)]++
		} else {
			stats.InactiveDrivers++
		}
	}
	return stats, nil
}

func (m *MockDriverRepository) Upsert(ctx context.Context, driver *domain.Driver) (bool, error) {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return false, m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.drivers {
		if d.ID == driver.ID {
			continue
		}
		if d.Phone == driver.Phone {
			return false, repository.ErrDuplicatePhone
		}
		if d.VehiclePlate == driver.VehiclePlate {
			return false, repository.ErrDuplicatePlate
		}
	}

	existing, ok := m.drivers[driver.ID]
	now := time.Now()
	if ok {
		driver.CreatedAt = existing.CreatedAt
		driver.UpdatedAt = touch(existing.UpdatedAt)
	} else {
		driver.CreatedAt = now
		driver.UpdatedAt = now
	}
	if driver.ID > m.nextID {
		m.nextID = driver.ID
	}
	stored := *driver
	m.drivers[driver.ID] = &stored
	return !ok, nil
}

func (m *MockDriverRepository) DeleteAll(ctx context.Context) (int64, error) {
	atomic.AddInt32(&m.DeleteAllCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := int64(len(m.drivers))
	m.drivers = make(map[int64]*domain.Driver)
	return removed, nil
}

func (m *MockDriverRepository) SyncIDSequence(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.drivers {
		if id > m.nextID {
			m.nextID = id
		}
	}
	return nil
}

// touch returns a timestamp strictly after prev so updated_at always
// advances, even within one clock tick.
func touch(prev time.Time) time.Time {
	now := time.Now()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

// Compile-time interface check.
var _ repository.DriverRepository = (*MockDriverRepository)(nil)
