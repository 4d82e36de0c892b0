package tests

import (
	"context"
	"testing"

	"github.com/irkartik/driver-service/internal/domain"
	"github.com/irkartik/driver-service/internal/service"
)

func TestStats_SeededScenario(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	seedTwoDrivers(repo)
	svc := service.NewDriverService(repo)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalDrivers != 2 {
		t.Errorf("expected total_drivers=2, got %d", stats.TotalDrivers)
	}
	if stats.ActiveDrivers != 1 {
		t.Errorf("expected active_drivers=1, got %d", stats.ActiveDrivers)
	}
	if stats.InactiveDrivers != 1 {
		t.Errorf("expected inactive_drivers=1, got %d", stats.InactiveDrivers)
	}
	if stats.VehicleTypeDistribution["Sedan"] != 1 || stats.VehicleTypeDistribution["SUV"] != 1 {
		t.Errorf("unexpected distribution: %v", stats.VehicleTypeDistribution)
	}
	if stats.ActiveVehicleTypeDistribution["Sedan"] != 1 {
		t.Errorf("expected one active Sedan, got %v", stats.ActiveVehicleTypeDistribution)
	}
	if stats.ActiveVehicleTypeDistribution["SUV"] != 0 {
		t.Errorf("expected no active SUV, got %v", stats.ActiveVehicleTypeDistribution)
	}
}

func TestStats_TotalsAlwaysConsistent(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	svc := service.NewDriverService(repo)

	phones := []string{"9000000001", "9000000002", "9000000003", "9000000004", "9000000005"}
	types := []domain.VehicleType{
		domain.VehicleTypeBike,
		domain.VehicleTypeAuto,
		domain.VehicleTypeAuto,
		domain.VehicleTypeSedan,
		domain.VehicleTypeSUV,
	}
	for i, phone := range phones {
		repo.AddDriver(&domain.Driver{
			Name:         "Driver",
			Phone:        phone,
			VehicleType:  types[i],
			VehiclePlate: domain.NormalizePlate("ka" + phone[4:]),
			IsActive:     i%2 == 0,
		})
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.ActiveDrivers+stats.InactiveDrivers != stats.TotalDrivers {
		t.Errorf("active(%d) + inactive(%d) != total(%d)",
			stats.ActiveDrivers, stats.InactiveDrivers, stats.TotalDrivers)
	}

	sum := 0
	for _, n := range stats.VehicleTypeDistribution {
		sum += n
	}
	if sum != stats.TotalDrivers {
		t.Errorf("vehicle type distribution sums to %d, want %d", sum, stats.TotalDrivers)
	}
	if stats.VehicleTypeDistribution["Auto"] != 2 {
		t.Errorf("expected two Autos, got %v", stats.VehicleTypeDistribution)
	}
}

func TestListByStatus_Filters(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	seedTwoDrivers(repo)
	svc := service.NewDriverService(repo)

	page, err := svc.ListByStatus(context.Background(), true, service.ListQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Count != 1 || len(page.Drivers) != 1 {
		t.Fatalf("expected exactly one active driver, got count=%d len=%d", page.Count, len(page.Drivers))
	}
	if page.Drivers[0].Name != "Driver One" {
		t.Errorf("expected Driver One, got %q", page.Drivers[0].Name)
	}
}

func TestList_OrderingAndPagination(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	seedTwoDrivers(repo)
	svc := service.NewDriverService(repo)

	// Default order is driver_id descending.
	page, err := svc.List(context.Background(), service.ListQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Drivers[0].ID != 2 {
		t.Errorf("expected newest driver first, got id %d", page.Drivers[0].ID)
	}

	// Explicit ascending name order.
	page, err = svc.List(context.Background(), service.ListQuery{Ordering: "name"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Drivers[0].Name != "Driver One" {
		t.Errorf("expected Driver One first when ordering by name, got %q", page.Drivers[0].Name)
	}

	// Page past the end is empty but keeps the total.
	page, err = svc.List(context.Background(), service.ListQuery{Page: 3, PageSize: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Count != 2 || len(page.Drivers) != 0 {
		t.Errorf("expected count=2 with no results, got count=%d len=%d", page.Count, len(page.Drivers))
	}
}

func TestList_Search(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	seedTwoDrivers(repo)
	svc := service.NewDriverService(repo)

	page, err := svc.List(context.Background(), service.ListQuery{Search: "1235"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Count != 1 || page.Drivers[0].Name != "Driver Two" {
		t.Fatalf("expected search to match Driver Two's plate, got %+v", page)
	}
}

func TestListByVehicleType(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	seedTwoDrivers(repo)
	svc := service.NewDriverService(repo)

	if _, err := svc.ListByVehicleType(context.Background(), "", service.ListQuery{}); err != service.ErrVehicleTypeRequired {
		t.Fatalf("expected ErrVehicleTypeRequired, got %v", err)
	}

	// Case-insensitive match.
	page, err := svc.ListByVehicleType(context.Background(), "sedan", service.ListQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Count != 1 || page.Drivers[0].VehicleType != domain.VehicleTypeSedan {
		t.Fatalf("expected one Sedan, got %+v", page)
	}

	// Unknown type matches nothing rather than failing.
	page, err = svc.ListByVehicleType(context.Background(), "Spaceship", service.ListQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Count != 0 {
		t.Errorf("expected no matches for an unknown type, got %d", page.Count)
	}
}
