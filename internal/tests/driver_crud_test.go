package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/irkartik/driver-service/internal/domain"
	"github.com/irkartik/driver-service/internal/service"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func seedTwoDrivers(repo *MockDriverRepository) {
	repo.AddDriver(&domain.Driver{
		Name:         "Driver One",
		Phone:        "9876543210",
		VehicleType:  domain.VehicleTypeSedan,
		VehiclePlate: "KA01AB1234",
		IsActive:     true,
	})
	repo.AddDriver(&domain.Driver{
		Name:         "Driver Two",
		Phone:        "9876543211",
		VehicleType:  domain.VehicleTypeSUV,
		VehiclePlate: "KA01AB1235",
		IsActive:     false,
	})
}

func TestCreateDriver_Defaults(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	svc := service.NewDriverService(repo)

	driver, err := svc.Create(context.Background(), service.DriverInput{
		Name:         strPtr("New Driver"),
		Phone:        strPtr("9876543212"),
		VehicleType:  strPtr("Bike"),
		VehiclePlate: strPtr("  ka01ab1236  "),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if driver.ID == 0 {
		t.Error("expected an assigned driver id")
	}
	if !driver.IsActive {
		t.Error("expected is_active to default to true")
	}
	if driver.VehiclePlate != "KA01AB1236" {
		t.Errorf("expected normalized plate KA01AB1236, got %q", driver.VehiclePlate)
	}
	if driver.CreatedAt.IsZero() || driver.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if driver.StatusLabel() != "Active" {
		t.Errorf("expected status label Active, got %q", driver.StatusLabel())
	}
}

func TestCreateDriver_DuplicatePhone(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	seedTwoDrivers(repo)
	svc := service.NewDriverService(repo)

	_, err := svc.Create(context.Background(), service.DriverInput{
		Name:         strPtr("Impostor"),
		Phone:        strPtr("9876543210"),
		VehicleType:  strPtr("Auto"),
		VehiclePlate: strPtr("KA99ZZ0001"),
	})

	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields["phone"]) == 0 {
		t.Errorf("expected a phone error, got %v", verr.Fields)
	}
	if repo.CreateCallCount != 0 {
		t.Error("expected no write for a rejected create")
	}
}

func TestCreateDriver_DuplicatePlateCaseInsensitive(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	seedTwoDrivers(repo)
	svc := service.NewDriverService(repo)

	// Differs only in case and surrounding whitespace.
	_, err := svc.Create(context.Background(), service.DriverInput{
		Name:         strPtr("Impostor"),
		Phone:        strPtr("9876543299"),
		VehicleType:  strPtr("Auto"),
		VehiclePlate: strPtr(" ka01ab1234 "),
	})

	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields["vehicle_plate"]) == 0 {
		t.Errorf("expected a vehicle_plate error, got %v", verr.Fields)
	}
}

func TestGetDriver_NotFound(t *testing.T) {
	t.Parallel()

	svc := service.NewDriverService(NewMockDriverRepository())

	_, err := svc.Get(context.Background(), 42)
	if !errors.Is(err, service.ErrDriverNotFound) {
		t.Fatalf("expected ErrDriverNotFound, got %v", err)
	}
}

func TestDeleteDriver(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	seedTwoDrivers(repo)
	svc := service.NewDriverService(repo)

	before := repo.Len()
	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Len() != before-1 {
		t.Errorf("expected count %d after delete, got %d", before-1, repo.Len())
	}

	if _, err := svc.Get(context.Background(), 1); !errors.Is(err, service.ErrDriverNotFound) {
		t.Errorf("expected ErrDriverNotFound after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), 1); !errors.Is(err, service.ErrDriverNotFound) {
		t.Errorf("expected ErrDriverNotFound on second delete, got %v", err)
	}
}

func TestUpdateDriver_FullRequiresAllFields(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	seedTwoDrivers(repo)
	svc := service.NewDriverService(repo)

	_, err := svc.Update(context.Background(), 1, service.DriverInput{
		Name: strPtr("Renamed"),
	}, false)

	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"phone", "vehicle_type", "vehicle_plate"} {
		if len(verr.Fields[field]) == 0 {
			t.Errorf("expected %s to be reported missing, got %v", field, verr.Fields)
		}
	}
}

func TestUpdateDriver_Full(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	seedTwoDrivers(repo)
	svc := service.NewDriverService(repo)

	driver, err := svc.Update(context.Background(), 1, service.DriverInput{
		Name:         strPtr("Updated Driver"),
		Phone:        strPtr("9876543210"), // own phone, allowed
		VehicleType:  strPtr("SUV"),
		VehiclePlate: strPtr("KA01AB1234"), // own plate, allowed
	}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if driver.Name != "Updated Driver" {
		t.Errorf("expected updated name, got %q", driver.Name)
	}
	if driver.VehicleType != domain.VehicleTypeSUV {
		t.Errorf("expected vehicle type SUV, got %q", driver.VehicleType)
	}
	if !driver.UpdatedAt.After(driver.CreatedAt) {
		t.Error("expected updated_at to advance past created_at")
	}
}

func TestPartialUpdate_RetainsAbsentFields(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	seedTwoDrivers(repo)
	svc := service.NewDriverService(repo)

	driver, err := svc.Update(context.Background(), 1, service.DriverInput{
		Name: strPtr("Just A Rename"),
	}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if driver.Name != "Just A Rename" {
		t.Errorf("expected renamed driver, got %q", driver.Name)
	}
	if driver.Phone != "9876543210" {
		t.Errorf("expected phone to be retained, got %q", driver.Phone)
	}
	if driver.VehicleType != domain.VehicleTypeSedan {
		t.Errorf("expected vehicle type to be retained, got %q", driver.VehicleType)
	}
	if !driver.IsActive {
		t.Error("expected is_active to be retained")
	}
}

func TestUpdateDriver_PhoneCollision(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	seedTwoDrivers(repo)
	svc := service.NewDriverService(repo)

	_, err := svc.Update(context.Background(), 2, service.DriverInput{
		Phone: strPtr("9876543210"), // belongs to driver 1
	}, true)

	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields["phone"]) == 0 {
		t.Errorf("expected a phone error, got %v", verr.Fields)
	}
}
