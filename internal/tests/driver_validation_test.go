package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/irkartik/driver-service/internal/service"
)

func TestCreateDriver_FieldValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		input     service.DriverInput
		wantField string
		wantMsg   string
	}{
		{
			name: "phone with letters",
			input: service.DriverInput{
				Name:         strPtr("Driver"),
				Phone:        strPtr("98765abcde"),
				VehicleType:  strPtr("Sedan"),
				VehiclePlate: strPtr("KA05XX0001"),
			},
			wantField: "phone",
			wantMsg:   "Phone number must contain only digits",
		},
		{
			name: "phone too short",
			input: service.DriverInput{
				Name:         strPtr("Driver"),
				Phone:        strPtr("12345"),
				VehicleType:  strPtr("Sedan"),
				VehiclePlate: strPtr("KA05XX0001"),
			},
			wantField: "phone",
			wantMsg:   "Phone number must be exactly 10 digits",
		},
		{
			name: "phone too long",
			input: service.DriverInput{
				Name:         strPtr("Driver"),
				Phone:        strPtr("98765432100"),
				VehicleType:  strPtr("Sedan"),
				VehiclePlate: strPtr("KA05XX0001"),
			},
			wantField: "phone",
			wantMsg:   "Phone number must be exactly 10 digits",
		},
		{
			name: "blank plate",
			input: service.DriverInput{
				Name:         strPtr("Driver"),
				Phone:        strPtr("9876543212"),
				VehicleType:  strPtr("Sedan"),
				VehiclePlate: strPtr("   "),
			},
			wantField: "vehicle_plate",
			wantMsg:   "Vehicle plate cannot be empty",
		},
		{
			name: "unknown vehicle type",
			input: service.DriverInput{
				Name:         strPtr("Driver"),
				Phone:        strPtr("9876543212"),
				VehicleType:  strPtr("Spaceship"),
				VehiclePlate: strPtr("KA05XX0001"),
			},
			wantField: "vehicle_type",
			wantMsg:   "Not a valid vehicle type",
		},
		{
			name: "missing name",
			input: service.DriverInput{
				Phone:        strPtr("9876543212"),
				VehicleType:  strPtr("Sedan"),
				VehiclePlate: strPtr("KA05XX0001"),
			},
			wantField: "name",
			wantMsg:   "This field is required",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := NewMockDriverRepository()
			svc := service.NewDriverService(repo)

			_, err := svc.Create(context.Background(), tc.input)

			var verr *service.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			msgs := verr.Fields[tc.wantField]
			if len(msgs) == 0 {
				t.Fatalf("expected an error on %s, got %v", tc.wantField, verr.Fields)
			}
			if msgs[0] != tc.wantMsg {
				t.Errorf("expected message %q, got %q", tc.wantMsg, msgs[0])
			}
			if repo.CreateCallCount != 0 {
				t.Error("expected no write for invalid input")
			}
		})
	}
}

func TestCreateDriver_VehicleTypeCaseInsensitive(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	svc := service.NewDriverService(repo)

	driver, err := svc.Create(context.Background(), service.DriverInput{
		Name:         strPtr("Driver"),
		Phone:        strPtr("9876543212"),
		VehicleType:  strPtr("sedan"),
		VehiclePlate: strPtr("KA05XX0001"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(driver.VehicleType) != "Sedan" {
		t.Errorf("expected canonical vehicle type Sedan, got %q", driver.VehicleType)
	}
}

func TestCreateDriver_ReportsAllInvalidFieldsAtOnce(t *testing.T) {
	t.Parallel()

	repo := NewMockDriverRepository()
	svc := service.NewDriverService(repo)

	_, err := svc.Create(context.Background(), service.DriverInput{
		Name:         strPtr("Driver"),
		Phone:        strPtr("bad"),
		VehicleType:  strPtr("Tractor"),
		VehiclePlate: strPtr(""),
	})

	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"phone", "vehicle_type", "vehicle_plate"} {
		if len(verr.Fields[field]) == 0 {
			t.Errorf("expected %s to be reported, got %v", field, verr.Fields)
		}
	}
}
