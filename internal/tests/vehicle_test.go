package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"citylift/internal/domain"
	"citylift/internal/repository"
	"citylift/internal/service"
)

func TestVehicle_Create(t *testing.T) {
	f := newFixture(t)
	vehicleService := f.vehicleService()

	vehicle, err := vehicleService.Create(context.Background(), service.CreateVehicleRequest{
		Type:        domain.VehicleTypeCableCar,
		Name:        " Gondola 4 ",
		PlateNumber: "CC-004",
		Status:      domain.VehicleStatusAvailable,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vehicle.Name != "Gondola 4" || vehicle.DriverID != "" {
		t.Errorf("unexpected vehicle: %+v", vehicle)
	}

	_, err = vehicleService.Create(context.Background(), service.CreateVehicleRequest{
		Type:        domain.VehicleTypeEBike,
		Name:        "Other",
		PlateNumber: "CC-004",
		Status:      domain.VehicleStatusAvailable,
	})
	if !errors.Is(err, repository.ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate plate, got %v", err)
	}
}

func TestVehicle_Create_InvalidInput(t *testing.T) {
	f := newFixture(t)
	vehicleService := f.vehicleService()

	testCases := []struct {
		name    string
		req     service.CreateVehicleRequest
		wantErr error
	}{
		{"missing name", service.CreateVehicleRequest{Type: domain.VehicleTypeEBike, PlateNumber: "P", Status: domain.VehicleStatusAvailable}, service.ErrMissingFields},
		{"unknown type", service.CreateVehicleRequest{Type: "TRAM", Name: "n", PlateNumber: "P", Status: domain.VehicleStatusAvailable}, service.ErrInvalidVehicleType},
		{"unknown status", service.CreateVehicleRequest{Type: domain.VehicleTypeEBike, Name: "n", PlateNumber: "P", Status: "BROKEN"}, service.ErrInvalidVehicleStatus},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := vehicleService.Create(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestVehicle_Assign(t *testing.T) {
	f := newFixture(t)
	driver := f.addUser(domain.UserRoleDriver)
	rider := f.addUser(domain.UserRoleUser)
	vehicle := f.addVehicle(domain.VehicleStatusAvailable)
	vehicleService := f.vehicleService()

	if _, err := vehicleService.Assign(context.Background(), vehicle.ID, rider.ID); !errors.Is(err, service.ErrTargetNotDriver) {
		t.Errorf("expected ErrTargetNotDriver for a rider, got %v", err)
	}
	if _, err := vehicleService.Assign(context.Background(), vehicle.ID, uuid.NewString()); !errors.Is(err, service.ErrTargetNotDriver) {
		t.Errorf("expected ErrTargetNotDriver for an unknown user, got %v", err)
	}
	if _, err := vehicleService.Assign(context.Background(), uuid.NewString(), driver.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unknown vehicle, got %v", err)
	}

	assigned, err := vehicleService.Assign(context.Background(), vehicle.ID, driver.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assigned.DriverID != driver.ID {
		t.Errorf("expected driver %s, got %s", driver.ID, assigned.DriverID)
	}

	got, err := vehicleService.GetAssignedTo(context.Background(), driver.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != vehicle.ID {
		t.Errorf("expected vehicle %s, got %s", vehicle.ID, got.ID)
	}

	if _, err := vehicleService.GetAssignedTo(context.Background(), rider.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound without assignment, got %v", err)
	}
}

func TestVehicle_Update_KeepsEmptyFields(t *testing.T) {
	f := newFixture(t)
	vehicle := f.addVehicle(domain.VehicleStatusAvailable)

	updated, err := f.vehicleService().Update(context.Background(), service.UpdateVehicleRequest{
		ID:   vehicle.ID,
		Name: "Renamed",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Renamed" || updated.PlateNumber != vehicle.PlateNumber || updated.Status != vehicle.Status {
		t.Errorf("unexpected vehicle: %+v", updated)
	}
	if f.cache.InvalidateCount != 0 {
		t.Error("a rename must not invalidate proximity results")
	}
}

func TestVehicle_StatusChange_InvalidatesCache(t *testing.T) {
	f := newFixture(t)
	vehicle := f.addVehicle(domain.VehicleStatusAvailable)

	_, err := f.vehicleService().Update(context.Background(), service.UpdateVehicleRequest{
		ID:     vehicle.ID,
		Status: domain.VehicleStatusMaintenance,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.vehicles.GetVehicle(vehicle.ID).Status != domain.VehicleStatusMaintenance {
		t.Error("status not stored")
	}
	if f.cache.InvalidateCount != 1 {
		t.Errorf("expected 1 invalidation, got %d", f.cache.InvalidateCount)
	}
}

func TestVehicle_Delete(t *testing.T) {
	f := newFixture(t)
	vehicle := f.addVehicle(domain.VehicleStatusAvailable)
	vehicleService := f.vehicleService()

	if err := vehicleService.Delete(context.Background(), vehicle.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := vehicleService.Get(context.Background(), vehicle.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := vehicleService.Delete(context.Background(), vehicle.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}

	f.vehicles.DeleteError = repository.ErrConflict
	other := f.addVehicle(domain.VehicleStatusAvailable)
	if err := vehicleService.Delete(context.Background(), other.ID); !errors.Is(err, repository.ErrConflict) {
		t.Errorf("expected ErrConflict for a referenced vehicle, got %v", err)
	}
}
