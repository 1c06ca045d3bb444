package repository

import (
	"context"

	"citylift/internal/domain"
)

// VehicleRepository defines the persistence operations for vehicles.
type VehicleRepository interface {
	// Create persists a new vehicle. Returns ErrConflict on a duplicate plate.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID retrieves a vehicle by ID.
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)

	// GetAll retrieves all vehicles, newest first.
	GetAll(ctx context.Context) ([]*domain.Vehicle, error)

	// GetByDriverID retrieves the vehicles assigned to a driver.
	GetByDriverID(ctx context.Context, driverID string) ([]*domain.Vehicle, error)

	// Update overwrites name, type, plate, status and driver of a vehicle.
	Update(ctx context.Context, vehicle *domain.Vehicle) error

	// UpdateStatus sets the status unconditionally.
	UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error

	// TransitionStatus sets the status to `to` only if it is currently `from`.
	// It reports whether the row changed; a missing vehicle is ErrNotFound.
	TransitionStatus(ctx context.Context, id string, from, to domain.VehicleStatus) (bool, error)

	// Delete removes a vehicle.
	Delete(ctx context.Context, id string) error
}
