package repository

import (
	"context"

	"citylift/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetByIDForUpdate retrieves a ride and locks its row for the rest of the
	// enclosing transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Ride, error)

	// GetAll retrieves all rides, newest first.
	GetAll(ctx context.Context) ([]*domain.Ride, error)

	// GetByUserID retrieves the rides requested by a user.
	GetByUserID(ctx context.Context, userID string) ([]*domain.Ride, error)

	// GetByVehicleDriverID retrieves rides on vehicles assigned to a driver.
	GetByVehicleDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error)

	// UpdateStatus sets the status of a ride.
	UpdateStatus(ctx context.Context, id string, status domain.RideStatus) error
}
