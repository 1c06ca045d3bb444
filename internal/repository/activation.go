package repository

import (
	"context"

	"citylift/internal/domain"
	"citylift/internal/geo"
)

// ActivationRepository defines the persistence operations for driver activations.
type ActivationRepository interface {
	// Upsert inserts the activation or overwrites the existing record for the
	// same driver. ID and UpdatedAt are filled from the stored row.
	Upsert(ctx context.Context, activation *domain.DriverActivation) error

	// GetByDriverID retrieves the activation of a driver.
	GetByDriverID(ctx context.Context, driverID string) (*domain.DriverActivation, error)

	// DeleteByDriverID removes the activation of a driver.
	DeleteByDriverID(ctx context.Context, driverID string) error

	// FindAvailableInBox returns activations inside box whose vehicle is
	// AVAILABLE, joined with the vehicle and the driver.
	FindAvailableInBox(ctx context.Context, box geo.BoundingBox) ([]*domain.NearbyDriver, error)
}
