package repository

import (
	"context"

	"citylift/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Upsert creates the payment for (RideID, UserID) or updates amount and
	// method of the existing one. It reports whether a new row was created.
	Upsert(ctx context.Context, payment *domain.Payment) (bool, error)

	// GetByUserID retrieves all payments made by a user.
	GetByUserID(ctx context.Context, userID string) ([]*domain.Payment, error)

	// GetByRideID retrieves all payments recorded for a ride.
	GetByRideID(ctx context.Context, rideID string) ([]*domain.Payment, error)
}
