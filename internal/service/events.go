package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"citylift/internal/domain"
)

// Routing keys for domain events.
const (
	EventRideCreated       = "ride.created"
	EventRideStatusPrefix  = "ride.status."
	EventPaymentRecorded   = "payment.recorded"
	EventDriverActivated   = "driver.activated"
	EventDriverDeactivated = "driver.deactivated"
)

// EventPublisher delivers domain events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

// Publish implements EventPublisher.
func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

// RideEvent is published on ride creation and every status change.
type RideEvent struct {
	RideID         string            `json:"ride_id"`
	UserID         string            `json:"user_id"`
	VehicleID      string            `json:"vehicle_id"`
	Status         domain.RideStatus `json:"status"`
	PreviousStatus domain.RideStatus `json:"previous_status,omitempty"`
	Fare           decimal.Decimal   `json:"fare"`
	VehicleClaimed bool              `json:"vehicle_claimed,omitempty"`
	VehicleFreed   bool              `json:"vehicle_freed,omitempty"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

// PaymentEvent is published when a payment is recorded.
type PaymentEvent struct {
	PaymentID  string               `json:"payment_id"`
	RideID     string               `json:"ride_id"`
	UserID     string               `json:"user_id"`
	VehicleID  string               `json:"vehicle_id"`
	Amount     decimal.Decimal      `json:"amount"`
	Method     domain.PaymentMethod `json:"method"`
	Created    bool                 `json:"created"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// DriverEvent is published on activation and deactivation.
type DriverEvent struct {
	DriverID   string    `json:"driver_id"`
	VehicleID  string    `json:"vehicle_id,omitempty"`
	Latitude   float64   `json:"latitude,omitempty"`
	Longitude  float64   `json:"longitude,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return NoopPublisher{}
	}
	return p
}
