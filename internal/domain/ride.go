package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusPending   RideStatus = "PENDING"
	RideStatusActive    RideStatus = "ACTIVE"
	RideStatusCompleted RideStatus = "COMPLETED"
	RideStatusCancelled RideStatus = "CANCELLED"
)

// Ride represents a booking of a vehicle by a user.
type Ride struct {
	ID            string
	UserID        string
	VehicleID     string
	StartLocation string
	EndLocation   string
	Fare          decimal.Decimal // Fixed at creation
	Status        RideStatus
	CreatedAt     time.Time
}

// rideTransitions is the ride lifecycle graph. Terminal states have no entry.
var rideTransitions = map[RideStatus][]RideStatus{
	RideStatusPending: {RideStatusActive, RideStatusCancelled},
	RideStatusActive:  {RideStatusCompleted, RideStatusCancelled},
}

// IsValid reports whether s is one of the four known statuses.
func (s RideStatus) IsValid() bool {
	switch s {
	case RideStatusPending, RideStatusActive, RideStatusCompleted, RideStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted from s.
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// CanTransition reports whether the lifecycle graph allows from -> to.
func CanTransition(from, to RideStatus) bool {
	for _, next := range rideTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
