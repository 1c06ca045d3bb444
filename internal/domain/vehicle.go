package domain

import "time"

// VehicleType represents the category of a micro-mobility vehicle.
type VehicleType string

const (
	VehicleTypeCableCar VehicleType = "CABLE_CAR"
	VehicleTypeEBike    VehicleType = "E_BIKE"
	VehicleTypeEScooter VehicleType = "E_SCOOTER"
)

// VehicleStatus represents the availability of a vehicle.
type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusInUse       VehicleStatus = "IN_USE"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
)

// Vehicle is the anchor entity for availability. Its status is the single
// source of truth for whether it can be matched or booked.
type Vehicle struct {
	ID          string
	Type        VehicleType
	Name        string
	PlateNumber string
	Status      VehicleStatus
	DriverID    string // Empty when unassigned
	CreatedAt   time.Time
}

// IsValid reports whether t is a known vehicle type.
func (t VehicleType) IsValid() bool {
	switch t {
	case VehicleTypeCableCar, VehicleTypeEBike, VehicleTypeEScooter:
		return true
	}
	return false
}

// IsValid reports whether s is a known vehicle status.
func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusInUse, VehicleStatusMaintenance:
		return true
	}
	return false
}
