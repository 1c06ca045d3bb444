package domain

import "time"

// DriverActivation is a driver's live declaration of (vehicle, location).
// There is at most one per driver.
type DriverActivation struct {
	ID        string
	DriverID  string
	VehicleID string
	Latitude  float64
	Longitude float64
	UpdatedAt time.Time

	Vehicle *Vehicle
}

// NearbyDriver is one result of a proximity search.
type NearbyDriver struct {
	Activation *DriverActivation
	Vehicle    *Vehicle
	Driver     *User
	DistanceKm float64
}
