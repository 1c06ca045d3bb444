package service

import "errors"

// Invalid input.
var (
	// ErrMissingFields is returned when a required field is empty.
	ErrMissingFields = errors.New("missing required fields")

	// ErrMissingCoordinates is returned when latitude or longitude is absent.
	ErrMissingCoordinates = errors.New("latitude and longitude are required")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidRadius is returned when a search radius is negative or not finite.
	ErrInvalidRadius = errors.New("invalid radius")

	// ErrInvalidDistance is returned when a distance is negative or not finite.
	ErrInvalidDistance = errors.New("invalid distance")

	// ErrInvalidVehicleID is returned when a vehicle ID is not a UUID.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrInvalidDriverID is returned when a driver ID is not a UUID.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidUserID is returned when a user ID is not a UUID.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidRideID is returned when a ride ID is not a UUID.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidRideStatus is returned for a status outside the ride lifecycle.
	ErrInvalidRideStatus = errors.New("invalid ride status")

	// ErrInvalidFare is returned when a ride fare is not positive.
	ErrInvalidFare = errors.New("invalid fare")

	// ErrInvalidPaymentAmount is returned when payment amount is invalid.
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")

	// ErrInvalidPaymentMethod is returned when payment method is invalid.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidVehicleType is returned for an unknown vehicle type.
	ErrInvalidVehicleType = errors.New("invalid vehicle type")

	// ErrInvalidVehicleStatus is returned for an unknown vehicle status.
	ErrInvalidVehicleStatus = errors.New("invalid vehicle status")

	// ErrTargetNotDriver is returned when a vehicle is assigned to a non-driver.
	ErrTargetNotDriver = errors.New("target user must be a driver")
)

// Conflicting state.
var (
	// ErrInvalidTransition is returned when the ride lifecycle forbids a move.
	ErrInvalidTransition = errors.New("invalid ride status transition")

	// ErrVehicleUnavailable is returned when a vehicle cannot be claimed.
	ErrVehicleUnavailable = errors.New("vehicle not available")

	// ErrActivationInProgress is returned while another activation for the
	// same driver holds the lock.
	ErrActivationInProgress = errors.New("activation already in progress")
)

// Collaborators.
var (
	// ErrGeocoderUnavailable is returned when no geocoder is configured.
	ErrGeocoderUnavailable = errors.New("geocoding not available")

	// ErrLocationNotFound is returned when an address cannot be resolved.
	ErrLocationNotFound = errors.New("location not found")
)
