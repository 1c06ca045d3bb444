package service

// BookingPolicy selects between the hardened booking rules and the permissive
// behavior older clients rely on.
type BookingPolicy struct {
	// StrictTransitions enforces the ride lifecycle graph and claims vehicles
	// with a conditional update.
	StrictTransitions bool

	// RequireAvailableVehicle rejects ride creation against a vehicle that is
	// not AVAILABLE.
	RequireAvailableVehicle bool
}

// DefaultBookingPolicy returns the hardened policy.
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		StrictTransitions:       true,
		RequireAvailableVehicle: true,
	}
}

// CompatBookingPolicy returns the permissive policy.
func CompatBookingPolicy() BookingPolicy {
	return BookingPolicy{}
}
