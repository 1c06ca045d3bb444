package tests

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"citylift/internal/domain"
	"citylift/internal/service"
)

// fixture wires every service over one shared set of mocks.
type fixture struct {
	vehicles    *MockVehicleRepository
	users       *MockUserRepository
	activations *MockActivationRepository
	rides       *MockRideRepository
	payments    *MockPaymentRepository
	tx          *MockTransactor
	locks       *MockLockStore
	cache       *MockNearbyCache
	publisher   *MockPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	vehicles := NewMockVehicleRepository()
	users := NewMockUserRepository()
	activations := NewMockActivationRepository(vehicles, users)
	rides := NewMockRideRepository(vehicles)
	payments := NewMockPaymentRepository()

	return &fixture{
		vehicles:    vehicles,
		users:       users,
		activations: activations,
		rides:       rides,
		payments:    payments,
		tx:          NewMockTransactor(vehicles, activations, rides, payments, users),
		locks:       NewMockLockStore(),
		cache:       NewMockNearbyCache(),
		publisher:   NewMockPublisher(),
	}
}

func (f *fixture) rideService(policy service.BookingPolicy) *service.RideService {
	return service.NewRideService(f.tx, f.rides, f.vehicles, f.cache, f.publisher, policy)
}

func (f *fixture) paymentService(policy service.BookingPolicy) *service.PaymentService {
	return service.NewPaymentService(f.tx, f.rides, f.payments, f.cache, f.publisher, policy)
}

func (f *fixture) activationService() *service.ActivationService {
	return service.NewActivationService(f.activations, f.vehicles, f.locks, f.cache, f.publisher)
}

func (f *fixture) matchingService(opts service.MatchingOptions) *service.MatchingService {
	return service.NewMatchingService(f.activations, f.cache, opts)
}

func (f *fixture) vehicleService() *service.VehicleService {
	return service.NewVehicleService(f.vehicles, f.users, f.cache)
}

func (f *fixture) addUser(role domain.UserRole) *domain.User {
	user := &domain.User{
		ID:        uuid.NewString(),
		Name:      "user " + string(role),
		Email:     uuid.NewString() + "@citylift.test",
		Role:      role,
		CreatedAt: time.Now(),
	}
	f.users.AddUser(user)
	return user
}

func (f *fixture) addVehicle(status domain.VehicleStatus) *domain.Vehicle {
	vehicle := &domain.Vehicle{
		ID:          uuid.NewString(),
		Type:        domain.VehicleTypeEBike,
		Name:        "Bike",
		PlateNumber: uuid.NewString()[:8],
		Status:      status,
		CreatedAt:   time.Now(),
	}
	f.vehicles.AddVehicle(vehicle)
	return vehicle
}

func (f *fixture) addRide(vehicleID string, status domain.RideStatus) *domain.Ride {
	ride := &domain.Ride{
		ID:            uuid.NewString(),
		UserID:        uuid.NewString(),
		VehicleID:     vehicleID,
		StartLocation: "Harbour",
		EndLocation:   "Old Town",
		Status:        status,
		CreatedAt:     time.Now(),
	}
	f.rides.AddRide(ride)
	return ride
}

func ptr(f float64) *float64 {
	return &f
}
