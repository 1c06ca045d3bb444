package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"citylift/internal/domain"
	"citylift/internal/geo"
	"citylift/internal/redis"
	"citylift/internal/repository"
	"citylift/internal/service"
)

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle

	// Counters for verification
	UpdateStatusCallCount     int32
	TransitionStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
	DeleteError       error
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]*domain.Vehicle),
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *vehicle
	m.vehicles[vehicle.ID] = &copy
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.vehicles {
		if v.PlateNumber == vehicle.PlateNumber {
			return repository.ErrConflict
		}
	}
	copy := *vehicle
	m.vehicles[vehicle.ID] = &copy
	return nil
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *vehicle
	return &copy, nil
}

func (m *MockVehicleRepository) GetAll(ctx context.Context) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		copy := *v
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockVehicleRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Vehicle
	for _, v := range m.vehicles {
		if v.DriverID == driverID {
			copy := *v
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[vehicle.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, v := range m.vehicles {
		if id != vehicle.ID && v.PlateNumber == vehicle.PlateNumber {
			return repository.ErrConflict
		}
	}
	copy := *vehicle
	m.vehicles[vehicle.ID] = &copy
	return nil
}

func (m *MockVehicleRepository) UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return repository.ErrNotFound
	}
	vehicle.Status = status
	return nil
}

func (m *MockVehicleRepository) TransitionStatus(ctx context.Context, id string, from, to domain.VehicleStatus) (bool, error) {
	atomic.AddInt32(&m.TransitionStatusCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if vehicle.Status != from {
		return false, nil
	}
	vehicle.Status = to
	return true, nil
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.vehicles, id)
	return nil
}

// GetVehicle returns vehicle for test assertions.
func (m *MockVehicleRepository) GetVehicle(id string) *domain.Vehicle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vehicles[id]
}

func (m *MockVehicleRepository) snapshot() func() {
	m.mu.RLock()
	saved := make(map[string]domain.Vehicle, len(m.vehicles))
	for id, v := range m.vehicles {
		saved[id] = *v
	}
	m.mu.RUnlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.vehicles = make(map[string]*domain.Vehicle, len(saved))
		for id, v := range saved {
			v := v
			m.vehicles[id] = &v
		}
	}
}

// ──────────────────────────────────────────────
// MOCK ACTIVATION REPOSITORY
// ──────────────────────────────────────────────

// MockActivationRepository is a mock implementation of ActivationRepository.
// FindAvailableInBox joins against the given vehicle and user mocks.
type MockActivationRepository struct {
	mu          sync.RWMutex
	activations map[string]*domain.DriverActivation // By driver ID
	vehicles    *MockVehicleRepository
	users       *MockUserRepository

	// Counters for verification
	UpsertCallCount int32
	FindCallCount   int32

	// Error injection
	FindError error

	// LastBox is the box of the most recent search.
	LastBox geo.BoundingBox
}

// NewMockActivationRepository creates a new mock activation repository.
func NewMockActivationRepository(vehicles *MockVehicleRepository, users *MockUserRepository) *MockActivationRepository {
	return &MockActivationRepository{
		activations: make(map[string]*domain.DriverActivation),
		vehicles:    vehicles,
		users:       users,
	}
}

func (m *MockActivationRepository) Upsert(ctx context.Context, activation *domain.DriverActivation) error {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.activations[activation.DriverID]; ok {
		activation.ID = existing.ID
	}
	activation.UpdatedAt = time.Now()
	copy := *activation
	copy.Vehicle = nil
	m.activations[activation.DriverID] = &copy
	return nil
}

func (m *MockActivationRepository) GetByDriverID(ctx context.Context, driverID string) (*domain.DriverActivation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	activation, ok := m.activations[driverID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *activation
	return &copy, nil
}

func (m *MockActivationRepository) DeleteByDriverID(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.activations[driverID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.activations, driverID)
	return nil
}

func (m *MockActivationRepository) FindAvailableInBox(ctx context.Context, box geo.BoundingBox) ([]*domain.NearbyDriver, error) {
	atomic.AddInt32(&m.FindCallCount, 1)
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.Lock()
	m.LastBox = box
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.NearbyDriver
	for _, a := range m.activations {
		if !box.Contains(geo.Point{Lat: a.Latitude, Lng: a.Longitude}) {
			continue
		}
		vehicle, err := m.vehicles.GetByID(ctx, a.VehicleID)
		if err != nil || vehicle.Status != domain.VehicleStatusAvailable {
			continue
		}
		driver := &domain.User{ID: a.DriverID, Role: domain.UserRoleDriver}
		if m.users != nil {
			if u, err := m.users.GetByID(ctx, a.DriverID); err == nil {
				driver = u
			}
		}
		activation := *a
		result = append(result, &domain.NearbyDriver{
			Activation: &activation,
			Vehicle:    vehicle,
			Driver:     driver,
		})
	}
	// Unordered like the SQL query; make it deterministic for tests.
	sort.Slice(result, func(i, j int) bool {
		return result[i].Activation.DriverID > result[j].Activation.DriverID
	})
	return result, nil
}

// CountActivations returns the number of stored activations.
func (m *MockActivationRepository) CountActivations() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.activations)
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mu       sync.RWMutex
	rides    map[string]*domain.Ride
	vehicles *MockVehicleRepository

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockRideRepository creates a new mock ride repository. vehicles backs
// GetByVehicleDriverID and may be nil.
func NewMockRideRepository(vehicles *MockVehicleRepository) *MockRideRepository {
	return &MockRideRepository{
		rides:    make(map[string]*domain.Ride),
		vehicles: vehicles,
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides[ride.ID] = &copy
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vehicles != nil && m.vehicles.GetVehicle(ride.VehicleID) == nil {
		return repository.ErrNotFound
	}
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Ride, error) {
	return m.GetByID(ctx, id)
}

func (m *MockRideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	return m.filter(func(*domain.Ride) bool { return true }), nil
}

func (m *MockRideRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Ride, error) {
	return m.filter(func(r *domain.Ride) bool { return r.UserID == userID }), nil
}

func (m *MockRideRepository) GetByVehicleDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	return m.filter(func(r *domain.Ride) bool {
		if m.vehicles == nil {
			return false
		}
		v := m.vehicles.GetVehicle(r.VehicleID)
		return v != nil && v.DriverID == driverID
	}), nil
}

func (m *MockRideRepository) UpdateStatus(ctx context.Context, id string, status domain.RideStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return repository.ErrNotFound
	}
	ride.Status = status
	return nil
}

func (m *MockRideRepository) filter(keep func(*domain.Ride) bool) []*domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0)
	for _, r := range m.rides {
		if keep(r) {
			copy := *r
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// GetRide returns ride for test assertions.
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// CountRides returns the number of stored rides.
func (m *MockRideRepository) CountRides() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rides)
}

func (m *MockRideRepository) snapshot() func() {
	m.mu.RLock()
	saved := make(map[string]domain.Ride, len(m.rides))
	for id, r := range m.rides {
		saved[id] = *r
	}
	m.mu.RUnlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.rides = make(map[string]*domain.Ride, len(saved))
		for id, r := range saved {
			r := r
			m.rides[id] = &r
		}
	}
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

type paymentKey struct {
	rideID string
	userID string
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[paymentKey]*domain.Payment

	// Counters for verification
	UpsertCallCount int32

	// Error injection
	UpsertError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[paymentKey]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Upsert(ctx context.Context, payment *domain.Payment) (bool, error) {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return false, m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := paymentKey{rideID: payment.RideID, userID: payment.UserID}
	if existing, ok := m.payments[key]; ok {
		existing.Amount = payment.Amount
		existing.Method = payment.Method
		payment.ID = existing.ID
		payment.CreatedAt = existing.CreatedAt
		return false, nil
	}
	copy := *payment
	m.payments[key] = &copy
	return true, nil
}

func (m *MockPaymentRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Payment, error) {
	return m.filter(func(p *domain.Payment) bool { return p.UserID == userID }), nil
}

func (m *MockPaymentRepository) GetByRideID(ctx context.Context, rideID string) ([]*domain.Payment, error) {
	return m.filter(func(p *domain.Payment) bool { return p.RideID == rideID }), nil
}

func (m *MockPaymentRepository) filter(keep func(*domain.Payment) bool) []*domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Payment, 0)
	for _, p := range m.payments {
		if keep(p) {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result
}

// CountPayments returns the number of stored payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

func (m *MockPaymentRepository) snapshot() func() {
	m.mu.RLock()
	saved := make(map[paymentKey]domain.Payment, len(m.payments))
	for k, p := range m.payments {
		saved[k] = *p
	}
	m.mu.RUnlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.payments = make(map[paymentKey]*domain.Payment, len(saved))
		for k, p := range saved {
			p := p
			m.payments[k] = &p
		}
	}
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *user
	m.users[user.ID] = &copy
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK TRANSACTOR
// ──────────────────────────────────────────────

// MockTransactor runs fn against the mock repositories and restores their
// state when fn fails.
type MockTransactor struct {
	Repos repository.Repositories

	vehicles *MockVehicleRepository
	rides    *MockRideRepository
	payments *MockPaymentRepository

	// Counters for verification
	CommitCount   int32
	RollbackCount int32
}

// NewMockTransactor creates a transactor over the given mocks.
func NewMockTransactor(
	vehicles *MockVehicleRepository,
	activations *MockActivationRepository,
	rides *MockRideRepository,
	payments *MockPaymentRepository,
	users *MockUserRepository,
) *MockTransactor {
	return &MockTransactor{
		Repos: repository.Repositories{
			Vehicles:    vehicles,
			Activations: activations,
			Rides:       rides,
			Payments:    payments,
			Users:       users,
		},
		vehicles: vehicles,
		rides:    rides,
		payments: payments,
	}
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	var restores []func()
	if m.vehicles != nil {
		restores = append(restores, m.vehicles.snapshot())
	}
	if m.rides != nil {
		restores = append(restores, m.rides.snapshot())
	}
	if m.payments != nil {
		restores = append(restores, m.payments.snapshot())
	}

	if err := fn(m.Repos); err != nil {
		atomic.AddInt32(&m.RollbackCount, 1)
		for _, restore := range restores {
			restore()
		}
		return err
	}
	atomic.AddInt32(&m.CommitCount, 1)
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireActivationLock(ctx context.Context, driverID string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[driverID] {
		return false, nil
	}
	m.locks[driverID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseActivationLock(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, driverID)
	return nil
}

// IsLocked reports whether driverID holds the activation lock.
func (m *MockLockStore) IsLocked(driverID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locks[driverID]
}

// ──────────────────────────────────────────────
// MOCK NEARBY CACHE
// ──────────────────────────────────────────────

// MockNearbyCache is a mock implementation of NearbyCacheInterface.
type MockNearbyCache struct {
	mu         sync.Mutex
	generation int64
	entries    map[string][]*domain.NearbyDriver

	// Counters for verification
	HitCount        int32
	InvalidateCount int32

	// Error injection
	GetError error
}

// NewMockNearbyCache creates a new mock nearby cache.
func NewMockNearbyCache() *MockNearbyCache {
	return &MockNearbyCache{
		entries: make(map[string][]*domain.NearbyDriver),
	}
}

func (m *MockNearbyCache) NearbyGeneration(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation, nil
}

func (m *MockNearbyCache) GetNearby(ctx context.Context, key redis.NearbyKey) ([]*domain.NearbyDriver, bool, error) {
	if m.GetError != nil {
		return nil, false, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	results, ok := m.entries[key.String()]
	if ok {
		atomic.AddInt32(&m.HitCount, 1)
	}
	return results, ok, nil
}

func (m *MockNearbyCache) SetNearby(ctx context.Context, key redis.NearbyKey, results []*domain.NearbyDriver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key.String()] = results
	return nil
}

func (m *MockNearbyCache) InvalidateNearby(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	return nil
}

// ──────────────────────────────────────────────
// MOCK PUBLISHER
// ──────────────────────────────────────────────

// PublishedEvent is one call to MockPublisher.Publish.
type PublishedEvent struct {
	RoutingKey string
	Payload    any
}

// MockPublisher records published events.
type MockPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent

	// Error injection
	PublishError error
}

// NewMockPublisher creates a new mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{RoutingKey: routingKey, Payload: payload})
	return m.PublishError
}

// RoutingKeys returns the routing keys published so far, in order.
func (m *MockPublisher) RoutingKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, len(m.events))
	for i, e := range m.events {
		keys[i] = e.RoutingKey
	}
	return keys
}

// Events returns the published events, in order.
func (m *MockPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedEvent(nil), m.events...)
}

// ──────────────────────────────────────────────
// MOCK GEOCODER
// ──────────────────────────────────────────────

// MockGeocoder resolves addresses from a fixed table.
type MockGeocoder struct {
	Points map[string]geo.Point

	// Error injection
	Error error
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (geo.Point, error) {
	if m.Error != nil {
		return geo.Point{}, m.Error
	}
	p, ok := m.Points[address]
	if !ok {
		return geo.Point{}, service.ErrLocationNotFound
	}
	return p, nil
}

// ErrMockFailure is a generic injected failure.
var ErrMockFailure = errors.New("mock failure")

// Ensure mocks implement interfaces.
var (
	_ repository.VehicleRepository    = (*MockVehicleRepository)(nil)
	_ repository.ActivationRepository = (*MockActivationRepository)(nil)
	_ repository.RideRepository       = (*MockRideRepository)(nil)
	_ repository.PaymentRepository    = (*MockPaymentRepository)(nil)
	_ repository.UserRepository       = (*MockUserRepository)(nil)
	_ repository.Transactor           = (*MockTransactor)(nil)
	_ redis.LockStoreInterface        = (*MockLockStore)(nil)
	_ redis.NearbyCacheInterface      = (*MockNearbyCache)(nil)
	_ service.EventPublisher          = (*MockPublisher)(nil)
	_ service.Geocoder                = (*MockGeocoder)(nil)
)
