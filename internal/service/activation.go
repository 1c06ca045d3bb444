package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"citylift/internal/domain"
	"citylift/internal/redis"
	"citylift/internal/repository"
)

const activationLockTTL = 5 * time.Second

// ActivationService maintains the registry of active drivers.
type ActivationService struct {
	activationRepo repository.ActivationRepository
	vehicleRepo    repository.VehicleRepository
	lockStore      redis.LockStoreInterface
	cacheStore     redis.NearbyCacheInterface
	publisher      EventPublisher
}

// NewActivationService creates a new ActivationService. lockStore, cacheStore
// and publisher may be nil.
func NewActivationService(
	activationRepo repository.ActivationRepository,
	vehicleRepo repository.VehicleRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.NearbyCacheInterface,
	publisher EventPublisher,
) *ActivationService {
	return &ActivationService{
		activationRepo: activationRepo,
		vehicleRepo:    vehicleRepo,
		lockStore:      lockStore,
		cacheStore:     cacheStore,
		publisher:      publisherOrNoop(publisher),
	}
}

// ActivateRequest contains the parameters for activating a driver.
type ActivateRequest struct {
	DriverID  string // From the authenticated session
	VehicleID string
	Lat       *float64
	Lng       *float64
}

// Activate records the driver as active on a vehicle at a location. A driver
// has at most one activation; activating again overwrites it in place.
func (s *ActivationService) Activate(ctx context.Context, req ActivateRequest) (*domain.DriverActivation, error) {
	if err := validateID(req.DriverID, ErrInvalidDriverID); err != nil {
		return nil, err
	}
	if err := validateID(req.VehicleID, ErrInvalidVehicleID); err != nil {
		return nil, err
	}
	location, err := validateCoordinates(req.Lat, req.Lng)
	if err != nil {
		return nil, err
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireActivationLock(ctx, req.DriverID, activationLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrActivationInProgress
		}
		defer func() { _ = s.lockStore.ReleaseActivationLock(ctx, req.DriverID) }()
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	activation := &domain.DriverActivation{
		ID:        uuid.New().String(),
		DriverID:  req.DriverID,
		VehicleID: vehicle.ID,
		Latitude:  location.Lat,
		Longitude: location.Lng,
	}
	if err := s.activationRepo.Upsert(ctx, activation); err != nil {
		return nil, err
	}
	activation.Vehicle = vehicle

	invalidateNearby(ctx, s.cacheStore)

	_ = s.publisher.Publish(ctx, EventDriverActivated, DriverEvent{
		DriverID:   activation.DriverID,
		VehicleID:  activation.VehicleID,
		Latitude:   activation.Latitude,
		Longitude:  activation.Longitude,
		OccurredAt: time.Now(),
	})

	return activation, nil
}

// Deactivate removes the activation of a driver.
func (s *ActivationService) Deactivate(ctx context.Context, driverID string) error {
	if err := validateID(driverID, ErrInvalidDriverID); err != nil {
		return err
	}

	if err := s.activationRepo.DeleteByDriverID(ctx, driverID); err != nil {
		return err
	}

	invalidateNearby(ctx, s.cacheStore)

	_ = s.publisher.Publish(ctx, EventDriverDeactivated, DriverEvent{
		DriverID:   driverID,
		OccurredAt: time.Now(),
	})

	return nil
}

// GetActivation retrieves the activation of a driver.
func (s *ActivationService) GetActivation(ctx context.Context, driverID string) (*domain.DriverActivation, error) {
	if err := validateID(driverID, ErrInvalidDriverID); err != nil {
		return nil, err
	}
	return s.activationRepo.GetByDriverID(ctx, driverID)
}
