package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"citylift/internal/domain"
	"citylift/internal/redis"
	"citylift/internal/repository"
)

// RideService handles ride creation and the ride lifecycle.
type RideService struct {
	tx          repository.Transactor
	rideRepo    repository.RideRepository
	vehicleRepo repository.VehicleRepository
	cacheStore  redis.NearbyCacheInterface
	publisher   EventPublisher
	policy      BookingPolicy
}

// NewRideService creates a new RideService. cacheStore and publisher may be nil.
func NewRideService(
	tx repository.Transactor,
	rideRepo repository.RideRepository,
	vehicleRepo repository.VehicleRepository,
	cacheStore redis.NearbyCacheInterface,
	publisher EventPublisher,
	policy BookingPolicy,
) *RideService {
	return &RideService{
		tx:          tx,
		rideRepo:    rideRepo,
		vehicleRepo: vehicleRepo,
		cacheStore:  cacheStore,
		publisher:   publisherOrNoop(publisher),
		policy:      policy,
	}
}

// CreateRideRequest contains the parameters for creating a ride.
type CreateRideRequest struct {
	UserID        string
	VehicleID     string
	StartLocation string
	EndLocation   string
	Fare          decimal.Decimal
}

// CreateRide books a vehicle. The ride starts PENDING.
func (s *RideService) CreateRide(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	if s.policy.RequireAvailableVehicle {
		vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle.Status != domain.VehicleStatusAvailable {
			return nil, ErrVehicleUnavailable
		}
	}

	ride := &domain.Ride{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		VehicleID:     req.VehicleID,
		StartLocation: req.StartLocation,
		EndLocation:   req.EndLocation,
		Fare:          req.Fare.Round(2),
		Status:        domain.RideStatusPending,
		CreatedAt:     time.Now(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	_ = s.publisher.Publish(ctx, EventRideCreated, RideEvent{
		RideID:     ride.ID,
		UserID:     ride.UserID,
		VehicleID:  ride.VehicleID,
		Status:     ride.Status,
		Fare:       ride.Fare,
		OccurredAt: ride.CreatedAt,
	})

	return ride, nil
}

// validateCreateRequest validates the create ride request.
func (s *RideService) validateCreateRequest(req CreateRideRequest) error {
	if err := missing(map[string]string{
		"userId":        req.UserID,
		"vehicleId":     req.VehicleID,
		"startLocation": req.StartLocation,
		"endLocation":   req.EndLocation,
	}, "userId", "vehicleId", "startLocation", "endLocation"); err != nil {
		return err
	}
	if err := validateID(req.UserID, ErrInvalidUserID); err != nil {
		return err
	}
	if err := validateID(req.VehicleID, ErrInvalidVehicleID); err != nil {
		return err
	}
	if !req.Fare.IsPositive() {
		return ErrInvalidFare
	}
	return nil
}

// SetStatus moves a ride to status. Under strict transitions PENDING -> ACTIVE
// claims the ride's vehicle (AVAILABLE -> IN_USE, else ErrVehicleUnavailable).
// Reaching COMPLETED or CANCELLED frees the vehicle in the same transaction.
func (s *RideService) SetStatus(ctx context.Context, rideID string, status domain.RideStatus) (*domain.Ride, error) {
	if err := validateID(rideID, ErrInvalidRideID); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, ErrInvalidRideStatus
	}

	var ride *domain.Ride
	var previous domain.RideStatus
	var claimed, freed bool

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		current, err := repos.Rides.GetByIDForUpdate(ctx, rideID)
		if err != nil {
			return err
		}
		previous = current.Status

		if s.policy.StrictTransitions && !domain.CanTransition(previous, status) {
			return ErrInvalidTransition
		}

		if s.claimsVehicle(previous, status) {
			if err := claimVehicle(ctx, repos.Vehicles, current.VehicleID); err != nil {
				return err
			}
			claimed = true
		}

		if err := repos.Rides.UpdateStatus(ctx, rideID, status); err != nil {
			return err
		}
		current.Status = status

		if s.releasesVehicle(previous, status) {
			if err := repos.Vehicles.UpdateStatus(ctx, current.VehicleID, domain.VehicleStatusAvailable); err != nil {
				return err
			}
			freed = true
		}

		ride = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if claimed || freed {
		invalidateNearby(ctx, s.cacheStore)
	}

	_ = s.publisher.Publish(ctx, EventRideStatusPrefix+string(status), RideEvent{
		RideID:         ride.ID,
		UserID:         ride.UserID,
		VehicleID:      ride.VehicleID,
		Status:         ride.Status,
		PreviousStatus: previous,
		Fare:           ride.Fare,
		VehicleClaimed: claimed,
		VehicleFreed:   freed,
		OccurredAt:     time.Now(),
	})

	return ride, nil
}

// claimsVehicle reports whether moving from -> to takes the vehicle. Compat
// mode leaves vehicle claims to payments.
func (s *RideService) claimsVehicle(from, to domain.RideStatus) bool {
	return s.policy.StrictTransitions && from == domain.RideStatusPending && to == domain.RideStatusActive
}

// releasesVehicle reports whether moving from -> to frees the vehicle. Under
// strict transitions only an ACTIVE ride holds its vehicle.
func (s *RideService) releasesVehicle(from, to domain.RideStatus) bool {
	if !to.IsTerminal() {
		return false
	}
	if s.policy.StrictTransitions {
		return from == domain.RideStatusActive
	}
	return true
}

// claimVehicle takes a vehicle from AVAILABLE to IN_USE.
func claimVehicle(ctx context.Context, vehicles repository.VehicleRepository, vehicleID string) error {
	claimed, err := vehicles.TransitionStatus(ctx, vehicleID, domain.VehicleStatusAvailable, domain.VehicleStatusInUse)
	if err != nil {
		return err
	}
	if !claimed {
		return ErrVehicleUnavailable
	}
	return nil
}

// ensureVehicleHeld leaves an IN_USE vehicle alone and claims an AVAILABLE
// one. Any other status means the vehicle was taken out of service.
func ensureVehicleHeld(ctx context.Context, vehicles repository.VehicleRepository, vehicleID string) error {
	err := claimVehicle(ctx, vehicles, vehicleID)
	if !errors.Is(err, ErrVehicleUnavailable) {
		return err
	}

	vehicle, err := vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return err
	}
	if vehicle.Status != domain.VehicleStatusInUse {
		return ErrVehicleUnavailable
	}
	return nil
}

// GetRide retrieves a ride by ID.
func (s *RideService) GetRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if err := validateID(rideID, ErrInvalidRideID); err != nil {
		return nil, err
	}
	return s.rideRepo.GetByID(ctx, rideID)
}

// ListRides retrieves every ride, newest first.
func (s *RideService) ListRides(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.GetAll(ctx)
}

// ListMyRidesRequest identifies the caller of ListMyRides.
type ListMyRidesRequest struct {
	UserID string
	Role   domain.UserRole
}

// ListMyRides returns the rides a user requested or, for a driver, the rides
// booked on vehicles assigned to them.
func (s *RideService) ListMyRides(ctx context.Context, req ListMyRidesRequest) ([]*domain.Ride, error) {
	if err := validateID(req.UserID, ErrInvalidUserID); err != nil {
		return nil, err
	}
	if req.Role == domain.UserRoleDriver {
		return s.rideRepo.GetByVehicleDriverID(ctx, req.UserID)
	}
	return s.rideRepo.GetByUserID(ctx, req.UserID)
}
