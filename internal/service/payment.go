package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"citylift/internal/domain"
	"citylift/internal/redis"
	"citylift/internal/repository"
)

// PaymentService records ride payments.
type PaymentService struct {
	tx          repository.Transactor
	rideRepo    repository.RideRepository
	paymentRepo repository.PaymentRepository
	cacheStore  redis.NearbyCacheInterface
	publisher   EventPublisher
	policy      BookingPolicy
}

// NewPaymentService creates a new PaymentService. cacheStore and publisher
// may be nil.
func NewPaymentService(
	tx repository.Transactor,
	rideRepo repository.RideRepository,
	paymentRepo repository.PaymentRepository,
	cacheStore redis.NearbyCacheInterface,
	publisher EventPublisher,
	policy BookingPolicy,
) *PaymentService {
	return &PaymentService{
		tx:          tx,
		rideRepo:    rideRepo,
		paymentRepo: paymentRepo,
		cacheStore:  cacheStore,
		publisher:   publisherOrNoop(publisher),
		policy:      policy,
	}
}

// RecordPaymentRequest contains the parameters for recording a payment.
type RecordPaymentRequest struct {
	UserID string
	RideID string
	Amount decimal.Decimal
	Method domain.PaymentMethod
}

// RecordPayment stores the payment of a user for a ride and puts the ride's
// vehicle IN_USE. A second payment for the same (ride, user) replaces amount
// and method of the first. The amount is not checked against the ride fare.
func (s *PaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*domain.Payment, error) {
	if err := validateID(req.UserID, ErrInvalidUserID); err != nil {
		return nil, err
	}
	if err := validateID(req.RideID, ErrInvalidRideID); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidPaymentAmount
	}
	if !req.Method.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}

	// Nothing is written for an unknown ride.
	if _, err := s.rideRepo.GetByID(ctx, req.RideID); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		RideID:    req.RideID,
		Amount:    req.Amount.Round(2),
		Method:    req.Method,
		CreatedAt: time.Now(),
	}

	var ride *domain.Ride
	var created bool

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		ride, err = repos.Rides.GetByIDForUpdate(ctx, req.RideID)
		if err != nil {
			return err
		}
		if s.policy.StrictTransitions && ride.Status.IsTerminal() {
			return ErrInvalidTransition
		}

		created, err = repos.Payments.Upsert(ctx, payment)
		if err != nil {
			return err
		}

		if !s.policy.StrictTransitions {
			return repos.Vehicles.UpdateStatus(ctx, ride.VehicleID, domain.VehicleStatusInUse)
		}
		return s.holdRideVehicle(ctx, repos, ride)
	})
	if err != nil {
		return nil, err
	}

	invalidateNearby(ctx, s.cacheStore)

	_ = s.publisher.Publish(ctx, EventPaymentRecorded, PaymentEvent{
		PaymentID:  payment.ID,
		RideID:     payment.RideID,
		UserID:     payment.UserID,
		VehicleID:  ride.VehicleID,
		Amount:     payment.Amount,
		Method:     payment.Method,
		Created:    created,
		OccurredAt: time.Now(),
	})

	return payment, nil
}

// holdRideVehicle puts the ride's vehicle IN_USE. A PENDING ride claims it
// from AVAILABLE and moves to ACTIVE. An ACTIVE ride keeps the vehicle it
// holds and takes it back if it was left AVAILABLE.
func (s *PaymentService) holdRideVehicle(ctx context.Context, repos repository.Repositories, ride *domain.Ride) error {
	if ride.Status != domain.RideStatusPending {
		return ensureVehicleHeld(ctx, repos.Vehicles, ride.VehicleID)
	}

	if err := claimVehicle(ctx, repos.Vehicles, ride.VehicleID); err != nil {
		return err
	}
	if err := repos.Rides.UpdateStatus(ctx, ride.ID, domain.RideStatusActive); err != nil {
		return err
	}
	ride.Status = domain.RideStatusActive
	return nil
}

// ListPaymentsByUser retrieves the payments made by a user.
func (s *PaymentService) ListPaymentsByUser(ctx context.Context, userID string) ([]*domain.Payment, error) {
	if err := validateID(userID, ErrInvalidUserID); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByUserID(ctx, userID)
}

// ListPaymentsByRide retrieves the payments recorded for a ride.
func (s *PaymentService) ListPaymentsByRide(ctx context.Context, rideID string) ([]*domain.Payment, error) {
	if err := validateID(rideID, ErrInvalidRideID); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByRideID(ctx, rideID)
}
