package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"citylift/internal/domain"
	"citylift/internal/redis"
	"citylift/internal/repository"
)

// VehicleService administers the fleet.
type VehicleService struct {
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
	cacheStore  redis.NearbyCacheInterface
}

// NewVehicleService creates a new VehicleService. cacheStore may be nil.
func NewVehicleService(
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	cacheStore redis.NearbyCacheInterface,
) *VehicleService {
	return &VehicleService{
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		cacheStore:  cacheStore,
	}
}

// CreateVehicleRequest contains the parameters for registering a vehicle.
type CreateVehicleRequest struct {
	Type        domain.VehicleType
	Name        string
	PlateNumber string
	Status      domain.VehicleStatus
}

// Create registers a vehicle. A duplicate plate is repository.ErrConflict.
func (s *VehicleService) Create(ctx context.Context, req CreateVehicleRequest) (*domain.Vehicle, error) {
	if err := missing(map[string]string{
		"type":        string(req.Type),
		"name":        req.Name,
		"plateNumber": req.PlateNumber,
		"status":      string(req.Status),
	}, "type", "name", "plateNumber", "status"); err != nil {
		return nil, err
	}
	if !req.Type.IsValid() {
		return nil, ErrInvalidVehicleType
	}
	if !req.Status.IsValid() {
		return nil, ErrInvalidVehicleStatus
	}

	vehicle := &domain.Vehicle{
		ID:          uuid.New().String(),
		Type:        req.Type,
		Name:        strings.TrimSpace(req.Name),
		PlateNumber: strings.TrimSpace(req.PlateNumber),
		Status:      req.Status,
		CreatedAt:   time.Now(),
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// Get retrieves a vehicle by ID.
func (s *VehicleService) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	if err := validateID(id, ErrInvalidVehicleID); err != nil {
		return nil, err
	}
	return s.vehicleRepo.GetByID(ctx, id)
}

// List retrieves every vehicle, newest first.
func (s *VehicleService) List(ctx context.Context) ([]*domain.Vehicle, error) {
	return s.vehicleRepo.GetAll(ctx)
}

// GetAssignedTo returns the vehicle assigned to a driver.
func (s *VehicleService) GetAssignedTo(ctx context.Context, driverID string) (*domain.Vehicle, error) {
	if err := validateID(driverID, ErrInvalidDriverID); err != nil {
		return nil, err
	}

	vehicles, err := s.vehicleRepo.GetByDriverID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return nil, repository.ErrNotFound
	}
	return vehicles[0], nil
}

// Assign makes driverID the owner of a vehicle. The target must be a DRIVER.
func (s *VehicleService) Assign(ctx context.Context, vehicleID, driverID string) (*domain.Vehicle, error) {
	if err := validateID(vehicleID, ErrInvalidVehicleID); err != nil {
		return nil, err
	}
	if err := validateID(driverID, ErrInvalidDriverID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTargetNotDriver
		}
		return nil, err
	}
	if user.Role != domain.UserRoleDriver {
		return nil, ErrTargetNotDriver
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	vehicle.DriverID = driverID
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// UpdateVehicleRequest carries the fields to change; empty fields are kept.
type UpdateVehicleRequest struct {
	ID          string
	Type        domain.VehicleType
	Name        string
	PlateNumber string
	Status      domain.VehicleStatus
}

// Update changes a vehicle's details. A status change invalidates cached
// proximity results.
func (s *VehicleService) Update(ctx context.Context, req UpdateVehicleRequest) (*domain.Vehicle, error) {
	if err := validateID(req.ID, ErrInvalidVehicleID); err != nil {
		return nil, err
	}
	if req.Type != "" && !req.Type.IsValid() {
		return nil, ErrInvalidVehicleType
	}
	if req.Status != "" && !req.Status.IsValid() {
		return nil, ErrInvalidVehicleStatus
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	statusChanged := req.Status != "" && req.Status != vehicle.Status
	if req.Type != "" {
		vehicle.Type = req.Type
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		vehicle.Name = name
	}
	if plate := strings.TrimSpace(req.PlateNumber); plate != "" {
		vehicle.PlateNumber = plate
	}
	if req.Status != "" {
		vehicle.Status = req.Status
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	if statusChanged {
		invalidateNearby(ctx, s.cacheStore)
	}
	return vehicle, nil
}

// Delete removes a vehicle and, with it, any activation on it.
func (s *VehicleService) Delete(ctx context.Context, id string) error {
	if err := validateID(id, ErrInvalidVehicleID); err != nil {
		return err
	}

	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		return err
	}

	invalidateNearby(ctx, s.cacheStore)
	return nil
}
