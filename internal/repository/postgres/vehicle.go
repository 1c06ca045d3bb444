package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"citylift/internal/domain"
	"citylift/internal/repository"
)

const vehicleColumns = `id, type, name, plate_number, status, driver_id, created_at`

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

// NewVehicleRepositoryWithTx creates a vehicle repository using a transaction.
func NewVehicleRepositoryWithTx(tx *sql.Tx) *VehicleRepository {
	return &VehicleRepository{q: tx}
}

// Create persists a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, type, name, plate_number, status, driver_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.Type,
		vehicle.Name,
		vehicle.PlateNumber,
		vehicle.Status,
		nullString(vehicle.DriverID),
		vehicle.CreatedAt,
	)

	return mapError(err)
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	vehicle, err := scanVehicle(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return vehicle, nil
}

// GetAll retrieves all vehicles, newest first.
func (r *VehicleRepository) GetAll(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// GetByDriverID retrieves the vehicles assigned to a driver.
func (r *VehicleRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE driver_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, driverID)
}

func (r *VehicleRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Vehicle, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []*domain.Vehicle{}
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, rows.Err()
}

// Update overwrites the mutable fields of a vehicle.
func (r *VehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET type = $1, name = $2, plate_number = $3, status = $4, driver_id = $5
		WHERE id = $6
	`

	result, err := r.q.ExecContext(ctx, query,
		vehicle.Type,
		vehicle.Name,
		vehicle.PlateNumber,
		vehicle.Status,
		nullString(vehicle.DriverID),
		vehicle.ID,
	)
	if err != nil {
		return mapError(err)
	}

	return expectAffected(result)
}

// UpdateStatus sets the status of a vehicle unconditionally.
func (r *VehicleRepository) UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	result, err := r.q.ExecContext(ctx, `UPDATE vehicles SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}

	return expectAffected(result)
}

// TransitionStatus sets the status to `to` only while it is `from`.
func (r *VehicleRepository) TransitionStatus(ctx context.Context, id string, from, to domain.VehicleStatus) (bool, error) {
	result, err := r.q.ExecContext(ctx,
		`UPDATE vehicles SET status = $1 WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rowsAffected > 0 {
		return true, nil
	}

	// Distinguish a missing vehicle from one in another state.
	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM vehicles WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, repository.ErrNotFound
	}
	return false, nil
}

// Delete removes a vehicle. Activations cascade; rides keep it referenced.
func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == codeForeignKeyViolation {
			return fmt.Errorf("%w: vehicle has rides", repository.ErrConflict)
		}
		return err
	}

	return expectAffected(result)
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	var driverID sql.NullString

	err := row.Scan(
		&vehicle.ID,
		&vehicle.Type,
		&vehicle.Name,
		&vehicle.PlateNumber,
		&vehicle.Status,
		&driverID,
		&vehicle.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	vehicle.DriverID = driverID.String
	return &vehicle, nil
}
