package postgres

import (
	"context"
	"database/sql"

	"citylift/internal/domain"
)

const rideColumns = `r.id, r.user_id, r.vehicle_id, r.start_location, r.end_location, r.fare, r.status, r.created_at`

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (id, user_id, vehicle_id, start_location, end_location, fare, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.UserID,
		ride.VehicleID,
		ride.StartLocation,
		ride.EndLocation,
		ride.Fare,
		ride.Status,
		ride.CreatedAt,
	)

	return mapError(err)
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides r WHERE r.id = $1`
	return r.get(ctx, query, id)
}

// GetByIDForUpdate retrieves a ride and holds a row lock until the
// surrounding transaction ends. Outside a transaction it behaves like GetByID.
func (r *RideRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides r WHERE r.id = $1 FOR UPDATE`
	return r.get(ctx, query, id)
}

func (r *RideRepository) get(ctx context.Context, query, id string) (*domain.Ride, error) {
	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return ride, nil
}

// GetAll retrieves all rides, newest first.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides r ORDER BY r.created_at DESC`
	return r.list(ctx, query)
}

// GetByUserID retrieves the rides requested by a user.
func (r *RideRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides r WHERE r.user_id = $1 ORDER BY r.created_at DESC`
	return r.list(ctx, query, userID)
}

// GetByVehicleDriverID retrieves rides on vehicles assigned to a driver.
func (r *RideRepository) GetByVehicleDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides r
		JOIN vehicles v ON v.id = r.vehicle_id
		WHERE v.driver_id = $1
		ORDER BY r.created_at DESC
	`
	return r.list(ctx, query, driverID)
}

func (r *RideRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rides := []*domain.Ride{}
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// UpdateStatus sets the status of a ride.
func (r *RideRepository) UpdateStatus(ctx context.Context, id string, status domain.RideStatus) error {
	result, err := r.q.ExecContext(ctx, `UPDATE rides SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}

	return expectAffected(result)
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	err := row.Scan(
		&ride.ID,
		&ride.UserID,
		&ride.VehicleID,
		&ride.StartLocation,
		&ride.EndLocation,
		&ride.Fare,
		&ride.Status,
		&ride.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ride, nil
}
