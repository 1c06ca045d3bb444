package postgres

import (
	"context"
	"database/sql"

	"citylift/internal/domain"
	"citylift/internal/geo"
)

// ActivationRepository is a PostgreSQL implementation of repository.ActivationRepository.
type ActivationRepository struct {
	q Querier
}

// NewActivationRepository creates a new PostgreSQL activation repository.
func NewActivationRepository(db *sql.DB) *ActivationRepository {
	return &ActivationRepository{q: db}
}

// NewActivationRepositoryWithTx creates an activation repository using a transaction.
func NewActivationRepositoryWithTx(tx *sql.Tx) *ActivationRepository {
	return &ActivationRepository{q: tx}
}

// Upsert inserts the activation or overwrites the driver's existing one in
// place. The stored row's ID and UpdatedAt are written back.
func (r *ActivationRepository) Upsert(ctx context.Context, activation *domain.DriverActivation) error {
	query := `
		INSERT INTO driver_activations (id, driver_id, vehicle_id, latitude, longitude, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (driver_id) DO UPDATE
		SET vehicle_id = EXCLUDED.vehicle_id,
		    latitude   = EXCLUDED.latitude,
		    longitude  = EXCLUDED.longitude,
		    updated_at = NOW()
		RETURNING id, updated_at
	`

	err := r.q.QueryRowContext(ctx, query,
		activation.ID,
		activation.DriverID,
		activation.VehicleID,
		activation.Latitude,
		activation.Longitude,
	).Scan(&activation.ID, &activation.UpdatedAt)

	return mapError(err)
}

// GetByDriverID retrieves the activation of a driver.
func (r *ActivationRepository) GetByDriverID(ctx context.Context, driverID string) (*domain.DriverActivation, error) {
	query := `
		SELECT id, driver_id, vehicle_id, latitude, longitude, updated_at
		FROM driver_activations WHERE driver_id = $1
	`

	var a domain.DriverActivation
	err := r.q.QueryRowContext(ctx, query, driverID).Scan(
		&a.ID,
		&a.DriverID,
		&a.VehicleID,
		&a.Latitude,
		&a.Longitude,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return &a, nil
}

// DeleteByDriverID removes the activation of a driver.
func (r *ActivationRepository) DeleteByDriverID(ctx context.Context, driverID string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM driver_activations WHERE driver_id = $1`, driverID)
	if err != nil {
		return err
	}

	return expectAffected(result)
}

// FindAvailableInBox returns activations inside box whose vehicle is
// AVAILABLE. DistanceKm is left for the caller to fill.
func (r *ActivationRepository) FindAvailableInBox(ctx context.Context, box geo.BoundingBox) ([]*domain.NearbyDriver, error) {
	query := `
		SELECT a.id, a.driver_id, a.vehicle_id, a.latitude, a.longitude, a.updated_at,
		       v.id, v.type, v.name, v.plate_number, v.status, v.driver_id, v.created_at,
		       u.id, u.name, u.email, u.phone, u.role, u.created_at
		FROM driver_activations a
		JOIN vehicles v ON v.id = a.vehicle_id
		JOIN users u ON u.id = a.driver_id
		WHERE a.latitude BETWEEN $1 AND $2
		  AND a.longitude BETWEEN $3 AND $4
		  AND v.status = $5
	`

	rows, err := r.q.QueryContext(ctx, query,
		box.MinLat, box.MaxLat, box.MinLng, box.MaxLng,
		domain.VehicleStatusAvailable,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*domain.NearbyDriver{}
	for rows.Next() {
		var a domain.DriverActivation
		var v domain.Vehicle
		var u domain.User
		var ownerID sql.NullString

		if err := rows.Scan(
			&a.ID, &a.DriverID, &a.VehicleID, &a.Latitude, &a.Longitude, &a.UpdatedAt,
			&v.ID, &v.Type, &v.Name, &v.PlateNumber, &v.Status, &ownerID, &v.CreatedAt,
			&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		v.DriverID = ownerID.String

		results = append(results, &domain.NearbyDriver{
			Activation: &a,
			Vehicle:    &v,
			Driver:     &u,
		})
	}
	return results, rows.Err()
}
