package postgres

import (
	"context"
	"database/sql"

	"citylift/internal/domain"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// Upsert creates the payment for (ride, user) or updates amount and method in
// place. The stored row is written back into payment.
func (r *PaymentRepository) Upsert(ctx context.Context, payment *domain.Payment) (bool, error) {
	// xmax is zero only for a freshly inserted row.
	query := `
		INSERT INTO payments (id, user_id, ride_id, amount, method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ride_id, user_id) DO UPDATE
		SET amount = EXCLUDED.amount,
		    method = EXCLUDED.method
		RETURNING id, created_at, (xmax = 0)
	`

	var created bool
	err := r.q.QueryRowContext(ctx, query,
		payment.ID,
		payment.UserID,
		payment.RideID,
		payment.Amount,
		payment.Method,
		payment.CreatedAt,
	).Scan(&payment.ID, &payment.CreatedAt, &created)
	if err != nil {
		return false, mapError(err)
	}

	return created, nil
}

// GetByUserID retrieves all payments made by a user, newest first.
func (r *PaymentRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Payment, error) {
	query := `
		SELECT id, user_id, ride_id, amount, method, created_at
		FROM payments WHERE user_id = $1 ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

// GetByRideID retrieves all payments recorded for a ride.
func (r *PaymentRepository) GetByRideID(ctx context.Context, rideID string) ([]*domain.Payment, error) {
	query := `
		SELECT id, user_id, ride_id, amount, method, created_at
		FROM payments WHERE ride_id = $1 ORDER BY created_at DESC
	`
	return r.list(ctx, query, rideID)
}

func (r *PaymentRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []*domain.Payment{}
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.RideID, &p.Amount, &p.Method, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}
