package postgres

import (
	"context"
	"database/sql"

	"citylift/internal/repository"
)

// NewRepositories binds every repository to db.
func NewRepositories(db *sql.DB) repository.Repositories {
	return newRepositories(db)
}

// NewRepositoriesWithTx binds every repository to tx.
func NewRepositoriesWithTx(tx *sql.Tx) repository.Repositories {
	return newRepositories(tx)
}

func newRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Vehicles:    &VehicleRepository{q: q},
		Activations: &ActivationRepository{q: q},
		Rides:       &RideRepository{q: q},
		Payments:    &PaymentRepository{q: q},
		Users:       &UserRepository{q: q},
	}
}

// Transactor is a PostgreSQL implementation of repository.Transactor.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a new Transactor.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

var _ repository.Transactor = (*Transactor)(nil)

// WithinTx runs fn with transaction-scoped repositories.
func (t *Transactor) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(NewRepositoriesWithTx(tx)); err != nil {
		return err
	}

	return tx.Commit()
}
