package repository

import "context"

// Repositories groups the repositories bound to one unit of work.
type Repositories struct {
	Vehicles    VehicleRepository
	Activations ActivationRepository
	Rides       RideRepository
	Payments    PaymentRepository
	Users       UserRepository
}

// Transactor runs fn inside a single transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
