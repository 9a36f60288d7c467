package repository

import "context"

// UnitOfWork exposes repositories bound to a single transaction.
type UnitOfWork interface {
	Trips() TripRepository
	RideRequests() RideRequestRepository
	Notifications() NotificationRepository
}

// Transactor runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}
