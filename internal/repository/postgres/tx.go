package postgres

import (
	"context"
	"database/sql"

	"flock/internal/repository"
)

// Transactor runs units of work inside a database transaction.
type Transactor struct {
	db *sql.DB
}

var _ repository.Transactor = (*Transactor)(nil)

// NewTransactor creates a new Transactor.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx begins a transaction, runs fn with tx-scoped repositories and
// commits. Any error from fn or the commit rolls the transaction back.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, uow repository.UnitOfWork) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(ctx, &unitOfWork{tx: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

type unitOfWork struct {
	tx *sql.Tx
}

func (u *unitOfWork) Trips() repository.TripRepository {
	return NewTripRepositoryWithTx(u.tx)
}

func (u *unitOfWork) RideRequests() repository.RideRequestRepository {
	return NewRideRequestRepositoryWithTx(u.tx)
}

func (u *unitOfWork) Notifications() repository.NotificationRepository {
	return NewNotificationRepositoryWithTx(u.tx)
}
