package postgres

import (
	"context"
	"database/sql"
	"errors"

	"flock/internal/domain"
	"flock/internal/repository"
)

const notificationColumns = `id, user_id, type, title, body, trip_id, request_id, is_read, created_at`

// NotificationRepository is a PostgreSQL implementation of repository.NotificationRepository.
type NotificationRepository struct {
	q Querier
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)

// NewNotificationRepository creates a new PostgreSQL notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{q: db}
}

// NewNotificationRepositoryWithTx creates a notification repository using a transaction.
func NewNotificationRepositoryWithTx(tx *sql.Tx) *NotificationRepository {
	return &NotificationRepository{q: tx}
}

// Create persists a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, body, trip_id, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	return r.q.QueryRowContext(ctx, query,
		n.ID,
		n.UserID,
		n.Type,
		n.Title,
		n.Body,
		nullString(n.TripID),
		nullString(n.RequestID),
	).Scan(&n.CreatedAt)
}

// ListByUser retrieves a user's notifications.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead marks one of the user's notifications read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	query := `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING ` + notificationColumns

	n, err := scanNotification(r.q.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

// MarkAllRead marks every unread notification of the user read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	)
	return err
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	var tripID, requestID sql.NullString

	if err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Type,
		&n.Title,
		&n.Body,
		&tripID,
		&requestID,
		&n.IsRead,
		&n.CreatedAt,
	); err != nil {
		return nil, err
	}

	n.TripID = tripID.String
	n.RequestID = requestID.String
	return &n, nil
}
