package repository

import (
	"context"

	"flock/internal/domain"
)

// NotificationRepository defines the persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error

	// ListByUser retrieves a user's notifications, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error)

	// MarkRead marks one notification read. Returns ErrNotFound if it does
	// not exist or belongs to another user.
	MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error)

	// MarkAllRead marks every unread notification of a user read.
	MarkAllRead(ctx context.Context, userID string) error
}
