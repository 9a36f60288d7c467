package repository

import (
	"context"

	"flock/internal/domain"
)

// MessageRepository defines the persistence operations for trip messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error

	// ListByTrip retrieves every message on a trip, oldest first.
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Message, error)

	// ListConversation retrieves the messages exchanged between two users on a trip, oldest first.
	ListConversation(ctx context.Context, tripID, userA, userB string) ([]*domain.Message, error)
}
