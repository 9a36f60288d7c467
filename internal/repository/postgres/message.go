package postgres

import (
	"context"
	"database/sql"

	"flock/internal/domain"
	"flock/internal/repository"
)

// MessageRepository is a PostgreSQL implementation of repository.MessageRepository.
type MessageRepository struct {
	q Querier
}

var _ repository.MessageRepository = (*MessageRepository)(nil)

// NewMessageRepository creates a new PostgreSQL message repository.
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{q: db}
}

// Create persists a message.
func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, trip_id, sender_id, receiver_id, message_text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return r.q.QueryRowContext(ctx, query,
		msg.ID,
		msg.TripID,
		msg.SenderID,
		msg.ReceiverID,
		msg.Text,
	).Scan(&msg.CreatedAt)
}

// ListByTrip retrieves the whole thread of a trip.
func (r *MessageRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Message, error) {
	query := `
		SELECT id, trip_id, sender_id, receiver_id, message_text, created_at
		FROM messages
		WHERE trip_id = $1
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, tripID)
}

// ListConversation retrieves the messages between two users on a trip.
func (r *MessageRepository) ListConversation(ctx context.Context, tripID, userA, userB string) ([]*domain.Message, error) {
	query := `
		SELECT id, trip_id, sender_id, receiver_id, message_text, created_at
		FROM messages
		WHERE trip_id = $1
			AND ((sender_id = $2 AND receiver_id = $3) OR (sender_id = $3 AND receiver_id = $2))
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, tripID, userA, userB)
}

func (r *MessageRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Message, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.TripID,
			&msg.SenderID,
			&msg.ReceiverID,
			&msg.Text,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}
