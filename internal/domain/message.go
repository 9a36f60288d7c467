package domain

import "time"

// Message is a trip-scoped direct message. Messages are never edited.
type Message struct {
	ID         string
	TripID     string
	SenderID   string
	ReceiverID string
	Text       string
	CreatedAt  time.Time
}
