package domain

import "time"

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationRideRequest     NotificationType = "ride_request"
	NotificationRequestAccepted NotificationType = "request_accepted"
	NotificationRequestRejected NotificationType = "request_rejected"
	NotificationTripCancelled   NotificationType = "trip_cancelled"
	NotificationTripCompleted   NotificationType = "trip_completed"
)

// Notification is a persisted in-app notification for a single user.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Body      string
	TripID    string // empty when unrelated to a trip
	RequestID string // empty when unrelated to a ride request
	IsRead    bool
	CreatedAt time.Time
}
