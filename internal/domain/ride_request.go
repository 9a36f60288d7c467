package domain

import "time"

// RideRequestStatus represents the current status of a ride request.
type RideRequestStatus string

const (
	RideRequestStatusPending  RideRequestStatus = "pending"
	RideRequestStatusAccepted RideRequestStatus = "accepted"
	RideRequestStatusRejected RideRequestStatus = "rejected"
)

// RideRequest is a rider's request for a seat on a trip.
// A rider holds at most one request per trip.
type RideRequest struct {
	ID        string
	TripID    string
	RiderID   string
	Message   string
	Status    RideRequestStatus
	CreatedAt time.Time
}

// IsAccepted reports whether the request currently holds a seat.
func (r *RideRequest) IsAccepted() bool {
	return r.Status == RideRequestStatusAccepted
}

// MinRequestNoteLength is the minimum length of a trimmed request note.
const MinRequestNoteLength = 2
