package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusOpen      TripStatus = "open"
	TripStatusFull      TripStatus = "full"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// Coordinates is an optional precise point for a trip endpoint.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Trip is a driver-posted journey between two supported cities.
type Trip struct {
	ID               string
	DriverID         string
	OriginCity       string
	DestinationCity  string
	OriginLabel      string
	DestinationLabel string
	OriginPoint      *Coordinates
	DestinationPoint *Coordinates
	DepartureTime    time.Time
	SeatsAvailable   int
	Status           TripStatus
	MeetingSpot      string
	Notes            string
	CreatedAt        time.Time
}

// IsTerminal reports whether the trip can no longer change status through edits or seat changes.
func (t *Trip) IsTerminal() bool {
	return t.Status == TripStatusCancelled || t.Status == TripStatusCompleted
}

// HasDeparted reports whether departure time is at or before now.
func (t *Trip) HasDeparted(now time.Time) bool {
	return !t.DepartureTime.After(now)
}

// SetSeats stores a new seat count and derives open/full from it.
// Cancelled and completed trips keep their status.
func (t *Trip) SetSeats(seats int) {
	t.SeatsAvailable = seats
	if t.IsTerminal() {
		return
	}
	if seats == 0 {
		t.Status = TripStatusFull
	} else {
		t.Status = TripStatusOpen
	}
}

// TakeSeat consumes one seat for an accepted request.
func (t *Trip) TakeSeat() {
	t.SetSeats(t.SeatsAvailable - 1)
}

// ReturnSeat gives back the seat of a previously accepted request and reopens the trip.
func (t *Trip) ReturnSeat() {
	// TODO: confirm with product whether a completed trip should be reopened here;
	// current behaviour matches the legacy backend.
	t.SeatsAvailable++
	t.Status = TripStatusOpen
}
