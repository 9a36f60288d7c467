package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"flock/internal/domain"
	"flock/internal/service"
)

func tripInput(seats int, departure time.Time) service.TripInput {
	return service.TripInput{
		OriginCity:      "austin_tx",
		DestinationCity: "houston_tx",
		OriginLabel:     "UT Tower",
		DepartureTime:   departure,
		SeatsAvailable:  Seats(seats),
		MeetingSpot:     "Speedway",
	}
}

// TestCreateTrip_RequiresDriverProfile verifies only registered drivers may post.
func TestCreateTrip_RequiresDriverProfile(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	rider := env.AddUser("riley")
	if _, err := env.TripService.CreateTrip(ctx, rider, tripInput(3, time.Now().Add(time.Hour))); !errors.Is(err, service.ErrDriverRegistrationRequired) {
		t.Fatalf("Expected ErrDriverRegistrationRequired, got %v", err)
	}

	driver := env.AddDriver("dana")
	trip, err := env.TripService.CreateTrip(ctx, driver, tripInput(3, time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	if trip.Status != domain.TripStatusOpen || trip.SeatsAvailable != 3 {
		t.Errorf("Expected open trip with 3 seats, got %s/%d", trip.Status, trip.SeatsAvailable)
	}
	if trip.DriverID != driver.ID {
		t.Errorf("Expected driver %s, got %s", driver.ID, trip.DriverID)
	}
	if env.Trips.GetTrip(trip.ID) == nil {
		t.Error("Expected trip to be stored")
	}
}

// TestCreateTrip_Validation covers the field checks.
func TestCreateTrip_Validation(t *testing.T) {
	t.Parallel()

	departure := time.Now().Add(time.Hour)
	tests := []struct {
		name    string
		mutate  func(in *service.TripInput)
		wantErr error
	}{
		{"missing origin", func(in *service.TripInput) { in.OriginCity = "" }, service.ErrTripFieldsRequired},
		{"missing departure", func(in *service.TripInput) { in.DepartureTime = time.Time{} }, service.ErrTripFieldsRequired},
		{"missing seats", func(in *service.TripInput) { in.SeatsAvailable = nil }, service.ErrTripFieldsRequired},
		{"unsupported city", func(in *service.TripInput) { in.DestinationCity = "atlantis" }, service.ErrInvalidTripCities},
		{"same city", func(in *service.TripInput) { in.DestinationCity = in.OriginCity }, service.ErrInvalidTripCities},
		{"zero seats", func(in *service.TripInput) { in.SeatsAvailable = Seats(0) }, service.ErrSeatsBelowOne},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := NewEnv()
			driver := env.AddDriver("dana")

			in := tripInput(2, departure)
			tt.mutate(&in)

			if _, err := env.TripService.CreateTrip(context.Background(), driver, in); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if env.Trips.CreateCallCount != 0 {
				t.Error("Expected no trip to be created")
			}
		})
	}
}

// TestUpdateTrip_SeatsDriveStatus verifies edits recompute open/full but leave terminal trips alone.
func TestUpdateTrip_SeatsDriveStatus(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	driver := env.AddDriver("dana")
	trip := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 2)

	updated, err := env.TripService.UpdateTrip(ctx, driver, trip.ID, tripInput(0, time.Now().Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("UpdateTrip failed: %v", err)
	}
	if updated.Status != domain.TripStatusFull {
		t.Errorf("Expected full at 0 seats, got %s", updated.Status)
	}

	updated, err = env.TripService.UpdateTrip(ctx, driver, trip.ID, tripInput(4, time.Now().Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("UpdateTrip failed: %v", err)
	}
	if updated.Status != domain.TripStatusOpen || updated.DestinationCity != "houston_tx" {
		t.Errorf("Expected open trip to Houston, got %s/%s", updated.Status, updated.DestinationCity)
	}

	if _, err := env.TripService.UpdateTrip(ctx, driver, trip.ID, tripInput(-1, time.Now())); !errors.Is(err, service.ErrSeatsNegative) {
		t.Errorf("Expected ErrSeatsNegative, got %v", err)
	}

	env.Trips.GetTrip(trip.ID).Status = domain.TripStatusCancelled
	updated, err = env.TripService.UpdateTrip(ctx, driver, trip.ID, tripInput(0, time.Now().Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("UpdateTrip on cancelled trip failed: %v", err)
	}
	if updated.Status != domain.TripStatusCancelled {
		t.Errorf("Expected cancelled to stick, got %s", updated.Status)
	}
}

// TestUpdateTrip_OnlyOwner verifies another driver cannot edit the trip.
func TestUpdateTrip_OnlyOwner(t *testing.T) {
	t.Parallel()
	env := NewEnv()

	driver := env.AddDriver("dana")
	other := env.AddDriver("otto")
	trip := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 2)

	if _, err := env.TripService.UpdateTrip(context.Background(), other, trip.ID, tripInput(1, time.Now().Add(time.Hour))); !errors.Is(err, service.ErrNotTripOwner) {
		t.Fatalf("Expected ErrNotTripOwner, got %v", err)
	}
}

// TestCancelTrip_NotifiesAcceptedRiders verifies cancellation reaches every accepted rider
// and leaves the seat count as it was.
func TestCancelTrip_NotifiesAcceptedRiders(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	driver := env.AddDriver("dana")
	trip := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 1)
	accepted := []domain.Principal{env.AddUser("ash"), env.AddUser("blake")}
	for _, r := range accepted {
		env.AddRequest(trip.ID, r.ID, domain.RideRequestStatusAccepted)
	}
	pending := env.AddUser("casey")
	env.AddRequest(trip.ID, pending.ID, domain.RideRequestStatusPending)

	got, err := env.TripService.CancelTrip(ctx, driver, trip.ID)
	if err != nil {
		t.Fatalf("CancelTrip failed: %v", err)
	}
	if got.Status != domain.TripStatusCancelled || got.SeatsAvailable != 1 {
		t.Errorf("Expected cancelled with 1 seat, got %s/%d", got.Status, got.SeatsAvailable)
	}

	for _, r := range accepted {
		if n := env.Notifications.ForUser(r.ID, domain.NotificationTripCancelled); len(n) != 1 {
			t.Errorf("Expected %s to be notified once, got %d", r.Name, len(n))
		}
	}
	if n := env.Notifications.ForUser(pending.ID, domain.NotificationTripCancelled); len(n) != 0 {
		t.Errorf("Expected pending rider not to be notified, got %d", len(n))
	}
	if len(env.Publisher.Events()) != 2 {
		t.Errorf("Expected 2 published events, got %d", len(env.Publisher.Events()))
	}

	if _, err := env.TripService.CancelTrip(ctx, driver, trip.ID); !errors.Is(err, service.ErrTripAlreadyCancelled) {
		t.Errorf("Expected ErrTripAlreadyCancelled, got %v", err)
	}
	if _, err := env.TripService.CompleteTrip(ctx, driver, trip.ID); !errors.Is(err, service.ErrCancelledTripNotCompletable) {
		t.Errorf("Expected ErrCancelledTripNotCompletable, got %v", err)
	}
}

// TestCompleteTrip_Rules covers the departure gate and terminal states.
func TestCompleteTrip_Rules(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	driver := env.AddDriver("dana")
	rider := env.AddUser("riley")

	future := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 1)
	if _, err := env.TripService.CompleteTrip(ctx, driver, future.ID); !errors.Is(err, service.ErrTripNotDeparted) {
		t.Errorf("Expected ErrTripNotDeparted, got %v", err)
	}

	past := env.AddTrip(driver.ID, time.Now().Add(-time.Hour), 1)
	env.AddRequest(past.ID, rider.ID, domain.RideRequestStatusAccepted)

	if _, err := env.TripService.CompleteTrip(ctx, rider, past.ID); !errors.Is(err, service.ErrNotTripOwner) {
		t.Errorf("Expected ErrNotTripOwner, got %v", err)
	}

	got, err := env.TripService.CompleteTrip(ctx, driver, past.ID)
	if err != nil {
		t.Fatalf("CompleteTrip failed: %v", err)
	}
	if got.Status != domain.TripStatusCompleted {
		t.Errorf("Expected completed, got %s", got.Status)
	}
	if n := env.Notifications.ForUser(rider.ID, domain.NotificationTripCompleted); len(n) != 1 {
		t.Errorf("Expected rider to be told the trip completed, got %d", len(n))
	}

	if _, err := env.TripService.CompleteTrip(ctx, driver, past.ID); !errors.Is(err, service.ErrTripAlreadyCompleted) {
		t.Errorf("Expected ErrTripAlreadyCompleted, got %v", err)
	}
	if _, err := env.TripService.CancelTrip(ctx, driver, past.ID); !errors.Is(err, service.ErrCompletedTripNotCancellable) {
		t.Errorf("Expected ErrCompletedTripNotCancellable, got %v", err)
	}
}

// TestCompleteExpiredTrips_OnlyWithAcceptedRiders verifies the sweep completes
// departed trips that carried someone and nothing else.
func TestCompleteExpiredTrips_OnlyWithAcceptedRiders(t *testing.T) {
	t.Parallel()
	env := NewEnv()

	driver := env.AddDriver("dana")
	rider := env.AddUser("riley")

	carried := env.AddTrip(driver.ID, time.Now().Add(-2*time.Hour), 0)
	env.AddRequest(carried.ID, rider.ID, domain.RideRequestStatusAccepted)

	empty := env.AddTrip(driver.ID, time.Now().Add(-2*time.Hour), 3)
	env.AddRequest(empty.ID, rider.ID, domain.RideRequestStatusPending)

	upcoming := env.AddTrip(driver.ID, time.Now().Add(2*time.Hour), 0)
	env.AddRequest(upcoming.ID, rider.ID, domain.RideRequestStatusAccepted)

	cancelled := env.AddTrip(driver.ID, time.Now().Add(-2*time.Hour), 0)
	env.Trips.GetTrip(cancelled.ID).Status = domain.TripStatusCancelled
	env.AddRequest(cancelled.ID, env.AddUser("ash").ID, domain.RideRequestStatusAccepted)

	n, err := env.TripService.CompleteExpiredTrips(context.Background())
	if err != nil {
		t.Fatalf("CompleteExpiredTrips failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("Expected 1 completed trip, got %d", n)
	}

	want := map[string]domain.TripStatus{
		carried.ID:   domain.TripStatusCompleted,
		empty.ID:     domain.TripStatusOpen,
		upcoming.ID:  domain.TripStatusFull,
		cancelled.ID: domain.TripStatusCancelled,
	}
	for id, status := range want {
		if got := env.Trips.GetTrip(id).Status; got != status {
			t.Errorf("Trip %s: expected %s, got %s", id, status, got)
		}
	}
}

// TestListTrips_SweepsAndEnriches verifies the feed runs the sweep and attaches drivers and carbon.
func TestListTrips_SweepsAndEnriches(t *testing.T) {
	t.Parallel()
	env := NewEnv()

	driver := env.AddDriver("dana")
	rider := env.AddUser("riley")

	past := env.AddTrip(driver.ID, time.Now().Add(-time.Hour), 0)
	env.AddRequest(past.ID, rider.ID, domain.RideRequestStatusAccepted)
	later := env.AddTrip(driver.ID, time.Now().Add(3*time.Hour), 2)
	sooner := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 2)

	listings, err := env.TripService.ListTrips(context.Background())
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("Expected 3 listings, got %d", len(listings))
	}

	wantOrder := []string{past.ID, sooner.ID, later.ID}
	for i, id := range wantOrder {
		if listings[i].Trip.ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, listings[i].Trip.ID)
		}
	}

	if listings[0].Trip.Status != domain.TripStatusCompleted {
		t.Errorf("Expected the departed trip to be swept to completed, got %s", listings[0].Trip.Status)
	}

	want := env.Cities.DistanceKm("austin_tx", "dallas_tx") * domain.CarbonGramsPerKm
	for _, l := range listings {
		if l.Driver == nil || l.Driver.ID != driver.ID {
			t.Errorf("Expected driver attached to %s", l.Trip.ID)
		}
		if l.DriverCarbonSavedGrams != want {
			t.Errorf("Expected %d grams, got %d", want, l.DriverCarbonSavedGrams)
		}
	}
}

// TestGetTrip_Visibility verifies who sees the car and the request list.
func TestGetTrip_Visibility(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	driver := env.AddDriver("dana")
	accepted := env.AddUser("ash")
	pending := env.AddUser("blake")
	trip := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 2)
	env.AddRequest(trip.ID, accepted.ID, domain.RideRequestStatusAccepted)
	env.AddRequest(trip.ID, pending.ID, domain.RideRequestStatusPending)

	tests := []struct {
		name         string
		viewer       *domain.Principal
		wantCar      bool
		wantRequests int
		wantOwnReq   bool
	}{
		{"anonymous", nil, false, 0, false},
		{"driver", &driver, true, 2, false},
		{"accepted rider", &accepted, true, 0, true},
		{"pending rider", &pending, false, 0, true},
	}

	for _, tt := range tests {
		details, err := env.TripService.GetTrip(ctx, tt.viewer, trip.ID)
		if err != nil {
			t.Fatalf("%s: GetTrip failed: %v", tt.name, err)
		}
		if details.ShowCar != tt.wantCar {
			t.Errorf("%s: expected ShowCar=%v, got %v", tt.name, tt.wantCar, details.ShowCar)
		}
		if len(details.RideRequests) != tt.wantRequests {
			t.Errorf("%s: expected %d requests, got %d", tt.name, tt.wantRequests, len(details.RideRequests))
		}
		if (details.ViewerRequest != nil) != tt.wantOwnReq {
			t.Errorf("%s: expected viewer request=%v", tt.name, tt.wantOwnReq)
		}
		if details.Driver == nil || details.Driver.ID != driver.ID {
			t.Errorf("%s: expected driver attached", tt.name)
		}
	}

	if _, err := env.TripService.GetTrip(ctx, nil, "missing"); !errors.Is(err, service.ErrTripNotFound) {
		t.Errorf("Expected ErrTripNotFound, got %v", err)
	}
}

// TestListMyTrips_OnlyOwnTrips verifies drivers see just what they posted.
func TestListMyTrips_OnlyOwnTrips(t *testing.T) {
	t.Parallel()
	env := NewEnv()

	driver := env.AddDriver("dana")
	other := env.AddDriver("otto")
	env.AddTrip(driver.ID, time.Now().Add(time.Hour), 1)
	env.AddTrip(driver.ID, time.Now().Add(2*time.Hour), 1)
	env.AddTrip(other.ID, time.Now().Add(time.Hour), 1)

	trips, err := env.TripService.ListMyTrips(context.Background(), driver)
	if err != nil {
		t.Fatalf("ListMyTrips failed: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("Expected 2 trips, got %d", len(trips))
	}
	for _, trip := range trips {
		if trip.DriverID != driver.ID {
			t.Errorf("Unexpected trip from %s", trip.DriverID)
		}
	}
}
