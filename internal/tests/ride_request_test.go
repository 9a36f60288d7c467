package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"flock/internal/domain"
	"flock/internal/service"
)

// TestCreateRequest_NotifiesDriver verifies a new request is pending and the driver is told.
func TestCreateRequest_NotifiesDriver(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	driver := env.AddDriver("dana")
	rider := env.AddUser("riley")
	trip := env.AddTrip(driver.ID, time.Now().Add(24*time.Hour), 2)

	req, err := env.RideRequestService.CreateRequest(ctx, rider, trip.ID, "  Room for a backpack?  ")
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}
	if req.Status != domain.RideRequestStatusPending {
		t.Errorf("Expected pending request, got %s", req.Status)
	}
	if req.Message != "Room for a backpack?" {
		t.Errorf("Expected trimmed note, got %q", req.Message)
	}

	if got := env.Notifications.ForUser(driver.ID, domain.NotificationRideRequest); len(got) != 1 {
		t.Fatalf("Expected 1 ride_request notification for driver, got %d", len(got))
	}
	events := env.Publisher.Events()
	if len(events) != 1 || events[0].RoutingKey != "notification.ride_request" {
		t.Errorf("Expected one notification.ride_request event, got %+v", events)
	}
}

// TestCreateRequest_Rejections covers the cases in which a seat cannot be requested.
func TestCreateRequest_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(env *Env, driver domain.Principal) *domain.Trip
		asSelf  bool
		note    string
		wantErr error
	}{
		{
			name:    "note too short",
			setup:   func(env *Env, d domain.Principal) *domain.Trip { return env.AddTrip(d.ID, time.Now().Add(time.Hour), 1) },
			note:    " x ",
			wantErr: service.ErrRequestNoteRequired,
		},
		{
			name:    "own trip",
			setup:   func(env *Env, d domain.Principal) *domain.Trip { return env.AddTrip(d.ID, time.Now().Add(time.Hour), 1) },
			asSelf:  true,
			note:    "hello",
			wantErr: service.ErrOwnTripRequest,
		},
		{
			name: "cancelled trip",
			setup: func(env *Env, d domain.Principal) *domain.Trip {
				trip := env.AddTrip(d.ID, time.Now().Add(time.Hour), 1)
				env.Trips.GetTrip(trip.ID).Status = domain.TripStatusCancelled
				return trip
			},
			note:    "hello",
			wantErr: service.ErrTripCancelled,
		},
		{
			name:    "full trip",
			setup:   func(env *Env, d domain.Principal) *domain.Trip { return env.AddTrip(d.ID, time.Now().Add(time.Hour), 0) },
			note:    "hello",
			wantErr: service.ErrTripFull,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := NewEnv()
			driver := env.AddDriver("dana")
			rider := env.AddUser("riley")
			trip := tt.setup(env, driver)

			caller := rider
			if tt.asSelf {
				caller = driver
			}

			_, err := env.RideRequestService.CreateRequest(context.Background(), caller, trip.ID, tt.note)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if env.Notifications.Count() != 0 {
				t.Errorf("Expected no notifications, got %d", env.Notifications.Count())
			}
		})
	}
}

// TestCreateRequest_Duplicate verifies a rider can request a trip only once.
func TestCreateRequest_Duplicate(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	driver := env.AddDriver("dana")
	rider := env.AddUser("riley")
	trip := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 2)

	if _, err := env.RideRequestService.CreateRequest(ctx, rider, trip.ID, "first"); err != nil {
		t.Fatalf("First request failed: %v", err)
	}
	_, err := env.RideRequestService.CreateRequest(ctx, rider, trip.ID, "second")
	if !errors.Is(err, service.ErrDuplicateRequest) {
		t.Fatalf("Expected ErrDuplicateRequest, got %v", err)
	}

	if got := env.Notifications.ForUser(driver.ID, domain.NotificationRideRequest); len(got) != 1 {
		t.Errorf("Expected the duplicate to leave 1 notification, got %d", len(got))
	}
}

// TestAcceptRequest_LastSeatFillsTrip walks through one seat and two riders.
func TestAcceptRequest_LastSeatFillsTrip(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	driver := env.AddDriver("dana")
	riderA := env.AddUser("ash")
	riderB := env.AddUser("blake")
	trip := env.AddTrip(driver.ID, time.Now().Add(24*time.Hour), 1)

	reqA, err := env.RideRequestService.CreateRequest(ctx, riderA, trip.ID, "hi there")
	if err != nil {
		t.Fatalf("Request A failed: %v", err)
	}
	reqB, err := env.RideRequestService.CreateRequest(ctx, riderB, trip.ID, "me too")
	if err != nil {
		t.Fatalf("Request B failed: %v", err)
	}

	if _, err := env.RideRequestService.AcceptRequest(ctx, driver, reqA.ID); err != nil {
		t.Fatalf("Accept A failed: %v", err)
	}
	stored := env.Trips.GetTrip(trip.ID)
	if stored.SeatsAvailable != 0 || stored.Status != domain.TripStatusFull {
		t.Fatalf("Expected 0 seats and full, got %d/%s", stored.SeatsAvailable, stored.Status)
	}

	if _, err := env.RideRequestService.AcceptRequest(ctx, driver, reqB.ID); !errors.Is(err, service.ErrTripFull) {
		t.Fatalf("Expected ErrTripFull for B, got %v", err)
	}
	if env.Requests.GetRequest(reqB.ID).Status != domain.RideRequestStatusPending {
		t.Error("Expected B to stay pending")
	}

	if _, err := env.RideRequestService.RejectRequest(ctx, driver, reqA.ID); err != nil {
		t.Fatalf("Reject A failed: %v", err)
	}
	stored = env.Trips.GetTrip(trip.ID)
	if stored.SeatsAvailable != 1 || stored.Status != domain.TripStatusOpen {
		t.Fatalf("Expected the seat back and open, got %d/%s", stored.SeatsAvailable, stored.Status)
	}

	if _, err := env.RideRequestService.AcceptRequest(ctx, driver, reqB.ID); err != nil {
		t.Fatalf("Accept B failed: %v", err)
	}
	stored = env.Trips.GetTrip(trip.ID)
	if stored.SeatsAvailable != 0 || stored.Status != domain.TripStatusFull {
		t.Errorf("Expected full again, got %d/%s", stored.SeatsAvailable, stored.Status)
	}

	if got := env.Notifications.ForUser(riderA.ID, domain.NotificationRequestRejected); len(got) != 1 {
		t.Errorf("Expected A to get a rejection notice, got %d", len(got))
	}
	if got := env.Notifications.ForUser(riderB.ID, domain.NotificationRequestAccepted); len(got) != 1 {
		t.Errorf("Expected B to get an acceptance notice, got %d", len(got))
	}
}

// TestAcceptRequest_Guards covers ownership and status checks.
func TestAcceptRequest_Guards(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	driver := env.AddDriver("dana")
	other := env.AddDriver("otto")
	rider := env.AddUser("riley")

	trip := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 2)
	pending := env.AddRequest(trip.ID, rider.ID, domain.RideRequestStatusPending)

	if _, err := env.RideRequestService.AcceptRequest(ctx, other, pending.ID); !errors.Is(err, service.ErrNotRequestDriver) {
		t.Errorf("Expected ErrNotRequestDriver, got %v", err)
	}

	rejected := env.AddRequest(trip.ID, env.AddUser("rory").ID, domain.RideRequestStatusRejected)
	if _, err := env.RideRequestService.AcceptRequest(ctx, driver, rejected.ID); !errors.Is(err, service.ErrRequestNotPending) {
		t.Errorf("Expected ErrRequestNotPending, got %v", err)
	}

	cancelled := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 2)
	env.Trips.GetTrip(cancelled.ID).Status = domain.TripStatusCancelled
	onCancelled := env.AddRequest(cancelled.ID, rider.ID, domain.RideRequestStatusPending)
	if _, err := env.RideRequestService.AcceptRequest(ctx, driver, onCancelled.ID); !errors.Is(err, service.ErrCancelledTripAccept) {
		t.Errorf("Expected ErrCancelledTripAccept, got %v", err)
	}

	if _, err := env.RideRequestService.AcceptRequest(ctx, driver, "not-a-uuid"); !errors.Is(err, service.ErrRequestNotFound) {
		t.Errorf("Expected ErrRequestNotFound, got %v", err)
	}

	if env.Trips.GetTrip(trip.ID).SeatsAvailable != 2 {
		t.Error("Expected seats untouched by failed accepts")
	}
}

// TestAcceptRequest_RollsBackOnNotificationFailure verifies the seat change and
// the request status are discarded with the failed notification.
func TestAcceptRequest_RollsBackOnNotificationFailure(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	driver := env.AddDriver("dana")
	rider := env.AddUser("riley")
	trip := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 1)
	req := env.AddRequest(trip.ID, rider.ID, domain.RideRequestStatusPending)

	env.Notifications.CreateError = errors.New("insert failed")

	if _, err := env.RideRequestService.AcceptRequest(ctx, driver, req.ID); err == nil {
		t.Fatal("Expected accept to fail")
	}

	stored := env.Trips.GetTrip(trip.ID)
	if stored.SeatsAvailable != 1 || stored.Status != domain.TripStatusOpen {
		t.Errorf("Expected trip unchanged, got %d/%s", stored.SeatsAvailable, stored.Status)
	}
	if env.Requests.GetRequest(req.ID).Status != domain.RideRequestStatusPending {
		t.Error("Expected request to stay pending")
	}
	if atomic.LoadInt32(&env.Tx.RollbackCount) != 1 {
		t.Errorf("Expected 1 rollback, got %d", env.Tx.RollbackCount)
	}
	if len(env.Publisher.Events()) != 0 {
		t.Error("Expected nothing published for a rolled back transaction")
	}
}

// TestAcceptRequest_ConcurrentLastSeat verifies only one of many concurrent
// accepts gets the last seat.
func TestAcceptRequest_ConcurrentLastSeat(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	driver := env.AddDriver("dana")
	trip := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 1)

	const riders = 10
	requests := make([]*domain.RideRequest, riders)
	for i := range requests {
		requests[i] = env.AddRequest(trip.ID, env.AddUser("rider").ID, domain.RideRequestStatusPending)
	}

	var (
		wg        sync.WaitGroup
		successes int32
		full      int32
	)
	for _, req := range requests {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := env.RideRequestService.AcceptRequest(ctx, driver, id)
			switch {
			case err == nil:
				atomic.AddInt32(&successes, 1)
			case errors.Is(err, service.ErrTripFull):
				atomic.AddInt32(&full, 1)
			default:
				t.Errorf("Unexpected error: %v", err)
			}
		}(req.ID)
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("Expected exactly 1 accept, got %d", successes)
	}
	if full != riders-1 {
		t.Errorf("Expected %d ErrTripFull, got %d", riders-1, full)
	}
	if seats := env.Trips.GetTrip(trip.ID).SeatsAvailable; seats != 0 {
		t.Errorf("Expected 0 seats, got %d", seats)
	}
}

// TestRejectRequest_PendingKeepsSeats verifies rejecting a pending request does not add a seat.
func TestRejectRequest_PendingKeepsSeats(t *testing.T) {
	t.Parallel()
	env := NewEnv()

	driver := env.AddDriver("dana")
	rider := env.AddUser("riley")
	trip := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 2)
	req := env.AddRequest(trip.ID, rider.ID, domain.RideRequestStatusPending)

	got, err := env.RideRequestService.RejectRequest(context.Background(), driver, req.ID)
	if err != nil {
		t.Fatalf("RejectRequest failed: %v", err)
	}
	if got.Status != domain.RideRequestStatusRejected {
		t.Errorf("Expected rejected, got %s", got.Status)
	}
	if seats := env.Trips.GetTrip(trip.ID).SeatsAvailable; seats != 2 {
		t.Errorf("Expected 2 seats, got %d", seats)
	}
}

// TestRejectRequest_CancelledTripKeepsSeats verifies rejecting an accepted rider
// on a cancelled trip leaves the seat count and status alone.
func TestRejectRequest_CancelledTripKeepsSeats(t *testing.T) {
	t.Parallel()
	env := NewEnv()

	driver := env.AddDriver("dana")
	rider := env.AddUser("riley")
	trip := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 0)
	env.Trips.GetTrip(trip.ID).Status = domain.TripStatusCancelled
	req := env.AddRequest(trip.ID, rider.ID, domain.RideRequestStatusAccepted)

	got, err := env.RideRequestService.RejectRequest(context.Background(), driver, req.ID)
	if err != nil {
		t.Fatalf("RejectRequest failed: %v", err)
	}
	if got.Status != domain.RideRequestStatusRejected {
		t.Errorf("Expected rejected, got %s", got.Status)
	}
	if stored := env.Requests.GetRequest(req.ID); stored.Status != domain.RideRequestStatusRejected {
		t.Errorf("Expected stored request rejected, got %s", stored.Status)
	}

	stored := env.Trips.GetTrip(trip.ID)
	if stored.SeatsAvailable != 0 || stored.Status != domain.TripStatusCancelled {
		t.Errorf("Expected cancelled trip untouched, got %d/%s", stored.SeatsAvailable, stored.Status)
	}
	if env.Trips.UpdateCallCount != 0 {
		t.Errorf("Expected no trip update, got %d", env.Trips.UpdateCallCount)
	}
}

// TestWithdrawRequest_ReturnsSeat verifies an accepted rider's withdrawal frees the seat.
func TestWithdrawRequest_ReturnsSeat(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	driver := env.AddDriver("dana")
	rider := env.AddUser("riley")
	trip := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 0)
	req := env.AddRequest(trip.ID, rider.ID, domain.RideRequestStatusAccepted)

	if _, err := env.RideRequestService.WithdrawRequest(ctx, driver, req.ID); !errors.Is(err, service.ErrNotRequestRider) {
		t.Fatalf("Expected ErrNotRequestRider for driver, got %v", err)
	}

	if _, err := env.RideRequestService.WithdrawRequest(ctx, rider, req.ID); err != nil {
		t.Fatalf("WithdrawRequest failed: %v", err)
	}

	if env.Requests.GetRequest(req.ID) != nil {
		t.Error("Expected request to be deleted")
	}
	stored := env.Trips.GetTrip(trip.ID)
	if stored.SeatsAvailable != 1 || stored.Status != domain.TripStatusOpen {
		t.Errorf("Expected 1 seat and open, got %d/%s", stored.SeatsAvailable, stored.Status)
	}
}

// TestWithdrawRequest_CancelledTripKeepsSeats verifies seats are frozen once a trip is cancelled.
func TestWithdrawRequest_CancelledTripKeepsSeats(t *testing.T) {
	t.Parallel()
	env := NewEnv()

	driver := env.AddDriver("dana")
	rider := env.AddUser("riley")
	trip := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 0)
	env.Trips.GetTrip(trip.ID).Status = domain.TripStatusCancelled
	req := env.AddRequest(trip.ID, rider.ID, domain.RideRequestStatusAccepted)

	if _, err := env.RideRequestService.WithdrawRequest(context.Background(), rider, req.ID); err != nil {
		t.Fatalf("WithdrawRequest failed: %v", err)
	}

	stored := env.Trips.GetTrip(trip.ID)
	if stored.SeatsAvailable != 0 || stored.Status != domain.TripStatusCancelled {
		t.Errorf("Expected cancelled trip untouched, got %d/%s", stored.SeatsAvailable, stored.Status)
	}
}

// TestListMyRequests_AttachesTrips verifies the rider's requests come back newest first with trips.
func TestListMyRequests_AttachesTrips(t *testing.T) {
	t.Parallel()
	env := NewEnv()

	driver := env.AddDriver("dana")
	rider := env.AddUser("riley")
	first := env.AddTrip(driver.ID, time.Now().Add(time.Hour), 2)
	second := env.AddTrip(driver.ID, time.Now().Add(2*time.Hour), 2)
	env.AddRequest(first.ID, rider.ID, domain.RideRequestStatusPending)
	env.AddRequest(second.ID, rider.ID, domain.RideRequestStatusAccepted)

	got, err := env.RideRequestService.ListMyRequests(context.Background(), rider)
	if err != nil {
		t.Fatalf("ListMyRequests failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(got))
	}
	if got[0].Trip == nil || got[0].Trip.ID != second.ID {
		t.Errorf("Expected newest request first with its trip, got %+v", got[0])
	}
}
